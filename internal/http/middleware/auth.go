package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"evbus/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authKey = "auth"

// Claims is the bearer token payload issued by the account service.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token. Used by tests and local tooling; the
// production issuer lives outside this service.
func IssueToken(secret []byte, userID int64, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if claims.UserID <= 0 {
		return Claims{}, errors.New("user_id kosong")
	}
	return claims, nil
}

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// browsers cannot set headers on websocket upgrades
	return strings.TrimSpace(c.Query("access_token"))
}

// Auth rejects requests without a valid bearer token and stores the caller
// identity for handlers.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			abortAuth(c, http.StatusUnauthorized, "token tidak ditemukan")
			return
		}
		claims, err := parseToken(secret, raw)
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "token tidak valid")
			return
		}
		c.Set(authKey, domain.RequestContext{UserID: claims.UserID, Role: strings.ToLower(claims.Role)})
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[strings.ToLower(r)] = true
	}
	return func(c *gin.Context) {
		rc, ok := CurrentUser(c)
		if !ok {
			abortAuth(c, http.StatusUnauthorized, "token tidak ditemukan")
			return
		}
		if !allowed[rc.Role] && rc.Role != domain.RoleAdmin {
			abortAuth(c, http.StatusForbidden, "akses ditolak")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity stored by Auth.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(authKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func abortAuth(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       http.StatusText(status),
		"request_id": GetRequestID(c),
	})
}
