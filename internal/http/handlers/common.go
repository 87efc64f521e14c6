package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"evbus/internal/domain"
	"evbus/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload tidak valid", err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", label+" tidak valid", nil)
		return 0, false
	}
	return id, true
}

// caller is the authenticated user; Auth must be mounted before.
func caller(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.CurrentUser(c)
	if !ok || rc.UserID <= 0 {
		respondError(c, http.StatusUnauthorized, "unauthorized", "token tidak ditemukan", nil)
		return domain.RequestContext{}, false
	}
	return rc, true
}

func isStaff(rc domain.RequestContext) bool {
	return rc.Role == domain.RoleAgent || rc.Role == domain.RoleAdmin
}
