package domain

// Role values carried in the bearer token.
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
	RoleAgent  = "agent"
	RoleAdmin  = "admin"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}
