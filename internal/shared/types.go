package shared

// shared types across the application
// AuthClaims is what the HTTP middleware stores on the request context
// after a bearer token has been verified.
type AuthClaims struct {
	UserID   string `json:"id"`       // user identifier(UUID)
	Username string `json:"username"` // username
	Role     string `json:"role"`     // "user" or "admin"
}

func (c *AuthClaims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}
