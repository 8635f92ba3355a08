package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/auth"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyIdentity  = "identity"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)

// IdentityFromContext returns the authenticated caller, or nil for anonymous requests.
func IdentityFromContext(c echo.Context) *auth.Identity {
	identity, _ := c.Get(ContextKeyIdentity).(*auth.Identity)
	return identity
}

func setIdentity(c echo.Context, identity *auth.Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyUserID, identity.Subject)
	c.Set(ContextKeyUserEmail, identity.Email)
	c.Set(ContextKeyUserRole, identity.Role)
}

// reject writes the API error envelope.
func reject(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
