package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequireRole lets a request through only when its identity holds one of the
// given roles. It must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFromContext(c)
			if identity == nil {
				return reject(c, http.StatusForbidden, "missing role")
			}
			if !slices.Contains(roles, identity.Role) {
				zerolog.Ctx(c.Request().Context()).Warn().
					Str("subject", identity.Subject).
					Str("role", identity.Role).
					Str("path", c.Path()).
					Msg("role check denied")
				return reject(c, http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
