package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	authpkg "github.com/rainbowlistings/directory/internal/auth"
)

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present. Anonymous requests pass through; a malformed or rejected token is
// answered with 401 so clients notice expired sessions.
func OptionalAuth(verifier authpkg.Verifier) echo.MiddlewareFunc {
	return authenticate(verifier, false)
}

// RequireAuth rejects requests that do not carry a valid bearer token.
func RequireAuth(verifier authpkg.Verifier) echo.MiddlewareFunc {
	return authenticate(verifier, true)
}

func authenticate(verifier authpkg.Verifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return reject(c, http.StatusUnauthorized, "missing authorization header")
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return reject(c, http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()
			identity, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("bearer token rejected")
				return reject(c, http.StatusUnauthorized, "invalid token")
			}

			setIdentity(c, identity)
			return next(c)
		}
	}
}
