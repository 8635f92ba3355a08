package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/logging"
)

// Logging attaches a request-scoped logger to the request context and writes
// one structured line per HTTP request.
func Logging(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := RequestIDFromContext(c)

			logger := base.With().Str("request_id", rid).Logger()
			req := c.Request()
			ctx := logging.WithRequestID(logger.WithContext(req.Context()), rid)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := logger.Info()
			switch {
			case status >= 500:
				event = logger.Error().Err(err)
			case status >= 400:
				event = logger.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", latency).
				Msg("request")

			return err
		}
	}
}
