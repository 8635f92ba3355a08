package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/rainbowlistings/directory/internal/config"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SubmitRateLimiter applies a token bucket per client to listing submissions.
// Signed-in callers are keyed by identity, anonymous ones by IP address.
func SubmitRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		for k, cl := range clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(clients, k)
			}
		}

		cl, ok := clients[key]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
			clients[key] = cl
		}
		cl.lastSeen = now
		return cl.limiter.AllowN(now, 1)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if identity := IdentityFromContext(c); identity != nil {
				key = identity.Subject
			}

			if !allow(key, time.Now()) {
				return reject(c, http.StatusTooManyRequests, "submission rate limit exceeded")
			}
			return next(c)
		}
	}
}
