package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

// Throttle counts requests per client IP under name and rejects with 429 once
// the limiter says no. Limiter failures let the request through.
func Throttle(name string, limiter ports.LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			key := name + ":" + c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("attempt limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LoginsThrottledTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, try again later")
			}
			return next(c)
		}
	}
}
