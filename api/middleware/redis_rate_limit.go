package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRateLimiter counts requests per (scope, client IP) in a keyed
// expiring counter so the limit holds across process instances. The
// limiter fails open when Redis is unreachable.
type RedisRateLimiter struct {
	Client *redis.Client
	Logger logrus.FieldLogger
	Scope  string
	Limit  int64
	Window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, scope string, limit int64, window time.Duration, logger logrus.FieldLogger) *RedisRateLimiter {
	return &RedisRateLimiter{
		Client: client,
		Logger: logger,
		Scope:  scope,
		Limit:  limit,
		Window: window,
	}
}

func (l *RedisRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l.Client == nil {
				return next(c)
			}
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", l.Scope, c.RealIP())

			count, err := l.Client.Incr(ctx, key).Result()
			if err != nil {
				if l.Logger != nil {
					l.Logger.WithError(err).Warn("rate limiter unavailable")
				}
				return next(c)
			}
			if count == 1 {
				_ = l.Client.Expire(ctx, key, l.Window).Err()
			}
			if count > l.Limit {
				retryAfter := l.Window
				if ttl, err := l.Client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retryAfter = ttl
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
