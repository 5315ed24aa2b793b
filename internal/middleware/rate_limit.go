package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	loginWindow         = time.Minute
	redisLimiterPrefix  = "storefront:ratelimit:"
	redisLimiterTimeout = 500 * time.Millisecond
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}

// LoginLimiter caps login attempts per client IP to rate_limit.login_per_minute.
//
// With redis the count is shared by every instance; without it each process
// keeps its own token bucket.
func (r *RateLimitMiddleware) LoginLimiter() echo.MiddlewareFunc {
	perMinute := r.server.Config.RateLimit.LoginPerMinute

	var store middleware.RateLimiterStore
	if r.server.Redis != nil {
		store = NewRedisRateLimiterStore(r.server.Redis, "login", perMinute, loginWindow, r.server.Logger)
	} else {
		store = middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / loginWindow.Seconds()),
			Burst:     perMinute,
			ExpiresIn: 3 * loginWindow,
		})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify the client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("login rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many login attempts, please try again later")
		},
	})
}

// RedisRateLimiterStore is a fixed-window counter kept in redis.
type RedisRateLimiterStore struct {
	client *redis.Client
	scope  string
	limit  int
	window time.Duration
	log    *zerolog.Logger
	now    func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, scope string, limit int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		scope:  scope,
		limit:  limit,
		window: window,
		log:    logger,
		now:    time.Now,
	}
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("%s%s:%s:%d", redisLimiterPrefix, s.scope, identifier, bucket)
}

// Allow implements middleware.RateLimiterStore. Redis failures let the
// request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()

	key := s.key(identifier)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error().Err(err).Str("scope", s.scope).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= int64(s.limit), nil
}
