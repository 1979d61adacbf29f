package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
)

const rateLimitPrefix = "cadferias_limiter"

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
	// Paths restricts the limit to requests whose path starts with one of the
	// prefixes. Empty means every request.
	Paths []string
	// KeyFunc defaults to the client IP.
	KeyFunc func(r *http.Request) string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}

func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := libredis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := libredis.NewClient(opts)
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: rateLimitPrefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create redis store")
	}
	return store, nil
}

func (c RateLimitConfig) applies(path string) bool {
	if len(c.Paths) == 0 {
		return true
	}
	for _, prefix := range c.Paths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	if config.Period <= 0 {
		config.Period = time.Minute
	}
	if config.Store == nil {
		config.Store = NewMemoryStore()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = clientIP
	}
	instance := limiter.New(config.Store, limiter.Rate{
		Period: config.Period,
		Limit:  int64(config.RequestsPerPeriod),
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.RequestsPerPeriod <= 0 || !config.applies(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			limit, err := instance.Get(r.Context(), config.KeyFunc(r))
			if err != nil {
				composables.UseLogger(r.Context()).WithError(err).Warn("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(limit.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limit.Reset, 10))
			if limit.Reached {
				_ = httpapi.WriteError(w, r, http.StatusTooManyRequests, httpapi.ErrCodeRateLimited, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
