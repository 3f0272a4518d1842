package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// windowUsage is the state of one caller's fixed window.
type windowUsage struct {
	count int64
	reset time.Duration
}

// hit counts one request in the caller's window. The expiry is only set when
// the window opens, so it is never extended by later requests.
func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (windowUsage, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return windowUsage{}, err
	}

	usage := windowUsage{count: incr.Val(), reset: ttl.Val()}
	if usage.reset < 0 {
		usage.reset = window
	}
	return usage, nil
}

// rateLimitKey buckets callers by a digest of their bearer token, or by
// address when there is none. Token claims are never verified here, so a
// subject cannot be trusted to name the caller.
func rateLimitKey(prefix string, r *http.Request) string {
	clientID := r.RemoteAddr
	if auth, ok := GetAuthContext(r.Context()); ok && auth.Token != "" {
		sum := sha256.Sum256([]byte(auth.Token))
		clientID = "tok:" + hex.EncodeToString(sum[:])
	}
	return fmt.Sprintf("%s:%s", prefix, clientID)
}

// RateLimitMiddleware caps how often a caller may trigger aggregations. Each
// dashboard load fans out to several back-office endpoints, so the budget is
// counted per caller in Redis. Requests pass when Redis is unavailable.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usage, err := hit(r.Context(), redisClient, rateLimitKey(config.KeyPrefix, r), config.Window)
			if err != nil {
				logger.Error("Failed to count request for rate limiting",
					zap.Error(err),
					zap.String("key_prefix", config.KeyPrefix),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(config.RequestsPerWindow)-usage.count, 0)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(usage.reset).Unix(), 10))

			if usage.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("path", r.URL.Path),
					zap.Int64("count", usage.count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(usage.reset.Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
