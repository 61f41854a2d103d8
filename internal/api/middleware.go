package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/cohorent/backend/pkg/logger"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// RequestIDHeader is the header carrying the request id
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the request id stored by the request id middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestIDMiddleware reuses an incoming X-Request-ID or generates a new one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			entry := log.WithFields(map[string]interface{}{
				"request_id": RequestID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     m.Code,
				"bytes":      m.Written,
				"duration":   m.Duration,
			})
			if m.Code >= http.StatusInternalServerError {
				entry.Warn("HTTP request")
				return
			}
			entry.Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error":      err,
						"path":       r.URL.Path,
						"request_id": RequestID(r.Context()),
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"error":   "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// limiter decides whether a client may make another request
type limiter interface {
	allow(ctx context.Context, client string) (bool, error)
}

// redisLimiter shares the window across API instances
type redisLimiter struct {
	rl        *redis.RateLimiter
	perMinute int
}

func (l *redisLimiter) allow(ctx context.Context, client string) (bool, error) {
	ok, _, err := l.rl.Allow(ctx, redis.APIRateLimit(client, l.perMinute))
	return ok, err
}

// localLimiter is a per-process token bucket per client (Redis 비활성 시).
// 버킷은 1분이면 가득 차므로 idle 클라이언트는 지워도 동작이 같다.
type localLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	perMinute int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// localLimiterIdleTTL is how long an unseen client keeps its bucket
const localLimiterIdleTTL = 5 * time.Minute

func newLocalLimiter(perMinute int) *localLimiter {
	return &localLimiter{
		clients:   make(map[string]*clientBucket),
		perMinute: perMinute,
		idleTTL:   localLimiterIdleTTL,
		now:       time.Now,
	}
}

func (l *localLimiter) allow(_ context.Context, client string) (bool, error) {
	l.mu.Lock()
	now := l.now()
	l.sweep(now)

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{
			lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.clients[client] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.lim.AllowN(now, 1), nil
}

// sweep drops idle buckets at most once per idle TTL (mu 보유 상태에서 호출)
func (l *localLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// newLimiter picks the Redis limiter when Redis is enabled
func newLimiter(rdb *redis.Client, perMinute int) limiter {
	if rdb != nil && rdb.Enabled() {
		return &redisLimiter{rl: redis.NewRateLimiter(rdb, "cohorent"), perMinute: perMinute}
	}
	return newLocalLimiter(perMinute)
}

// rateLimitMiddleware rejects clients over the per-minute budget with 429
func rateLimitMiddleware(l limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)

			ok, err := l.allow(r.Context(), client)
			if err != nil {
				// Redis 장애 시 요청은 통과
				log.WithError(err).Warn("Rate limit check failed")
				ok = true
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For hop or the remote address
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
