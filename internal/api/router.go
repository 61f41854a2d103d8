package api

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/wonny/cohorent/backend/internal/api/handlers"
	"github.com/wonny/cohorent/backend/pkg/logger"
	"github.com/wonny/cohorent/backend/pkg/redis"
)

// RouterOptions holds cross-cutting HTTP settings
type RouterOptions struct {
	AllowedOrigins     []string
	RateLimitPerMinute int           // 0 = 제한 없음
	Redis              *redis.Client // nil 또는 비활성 → 프로세스 내 limiter
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(products *handlers.ProductHandler, index *handlers.IndexHandler, opts RouterOptions, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", index.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("", index.Index).Methods(http.MethodGet)
	api.HandleFunc("/", index.Index).Methods(http.MethodGet)

	// Products
	api.HandleFunc("/products", products.List).Methods(http.MethodGet)
	api.HandleFunc("/products", products.Create).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", products.Get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", products.Update).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", products.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id}/rating-history", products.RatingHistory).Methods(http.MethodGet)

	// Portfolio & ad-hoc scoring
	api.HandleFunc("/portfolio/summary", products.PortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/score", products.Score).Methods(http.MethodPost)

	// Apply middleware (등록 순서대로 바깥쪽)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if opts.RateLimitPerMinute > 0 {
		api.Use(rateLimitMiddleware(newLimiter(opts.Redis, opts.RateLimitPerMinute), log))
	}

	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(opts.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Accept", "Content-Type", RequestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{RequestIDHeader}),
	)(r)
}
