package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cohorent/backend/internal/api/handlers"
	"github.com/wonny/cohorent/backend/internal/catalog"
	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/ratings"
	"github.com/wonny/cohorent/backend/internal/scoring"
	"github.com/wonny/cohorent/backend/pkg/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T, opts RouterOptions) (http.Handler, *ratings.Service) {
	t.Helper()

	log := logger.NewNop()
	now := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	svc := ratings.NewService(
		catalog.NewMemoryRepository(),
		scoring.NewEngine(nil, scoring.WithClock(now)),
		log,
		ratings.WithClock(now),
	)
	router := NewRouter(
		handlers.NewProductHandler(svc, log),
		handlers.NewIndexHandler(svc.Engine().AlgoVersion()),
		opts,
		log,
	)
	return router, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func seed(t *testing.T, svc *ratings.Service, name string, phase contracts.Phase, signals *contracts.ExternalSignals) string {
	t.Helper()
	d, err := svc.Create(context.Background(), ratings.CreateProductInput{
		Name:            name,
		Category:        "Home",
		Phase:           &phase,
		ExternalSignals: signals,
	})
	require.NoError(t, err)
	return d.ID
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, _ := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestIndex(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, _ := do(t, h, http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cohorent API", body["name"])
	assert.Contains(t, body, "endpoints")
	assert.Contains(t, body, "ratingSystem")
}

func TestListProducts(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	seed(t, svc, "A", contracts.PhaseIdea, nil)
	seed(t, svc, "B", contracts.PhaseIdea, &contracts.ExternalSignals{CPCEstimate: contracts.Ptr(3.0)})
	seed(t, svc, "C", contracts.PhaseMatureLive, nil)

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"all", "", 3},
		{"phase", "?phase=0", 2},
		{"phase name", "?phase=mature_live", 1},
		{"status", "?status=Test", 1},
		{"limit", "?limit=2", 2},
		{"bad limit ignored", "?limit=abc", 3},
		{"zero limit ignored", "?limit=0", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, "/api/products"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, env.Success)
			require.NotNil(t, env.Count)
			assert.Equal(t, tt.count, *env.Count)

			var list []ratings.ProductSummary
			require.NoError(t, json.Unmarshal(env.Data, &list))
			assert.Len(t, list, tt.count)
		})
	}
}

func TestListProducts_InvalidFilters(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, env := do(t, h, http.MethodGet, "/api/products?phase=9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, h, http.MethodGet, "/api/products?status=Hold", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts_Empty(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, env := do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCreateProduct(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, env := do(t, h, http.MethodPost, "/api/products",
		`{"name":"Yoga Mat","category":"Sports","phase":0,"tags":["new"],"externalSignals":{"cpcEstimate":3}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Product created successfully", env.Message)

	var detail struct {
		ID     string                   `json:"id"`
		Name   string                   `json:"name"`
		Phase  int                      `json:"phase"`
		Rating contracts.RatingSnapshot `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.True(t, strings.HasPrefix(detail.ID, "prod_"))
	assert.Equal(t, "Yoga Mat", detail.Name)
	assert.Equal(t, 0, detail.Phase)
	assert.Equal(t, 529, detail.Rating.Rating)
	assert.Nil(t, detail.Rating.LivePerformance)
}

func TestCreateProduct_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{"name":"x"}`, "missing required fields: category, phase"},
		{"phase zero is present", `{"category":"y","phase":0}`, "missing required fields: name"},
		{"invalid phase", `{"name":"x","category":"y","phase":5}`, "invalid request body"},
		{"malformed json", `{"name":`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, tt.want)
		})
	}
}

func TestGetProduct(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	id := seed(t, svc, "Lamp", contracts.PhaseEarlyLive, nil)

	rec, env := do(t, h, http.MethodGet, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		ID     string                   `json:"id"`
		Rating contracts.RatingSnapshot `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, id, detail.ID)
	require.NotNil(t, detail.Rating.LivePerformance)
	assert.Equal(t, id, detail.Rating.ProductID)

	rec, env = do(t, h, http.MethodGet, "/api/products/prod_missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", env.Error)
}

func TestUpdateProduct(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	id := seed(t, svc, "Lamp", contracts.PhaseIdea, nil)

	rec, env := do(t, h, http.MethodPut, "/api/products/"+id, `{"name":"Lamp 2","externalSignals":{"cpcEstimate":3}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Product updated successfully", env.Message)

	var detail struct {
		Name   string                   `json:"name"`
		Rating contracts.RatingSnapshot `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Lamp 2", detail.Name)
	assert.Equal(t, contracts.StatusTest, detail.Rating.StatusLabel)

	rec, _ = do(t, h, http.MethodPut, "/api/products/"+id, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/products/nope", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	id := seed(t, svc, "Lamp", contracts.PhaseIdea, nil)

	rec, env := do(t, h, http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", env.Message)

	rec, _ = do(t, h, http.MethodDelete, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRatingHistory(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	id := seed(t, svc, "Lamp", contracts.PhaseIdea, nil)

	rec, env := do(t, h, http.MethodGet, "/api/products/"+id+"/rating-history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 4, *env.Count)

	var history []ratings.RatingSummary
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 570, history[0].Rating)
	assert.Equal(t, 600, history[3].Rating)

	rec, _ = do(t, h, http.MethodGet, "/api/products/nope/rating-history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioSummary(t *testing.T) {
	h, svc := newTestRouter(t, RouterOptions{})
	seed(t, svc, "A", contracts.PhaseIdea, nil)
	seed(t, svc, "B", contracts.PhaseIdea, &contracts.ExternalSignals{CPCEstimate: contracts.Ptr(3.0)})

	rec, env := do(t, h, http.MethodGet, "/api/portfolio/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary ratings.PortfolioSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[contracts.StatusTest])
	assert.Equal(t, 564.5, summary.MeanRating)
}

func TestScore(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{})

	rec, env := do(t, h, http.MethodPost, "/api/score", `{"phase":"idea","externalSignals":{"cpcEstimate":3}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var snap contracts.RatingSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 529, snap.Rating)
	assert.Equal(t, contracts.StatusTest, snap.StatusLabel)
	assert.Equal(t, 0.11, snap.ConfidenceIndex)

	rec, _ = do(t, h, http.MethodPost, "/api/score", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit_Local(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodGet, "/api/products", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := do(t, h, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", env.Error)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// health 는 제한 대상이 아님
	rec, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLocalLimiter_EvictsIdleClients(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l := newLocalLimiter(2)
	l.now = func() time.Time { return clock }

	for _, client := range []string{"10.0.0.1", "10.0.0.2"} {
		ok, err := l.allow(ctx, client)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	clock = clock.Add(2 * time.Minute)
	_, _ = l.allow(ctx, "10.0.0.1")

	// 10.0.0.2 는 6분 idle → 제거, 10.0.0.1 은 4분 idle → 유지
	clock = clock.Add(4 * time.Minute)
	_, _ = l.allow(ctx, "10.0.0.3")

	assert.Len(t, l.clients, 2)
	assert.Contains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.3")
	assert.NotContains(t, l.clients, "10.0.0.2")
}

func TestLocalLimiter_BudgetPerClient(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l := newLocalLimiter(2)
	l.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		ok, _ := l.allow(ctx, "10.0.0.1")
		assert.True(t, ok)
	}
	ok, _ := l.allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	// 다른 클라이언트는 별도 버킷
	ok, _ = l.allow(ctx, "10.0.0.2")
	assert.True(t, ok)

	// 1분 뒤 버킷 회복
	clock = clock.Add(time.Minute)
	ok, _ = l.allow(ctx, "10.0.0.1")
	assert.True(t, ok)
}

func TestCORS(t *testing.T) {
	h, _ := newTestRouter(t, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	h := recoveryMiddleware(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "10.0.0.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
