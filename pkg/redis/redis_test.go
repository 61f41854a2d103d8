package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wonny/cohorent/backend/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	opts := options(config.RedisConfig{
		Host:         "cache.internal",
		Port:         "6380",
		Password:     "secret",
		DB:           2,
		PoolSize:     7,
		DialTimeout:  time.Second,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 400 * time.Millisecond,
	})

	if opts.Addr != "cache.internal:6380" {
		t.Errorf("Expected addr cache.internal:6380, got %s", opts.Addr)
	}
	if opts.DB != 2 || opts.Password != "secret" {
		t.Errorf("Unexpected DB/password: %d %q", opts.DB, opts.Password)
	}
	if opts.PoolSize != 7 {
		t.Errorf("Expected pool size 7, got %d", opts.PoolSize)
	}
	if opts.DialTimeout != time.Second || opts.ReadTimeout != 300*time.Millisecond || opts.WriteTimeout != 400*time.Millisecond {
		t.Errorf("Unexpected timeouts: %v %v %v", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestPingTimeout(t *testing.T) {
	if got := pingTimeout(0); got != 2*time.Second {
		t.Errorf("Expected 2s fallback, got %v", got)
	}
	if got := pingTimeout(150 * time.Millisecond); got != 150*time.Millisecond {
		t.Errorf("Expected dial timeout, got %v", got)
	}
}

func TestClient_PingDisabled(t *testing.T) {
	client := disabledClient(t)

	if err := client.Ping(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Ping() on disabled client error = %v", err)
	}
	if client.Addr() != "" {
		t.Errorf("Expected empty addr, got %q", client.Addr())
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled:     true,
			Host:        "127.0.0.1",
			Port:        "1",
			PoolSize:    1,
			DialTimeout: 200 * time.Millisecond,
		},
	}

	start := time.Now()
	client, err := New(cfg)
	if err == nil {
		t.Fatal("Expected connection error for unreachable Redis")
	}
	if client != nil {
		t.Error("Expected nil client on failure")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("Expected address in error, got %v", err)
	}
	// ping 은 dial timeout 안에서 끝나야 함
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, expected bounded ping", elapsed)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := APIRateLimit("127.0.0.1", 60)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != cfg.Limit {
		t.Errorf("Expected remaining = %d, got %d", cfg.Limit, remaining)
	}

	if err := limiter.Wait(context.Background(), WebhookRateLimit); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(ctx, "key", "value", TTLShort); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestCache_GetOrSet_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")

	calls := 0
	var dest struct {
		Rating int `json:"rating"`
	}
	err := cache.GetOrSet(context.Background(), "k", &dest, TTLMedium, func() (interface{}, error) {
		calls++
		return map[string]int{"rating": 640}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected loader to be called once, got %d", calls)
	}
	if dest.Rating != 640 {
		t.Errorf("Expected rating 640, got %d", dest.Rating)
	}
}

func TestCacheKeys(t *testing.T) {
	updatedAt := time.Unix(1700000000, 5)

	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "RatingKey",
			fn:       func() string { return RatingKey("prod_001", updatedAt, "v1") },
			expected: "rating:v1:prod_001:1700000000000000005",
		},
		{
			name:     "PortfolioSummaryKey",
			fn:       func() string { return PortfolioSummaryKey("v1") },
			expected: "portfolio:summary:v1",
		},
		{
			name:     "APIRateLimit",
			fn:       func() string { return APIRateLimit("10.0.0.1", 10).Key },
			expected: "api:10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
