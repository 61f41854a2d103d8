package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/cohorent/backend/pkg/config"
)

// Client wraps the go-redis client used for rating caches and rate limits.
// 비활성 상태면 rdb 는 nil 이고 Cache/RateLimiter 는 통과(pass-through) 동작.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb     *redis.Client
	enabled bool
	addr    string
}

// options maps the Redis section of the config onto go-redis options
func options(c config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(c.Host, c.Port),
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// New connects when REDIS_ENABLED=true and verifies the server with a ping
// bounded by the dial timeout.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	opts := options(cfg.Redis)
	rdb := redis.NewClient(opts)

	c := &Client{rdb: rdb, enabled: true, addr: opts.Addr}
	if err := c.Ping(context.Background(), pingTimeout(cfg.Redis.DialTimeout)); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

// pingTimeout falls back to 2s when no dial timeout is configured
func pingTimeout(dial time.Duration) time.Duration {
	if dial <= 0 {
		return 2 * time.Second
	}
	return dial
}

// Ping checks the connection within timeout
func (c *Client) Ping(ctx context.Context, timeout time.Duration) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed (%s): %w", c.addr, err)
	}
	return nil
}

// Close closes the connection pool
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Enabled reports whether Redis is configured
func (c *Client) Enabled() bool {
	return c.enabled
}

// Addr returns host:port, empty when disabled
func (c *Client) Addr() string {
	return c.addr
}

// Redis exposes the underlying client to Cache and RateLimiter
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
