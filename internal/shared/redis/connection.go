package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cosmos-server/internal/shared/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

// Connect returns nil, nil when Redis is disabled so callers can fall back to
// an in-process cache.
func Connect(cfg config.RedisConfig) (*Client, error) {
	logger := slog.With("component", "redis", "operation", "connect")

	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory fallback")
		return nil, nil
	}

	opts, err := options(cfg)
	if err != nil {
		logger.Error("Failed to parse Redis URL", "error", err)
		return nil, err
	}

	logger.Debug("Connecting to Redis", "addr", opts.Addr, "db", opts.DB)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Redis connection established", "addr", opts.Addr)

	return &Client{rdb}, nil
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}, nil
}

// Status reports "connected", "disconnected" or "disabled" for health checks.
func (c *Client) Status(ctx context.Context) string {
	if c == nil || c.Client == nil {
		return "disabled"
	}
	if err := c.Ping(ctx).Err(); err != nil {
		return "disconnected"
	}
	return "connected"
}

func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
