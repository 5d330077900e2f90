package notify

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis pub/sub sink.
type RedisConfig struct {
	Addr   string
	Prefix string
}

// RedisSink publishes each event on the Redis channel <prefix><topic>.
type RedisSink struct {
	rdb    *goredis.Client
	prefix string
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis sink: addr is required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis sink: ping: %w", err)
	}
	return NewRedisSink(rdb, cfg.Prefix), nil
}

// NewRedisSink wraps an existing client.
func NewRedisSink(rdb *goredis.Client, prefix string) *RedisSink {
	return &RedisSink{rdb: rdb, prefix: prefix}
}

// Publish implements Sink.
func (s *RedisSink) Publish(ctx context.Context, topic string, ev Event) error {
	raw, err := ev.encode()
	if err != nil {
		return fmt.Errorf("redis sink: encode event: %w", err)
	}
	if err := s.rdb.Publish(ctx, s.prefix+topic, raw).Err(); err != nil {
		return fmt.Errorf("redis sink: publish: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisSink) Close() error {
	return s.rdb.Close()
}
