package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window counter shared by every instance behind the same
// Redis server.
type Redis struct {
	client   redis.UniversalClient
	requests int
	window   time.Duration
	prefix   string
	now      func() time.Time
}

func NewRedis(client redis.UniversalClient, requests int, window time.Duration) *Redis {
	return &Redis{
		client:   client,
		requests: requests,
		window:   window,
		prefix:   "leadflow:ratelimit:",
		now:      time.Now,
	}
}

// Connect parses url and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	k := fmt.Sprintf("%s%s:%d", r.prefix, key, bucket)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= int64(r.requests), nil
}
