package redisconn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Open connects to redis at url and pings it. url may be a full redis:// URL
// or a bare host:port.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	return OpenWithTimeout(ctx, url, pingTimeout)
}

// OpenWithTimeout is Open with a custom ping timeout.
func OpenWithTimeout(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(Options(url))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// Options parses url into client options, falling back to treating it as an
// address.
func Options(url string) *redis.Options {
	full := url
	if !strings.Contains(url, "://") {
		full = "redis://" + url
	}
	opt, err := redis.ParseURL(full)
	if err != nil {
		return &redis.Options{Addr: url}
	}
	return opt
}
