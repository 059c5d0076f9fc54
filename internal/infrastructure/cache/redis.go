package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	StateUp       = "up"
	StateDown     = "down"
	StateDisabled = "disabled"
)

var ErrUnavailable = errors.New("redis unavailable")

// RetryAfter is how long the cache stays bypassed after a failed call.
const RetryAfter = 30 * time.Second

// Redis is a JSON cache that degrades to a pass-through when the server
// cannot be reached. Reads then miss and writes are dropped.
type Redis struct {
	client     *redis.Client
	logger     *logger.Logger
	defaultTTL time.Duration
	disabled   bool

	// bypassUntil holds unix nanoseconds; zero means the client is used.
	bypassUntil       atomic.Int64
	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *Redis {
	r := &Redis{logger: log, defaultTTL: cfg.TTL}
	if !cfg.Enabled {
		r.disabled = true
		return r
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		r.warnUnavailableOnce(err)
		_ = client.Close()
		return r
	}

	r.client = client
	return r
}

// NewWithClient wraps an existing client without pinging it.
func NewWithClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{client: client, logger: log, defaultTTL: ttl}
}

func (r *Redis) hasClient() bool {
	return r != nil && r.client != nil
}

func (r *Redis) isUnavailable() bool {
	if !r.hasClient() {
		return true
	}
	until := r.bypassUntil.Load()
	return until != 0 && time.Now().UnixNano() < until
}

// markUnavailable starts a bypass window after a failed command. Failures
// caused by the caller's own context do not count.
func (r *Redis) markUnavailable(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	r.bypassUntil.Store(time.Now().Add(RetryAfter).UnixNano())
	r.warnUnavailableOnce(err)
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		fields := map[string]string{"component": "cache"}
		if err != nil {
			fields["error"] = err.Error()
		}
		r.logger.Warn("redis unavailable, bypassing cache", fields)
	}
}

// State reports up, down or disabled for the dependency health check.
func (r *Redis) State(ctx context.Context) string {
	if r == nil || r.disabled {
		return StateDisabled
	}
	if err := r.Ping(ctx); err != nil {
		return StateDown
	}
	return StateUp
}

// Ping always reaches the server when a client exists, so a successful
// ping ends any bypass window early.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.hasClient() {
		return ErrUnavailable
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return err
	}
	r.bypassUntil.Store(0)
	return nil
}

func (r *Redis) Close() error {
	if !r.hasClient() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.markUnavailable(ctx, err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.markUnavailable(ctx, err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.markUnavailable(ctx, err)
		return err
	}
	return nil
}

// DeleteByPattern scans and removes every key matching a glob pattern.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil && r.logger != nil {
			r.logger.Warn("redis delete failed", map[string]string{
				"key":     k,
				"pattern": pattern,
				"error":   err.Error(),
			})
		}
	}
	if err := iter.Err(); err != nil {
		r.markUnavailable(ctx, err)
		return err
	}
	return nil
}

const DefaultTTL = 60 * time.Second
