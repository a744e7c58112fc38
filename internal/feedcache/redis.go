package feedcache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gustycube/neoview/internal/logging"
)

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Redis shares fetched feed payloads between processes.
type Redis struct {
	cli        redisClient
	prefix     string
	ttl        time.Duration
	log        *logging.Logger
	errorCount atomic.Int64
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(ctx context.Context, addr, prefix string, ttl time.Duration, log *logging.Logger) (*Redis, error) {
	cli := redis.NewClient(&redis.Options{Addr: addr})
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cli.Ping(pctx).Err(); err != nil {
		cli.Close()
		return nil, err
	}
	return newRedis(cli, prefix, ttl, log), nil
}

func newRedis(cli redisClient, prefix string, ttl time.Duration, log *logging.Logger) *Redis {
	return &Redis{cli: cli, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	b, err := r.cli.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logError("get", err)
		return nil, false
	}
	return b, true
}

func (r *Redis) Put(ctx context.Context, key string, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.cli.Set(ctx, r.prefix+key, payload, r.ttl).Err(); err != nil {
		r.logError("set", err)
	}
}

// Ping reports whether the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

func (r *Redis) Close() error { return r.cli.Close() }

func (r *Redis) logError(op string, err error) {
	n := r.errorCount.Add(1)
	if n%100 == 1 { // every 100th, to avoid spam
		r.log.Warnw("redis payload cache error", "op", op, "count", n, "err", err)
	}
}
