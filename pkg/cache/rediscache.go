// Package cache provides a Redis-backed verdict cache. Solver queries
// are deterministic functions of their program text, so verdicts can be
// shared across runs and across machines running the same suites.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/util"
)

const keyPrefix = "verinet:verdict:"

// DefaultTTL bounds how long cached verdicts live. Programs embed no
// timestamps, so entries never go stale; the TTL only caps cache growth.
const DefaultTTL = 7 * 24 * time.Hour

// RedisCache memoizes solver verdicts in Redis. All failures degrade to
// a cache miss: a broken cache slows checks down, it never breaks them.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache against the given Redis address.
func New(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		ttl: DefaultTTL,
	}
}

// Connect tests the connection.
func (c *RedisCache) Connect(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// key derives the cache key from the program text. Programs run to
// kilobytes, so they are stored hashed, never verbatim.
func key(program string) string {
	sum := sha256.Sum256([]byte(program))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Lookup returns the cached verdict for a program, if any.
func (c *RedisCache) Lookup(ctx context.Context, program string) (smt.Verdict, bool) {
	val, err := c.client.Get(ctx, key(program)).Result()
	if err == redis.Nil {
		return smt.Unknown, false
	}
	if err != nil {
		util.Warnf("verdict cache lookup failed: %v", err)
		return smt.Unknown, false
	}
	switch val {
	case string(smt.Sat):
		return smt.Sat, true
	case string(smt.Unsat):
		return smt.Unsat, true
	default:
		// Entry written by an incompatible version; ignore it.
		return smt.Unknown, false
	}
}

// Store records a verdict for a program.
func (c *RedisCache) Store(ctx context.Context, program string, v smt.Verdict) {
	if v != smt.Sat && v != smt.Unsat {
		return
	}
	if err := c.client.Set(ctx, key(program), string(v), c.ttl).Err(); err != nil {
		util.Warnf("verdict cache store failed: %v", err)
	}
}
