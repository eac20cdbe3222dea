// Package testutil provides shared helpers for verinet tests.
package testutil

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// SkipIfNoZ3 skips the test when no z3 binary is on PATH. End-to-end
// checks need a real solver; everything else runs against fakes.
func SkipIfNoZ3(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("z3")
	if err != nil {
		t.Skip("z3 not found on PATH")
	}
	return path
}

// RedisAddr returns the address of a test Redis instance, or "" when none
// is configured.
func RedisAddr() string {
	return os.Getenv("VERINET_TEST_REDIS_ADDR")
}

// SkipIfNoRedis skips the test when no test Redis is reachable.
func SkipIfNoRedis(t *testing.T) string {
	t.Helper()

	addr := RedisAddr()
	if addr == "" {
		t.Skip("test Redis not available: set VERINET_TEST_REDIS_ADDR")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("test Redis not reachable at %s: %v", addr, err)
	}
	return addr
}

// Context returns a context with a reasonable timeout for tests.
// The cancel function is registered via t.Cleanup.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
