package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/verinet-network/verinet/internal/testutil"
	"github.com/verinet-network/verinet/pkg/smt"
)

func TestKeyIsHashed(t *testing.T) {
	program := "(declare-sort Packet 0)\n(check-sat)\n"
	k := key(program)
	if !strings.HasPrefix(k, keyPrefix) {
		t.Errorf("key %q missing prefix", k)
	}
	if strings.Contains(k, "declare-sort") {
		t.Error("key must not embed program text")
	}
	if k != key(program) {
		t.Error("key derivation must be deterministic")
	}
	if k == key(program+" ") {
		t.Error("distinct programs must hash to distinct keys")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	addr := testutil.SkipIfNoRedis(t)
	c := New(addr)
	defer c.Close()
	ctx := context.Background()

	program := "(assert true)\n(check-sat)\n; " + t.Name()

	if _, ok := c.Lookup(ctx, program); ok {
		t.Fatal("unexpected cache hit before store")
	}

	c.Store(ctx, program, smt.Unsat)
	v, ok := c.Lookup(ctx, program)
	if !ok {
		t.Fatal("expected cache hit after store")
	}
	if v != smt.Unsat {
		t.Errorf("cached verdict = %s, want unsat", v)
	}

	// Unknown verdicts are never cached.
	c.Store(ctx, program+"2", smt.Unknown)
	if _, ok := c.Lookup(ctx, program+"2"); ok {
		t.Error("unknown verdict should not be cached")
	}
}

func TestLookupDegradesWithoutRedis(t *testing.T) {
	// An unreachable cache is a miss, never an error.
	c := New("127.0.0.1:1")
	defer c.Close()

	if _, ok := c.Lookup(context.Background(), "(check-sat)"); ok {
		t.Error("lookup against a dead cache should miss")
	}
	c.Store(context.Background(), "(check-sat)", smt.Sat) // must not panic
}
