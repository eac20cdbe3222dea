package verify

import (
	"testing"
	"time"

	"github.com/verinet-network/verinet/internal/testutil"
	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
)

// z3Checker builds a checker backed by a real z3 process, skipping the
// test when z3 is not installed.
func z3Checker(t *testing.T) *Checker {
	t.Helper()
	path := testutil.SkipIfNoZ3(t)
	c := NewChecker(smt.NewSolver(path, 10*time.Second))
	c.DumpDir = t.TempDir()
	return c
}

func TestSingleSwitchLoopReachable(t *testing.T) {
	// One switch, identity policy, a hop looping s1 back to itself:
	// a packet entering at s1 is still at s1 after one hop.
	c := z3Checker(t)
	topo := testutil.SingleSwitchLoop(t)
	prog := topo.Program(nkat.Filter{Pred: nkat.True{}})

	pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "loop-reachable",
		nkat.Test{Field: nkat.Switch, Value: 1}, prog,
		nkat.Test{Field: nkat.Switch, Value: 1}, nil, OracleSat)
	if err != nil {
		t.Fatalf("CheckReachabilityK: %v", err)
	}
	if !pass {
		t.Error("expected sat verdict to match oracle")
	}
}

func TestDisconnectedSwitchesUnreachable(t *testing.T) {
	// Two switches with no link between them: s2 is unreachable from s1.
	c := z3Checker(t)
	topo := testutil.DisconnectedPair(t)
	prog := topo.Program(nkat.Filter{Pred: nkat.True{}})

	pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "disconnected",
		nkat.Test{Field: nkat.Switch, Value: 1}, prog,
		nkat.Test{Field: nkat.Switch, Value: 2}, nil, OracleUnsat)
	if err != nil {
		t.Fatalf("CheckReachabilityK: %v", err)
	}
	if !pass {
		t.Error("expected unsat verdict to match oracle")
	}
}

func TestCheckReachabilityDerivesBound(t *testing.T) {
	c := z3Checker(t)
	c.Topo = testutil.SingleSwitchLoop(t)
	prog := c.Topo.Program(nkat.Filter{Pred: nkat.True{}})

	// Diameter of the self-loop topology is 0: the check degenerates to
	// the entry/exit intersection and is still satisfiable.
	pass, err := c.CheckReachability(testutil.Context(t), "derived-bound",
		nkat.Test{Field: nkat.Switch, Value: 1}, prog,
		nkat.Test{Field: nkat.Switch, Value: 1}, OracleSat)
	if err != nil {
		t.Fatalf("CheckReachability: %v", err)
	}
	if !pass {
		t.Error("expected pass with topology-derived bound")
	}
}

func TestModificationRoundTrip(t *testing.T) {
	// Modify(vlan, 42): after one hop the packet agrees with the entry
	// packet everywhere but vlan, and vlan equals 42.
	c := z3Checker(t)
	topo := testutil.SingleSwitchLoop(t)
	prog := topo.Program(nkat.Modify{Field: nkat.Vlan, Value: 42})

	entry := nkat.Conj(
		nkat.Test{Field: nkat.Switch, Value: 1},
		nkat.Test{Field: nkat.Vlan, Value: 7},
	)

	t.Run("rewritten value reachable", func(t *testing.T) {
		// port=1 forces the depth-1 packet (the hop sets port to 1 only
		// after the loop's egress port 2).
		exit := nkat.Conj(
			nkat.Test{Field: nkat.Vlan, Value: 42},
			nkat.Test{Field: nkat.Port, Value: 1},
		)
		pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "vlan-rewritten",
			entry, prog, exit, nil, OracleSat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("modified packet should be reachable")
		}
	})

	t.Run("other values unreachable", func(t *testing.T) {
		// vlan is 7 at depth 0 and 42 at depth 1; 43 never occurs.
		exit := nkat.Test{Field: nkat.Vlan, Value: 43}
		pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "vlan-other",
			entry, prog, exit, nil, OracleUnsat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("unrelated vlan value should be unreachable")
		}
	})
}

func TestParallelUnification(t *testing.T) {
	c := z3Checker(t)
	topo := testutil.SingleSwitchLoop(t)
	par := nkat.Par{
		L: nkat.Modify{Field: nkat.Vlan, Value: 1},
		R: nkat.Modify{Field: nkat.Vlan, Value: 2},
	}
	prog := topo.Program(par)
	entry := nkat.Conj(
		nkat.Test{Field: nkat.Switch, Value: 1},
		nkat.Test{Field: nkat.Vlan, Value: 7},
	)

	t.Run("branch value satisfiable", func(t *testing.T) {
		pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "par-branch",
			entry, prog, nkat.Test{Field: nkat.Vlan, Value: 1}, nil, OracleSat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("a branch's own vlan value should be satisfiable")
		}
	})

	t.Run("third value unsatisfiable", func(t *testing.T) {
		// The unified output's vlan is constrained by one of the two
		// branches; a value outside both is impossible.
		pass, err := c.CheckReachabilityK(testutil.Context(t), 1, "par-third",
			entry, prog, nkat.Test{Field: nkat.Vlan, Value: 3}, nil, OracleUnsat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("a vlan value outside both branches should be unsatisfiable")
		}
	})
}

func TestDropAbsorption(t *testing.T) {
	// With no links the hop drops everything, so depths beyond 0 are only
	// satisfiable through the blacklist disjunct. The query still succeeds
	// at depth 0, proving deeper depths are vacuous rather than
	// contradictory.
	c := z3Checker(t)
	topo := testutil.DisconnectedPair(t)
	prog := topo.Program(nkat.Filter{Pred: nkat.True{}})

	pass, err := c.CheckReachabilityK(testutil.Context(t), 3, "drop-absorption",
		nkat.Test{Field: nkat.Switch, Value: 1}, prog,
		nkat.Test{Field: nkat.Switch, Value: 1}, nil, OracleSat)
	if err != nil {
		t.Fatalf("CheckReachabilityK: %v", err)
	}
	if !pass {
		t.Error("dropped packets must satisfy deeper depths vacuously")
	}
}

func TestZeroHopReduction(t *testing.T) {
	c := z3Checker(t)
	topo := testutil.SingleSwitchLoop(t)
	prog := topo.Program(nkat.Filter{Pred: nkat.True{}})

	t.Run("overlapping predicates sat", func(t *testing.T) {
		pass, err := c.CheckReachabilityK(testutil.Context(t), 0, "zero-overlap",
			nkat.Test{Field: nkat.Switch, Value: 1}, prog,
			nkat.Test{Field: nkat.Vlan, Value: 100}, nil, OracleSat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("independent field tests intersect; k=0 should be sat")
		}
	})

	t.Run("contradictory predicates unsat", func(t *testing.T) {
		pass, err := c.CheckReachabilityK(testutil.Context(t), 0, "zero-contradict",
			nkat.Test{Field: nkat.Switch, Value: 1}, prog,
			nkat.Test{Field: nkat.Switch, Value: 2}, nil, OracleUnsat)
		if err != nil {
			t.Fatalf("CheckReachabilityK: %v", err)
		}
		if !pass {
			t.Error("same-field contradiction at k=0 should be unsat")
		}
	})
}
