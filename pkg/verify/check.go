package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/topology"
	"github.com/verinet-network/verinet/pkg/util"
)

// Oracle is the externally supplied expected verdict for a check.
// OracleNone means "report the verdict itself".
type Oracle string

const (
	OracleNone  Oracle = ""
	OracleSat   Oracle = "sat"
	OracleUnsat Oracle = "unsat"
)

// ParseOracle maps scenario-file oracle strings to an Oracle.
func ParseOracle(s string) (Oracle, error) {
	switch s {
	case "", "none":
		return OracleNone, nil
	case "sat":
		return OracleSat, nil
	case "unsat":
		return OracleUnsat, nil
	default:
		return OracleNone, fmt.Errorf("unknown oracle '%s' (want sat, unsat or none)", s)
	}
}

func (o Oracle) matches(v smt.Verdict) bool {
	return (o == OracleSat && v == smt.Sat) || (o == OracleUnsat && v == smt.Unsat)
}

// SideCondition contributes an extra per-frontier-variable constraint to
// the existential exit disjunct.
type SideCondition func(r *Run, pkt Packet) smt.Formula

// SatChecker is the decision procedure consumed by the checker. smt.Solver
// implements it with a real solver subprocess.
type SatChecker interface {
	CheckSat(ctx context.Context, program string) (smt.Verdict, error)
}

// VerdictCache memoizes verdicts by program text. Implementations must
// treat lookup misses and storage failures as non-fatal.
type VerdictCache interface {
	Lookup(ctx context.Context, program string) (smt.Verdict, bool)
	Store(ctx context.Context, program string, v smt.Verdict)
}

// Checker runs reachability checks: it assembles the query, submits it to
// the solver, and compares the verdict against the expected oracle. A
// fresh Run is created per check and dropped afterwards, so checks never
// share macro declarations or packet names.
type Checker struct {
	Solver  SatChecker
	Topo    *topology.Topology // required for CheckReachability; unused otherwise
	DumpDir string             // where mismatch queries are written; "" = cwd
	Cache   VerdictCache       // optional verdict memoization

	dumpSeq atomic.Int64
}

// NewChecker creates a checker backed by the given decision procedure.
func NewChecker(solver SatChecker) *Checker {
	return &Checker{Solver: solver}
}

// CheckReachability answers: starting from a packet matching entry, does
// repeated application of the program's loop body reach, within the
// topology's diameter many hops, a packet matching exit? The hop bound is
// derived from the configured topology.
func (c *Checker) CheckReachability(ctx context.Context, name string, entry nkat.Predicate, prog nkat.Policy, exit nkat.Predicate, oracle Oracle) (bool, error) {
	if c.Topo == nil {
		return false, fmt.Errorf("check '%s': no topology configured to derive the hop bound from", name)
	}
	return c.CheckReachabilityK(ctx, c.Topo.Diameter(), name, entry, prog, exit, nil, oracle)
}

// CheckReachabilityK is CheckReachability with an explicit hop bound and
// optional extra side conditions applied to every frontier variable.
//
// With an oracle, the check passes iff the verdict equals it; on mismatch
// the full query is persisted for postmortem inspection and false is
// returned (mismatch is a reported failure, not an error). Without an
// oracle, the verdict itself is returned.
func (c *Checker) CheckReachabilityK(ctx context.Context, k int, name string, entry nkat.Predicate, prog nkat.Policy, exit nkat.Predicate, side []SideCondition, oracle Oracle) (bool, error) {
	log := util.WithCheck(name)

	r := NewRun()
	x := r.FreshPacket()

	entryF := r.CompilePredicate(entry, x)
	unrolledF, frontier, err := r.Unroll(prog, x, k)
	if err != nil {
		return false, err
	}

	// Existential exit: some frontier packet satisfies the exit predicate
	// and every side condition.
	exits := smt.Or{}
	for _, v := range frontier {
		conj := smt.And{r.CompilePredicate(exit, v)}
		for _, sc := range side {
			conj = append(conj, sc(r, v))
		}
		exits = append(exits, conj)
	}

	r.Assert(smt.Comment{Text: "entry: " + entry.String(), F: entryF})
	r.Assert(unrolledF)
	r.Assert(smt.Comment{Text: "exit: " + exit.String(), F: exits})

	program := r.Program()
	// r is not reused past this point: dropping the run context is the
	// between-checks reset of the macro cache and name counter.

	verdict, err := c.checkSat(ctx, program)
	if err != nil {
		return false, err
	}
	if verdict == smt.Unknown {
		return false, fmt.Errorf("check '%s': %w", name, util.ErrUnknownVerdict)
	}

	if oracle == OracleNone {
		log.Infof("verdict %s at k=%d (no oracle)", verdict, k)
		return verdict == smt.Sat, nil
	}

	if oracle.matches(verdict) {
		log.Debugf("verdict %s at k=%d matches oracle", verdict, k)
		return true, nil
	}

	dumpPath := c.dump(program)
	log.Errorf("verdict %s at k=%d, oracle expected %s (query saved to %s)", verdict, k, oracle, dumpPath)
	return false, nil
}

// checkSat consults the verdict cache, then the solver, writing through
// on a miss.
func (c *Checker) checkSat(ctx context.Context, program string) (smt.Verdict, error) {
	if c.Cache != nil {
		if v, ok := c.Cache.Lookup(ctx, program); ok {
			return v, nil
		}
	}
	v, err := c.Solver.CheckSat(ctx, program)
	if err != nil {
		return smt.Unknown, err
	}
	if c.Cache != nil && v != smt.Unknown {
		c.Cache.Store(ctx, program, v)
	}
	return v, nil
}

// dump persists a mismatching query to a counter-named file and returns
// its path. Best effort: dump failures are logged, never fatal.
func (c *Checker) dump(program string) string {
	seq := c.dumpSeq.Add(1)
	dir := c.DumpDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		util.Warnf("could not create dump directory %s: %v", dir, err)
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("query-%04d.smt2", seq))
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		util.Warnf("could not write query dump %s: %v", path, err)
		return ""
	}
	return path
}
