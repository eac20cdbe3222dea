package smt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/verinet-network/verinet/pkg/util"
)

// Verdict is the solver's answer to a satisfiability query.
type Verdict string

const (
	Sat     Verdict = "sat"
	Unsat   Verdict = "unsat"
	Unknown Verdict = "unknown"
)

// DefaultTimeout bounds one solver invocation unless overridden.
const DefaultTimeout = 30 * time.Second

// Solver runs an external SMT-LIB 2 solver as a subprocess, feeding the
// program on stdin and parsing the verdict from stdout.
type Solver struct {
	Path    string
	Timeout time.Duration
}

// NewSolver creates a solver for the given binary path. An empty path
// means "z3 from PATH".
func NewSolver(path string, timeout time.Duration) *Solver {
	if path == "" {
		path = "z3"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Solver{Path: path, Timeout: timeout}
}

// Available reports whether the solver binary can be found.
func (s *Solver) Available() error {
	if _, err := exec.LookPath(s.Path); err != nil {
		return util.NewSolverError(s.Path, "", util.ErrSolverUnavailable)
	}
	return nil
}

// CheckSat submits one program and returns the verdict. The context
// bounds the subprocess; on deadline the solver is killed and an error
// is returned (callers treat this as infrastructure failure, per the
// no-retry contract).
func (s *Solver) CheckSat(ctx context.Context, program string) (Verdict, error) {
	path, err := exec.LookPath(s.Path)
	if err != nil {
		return Unknown, util.NewSolverError(s.Path, "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	secs := int(s.Timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	cmd := exec.CommandContext(ctx, path, "-in", fmt.Sprintf("-T:%d", secs))
	cmd.Stdin = strings.NewReader(program)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return Unknown, util.NewSolverError(s.Path, "", ctx.Err())
	}
	if runErr != nil {
		return Unknown, util.NewSolverError(s.Path, strings.TrimSpace(stderr.String()), runErr)
	}

	verdict, err := ParseVerdict(stdout.String())
	if err != nil {
		return Unknown, util.NewSolverError(s.Path, strings.TrimSpace(stdout.String()), err)
	}

	util.WithSolver(s.Path).Debugf("check-sat: %s (%s)", verdict, time.Since(start).Round(time.Millisecond))
	return verdict, nil
}

// ParseVerdict interprets solver stdout. The verdict is the first
// non-empty line; anything else is a protocol error.
func ParseVerdict(output string) (Verdict, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "sat":
			return Sat, nil
		case "unsat":
			return Unsat, nil
		case "unknown", "timeout":
			return Unknown, nil
		default:
			return Unknown, fmt.Errorf("unexpected solver output: %q", line)
		}
	}
	return Unknown, fmt.Errorf("empty solver output")
}
