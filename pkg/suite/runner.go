package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/util"
	"github.com/verinet-network/verinet/pkg/verify"
)

// Runner executes scenario files against a checker.
type Runner struct {
	ScenariosDir string
	Checker      *verify.Checker
	Progress     ProgressReporter
}

// RunOptions controls Runner behavior from CLI flags.
type RunOptions struct {
	Scenario   string
	All        bool
	Verbose    bool
	ReportPath string
	JUnitPath  string
}

// NewRunner creates a runner over the given scenarios directory.
func NewRunner(scenariosDir string, checker *verify.Checker) *Runner {
	return &Runner{
		ScenariosDir: scenariosDir,
		Checker:      checker,
	}
}

// Run executes one or all scenarios and returns per-scenario results.
// Scenario setup failures and oracle mismatches are reported in the
// results; only infrastructure problems (unreadable directory, broken
// YAML) surface as errors.
func (r *Runner) Run(ctx context.Context, opts RunOptions) ([]*ScenarioResult, error) {
	if opts.Scenario == "" && !opts.All {
		return nil, fmt.Errorf("specify --scenario <name> or --all")
	}

	var scenarios []*Scenario

	if opts.All {
		var err error
		scenarios, err = ParseAllScenarios(r.ScenariosDir)
		if err != nil {
			return nil, err
		}
		if len(scenarios) == 0 {
			return nil, fmt.Errorf("no scenarios found in %s", r.ScenariosDir)
		}
	} else {
		path, err := resolveScenarioPath(r.ScenariosDir, opts.Scenario)
		if err != nil {
			return nil, err
		}
		s, err := ParseScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = []*Scenario{s}
	}

	r.progress(func(p ProgressReporter) { p.SuiteStart(scenarios) })
	suiteStart := time.Now()

	var results []*ScenarioResult
	for i, sc := range scenarios {
		r.progress(func(p ProgressReporter) { p.ScenarioStart(sc.Name, i, len(scenarios)) })

		result := r.RunScenario(ctx, sc)
		results = append(results, result)

		r.progress(func(p ProgressReporter) { p.ScenarioEnd(result, i, len(scenarios)) })

		if ctx.Err() != nil {
			break
		}
	}

	if len(scenarios) > 1 {
		r.progress(func(p ProgressReporter) { p.SuiteEnd(results, time.Since(suiteStart)) })
	}
	return results, nil
}

// RunScenario compiles the scenario's topology and policy and runs every
// check. Checks run sequentially; each compiles its own solver query.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) *ScenarioResult {
	log := util.WithScenario(sc.Name)
	result := &ScenarioResult{Name: sc.Name}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	topo, err := BuildTopology(&sc.Topology)
	if err != nil {
		result.SetupError = fmt.Errorf("building topology: %w", err)
		result.Status = StatusError
		return result
	}
	policy, err := CompilePolicy(sc.Policy)
	if err != nil {
		result.SetupError = fmt.Errorf("compiling policy: %w", err)
		result.Status = StatusError
		return result
	}
	prog := topo.Program(policy)
	r.Checker.Topo = topo

	log.Debugf("running %d checks", len(sc.Checks))

	for i := range sc.Checks {
		c := &sc.Checks[i]
		cr := CheckResult{Name: c.Name}
		checkStart := time.Now()

		k := topo.Diameter()
		if c.Hops != nil {
			k = *c.Hops
		}
		cr.Hops = k

		entry, exitPred, oracle, err := compileCheck(c)
		if err != nil {
			cr.Status = StatusError
			cr.Message = err.Error()
		} else {
			pass, cerr := r.Checker.CheckReachabilityK(ctx, k, c.Name, entry, prog, exitPred, nil, oracle)
			switch {
			case cerr != nil:
				cr.Status = StatusError
				cr.Message = cerr.Error()
			case oracle == verify.OracleNone:
				// No expectation: report the verdict, never fail.
				cr.Status = StatusPassed
				if pass {
					cr.Message = "verdict sat"
				} else {
					cr.Message = "verdict unsat"
				}
			case pass:
				cr.Status = StatusPassed
			default:
				cr.Status = StatusFailed
				cr.Message = fmt.Sprintf("verdict does not match expected %s", oracle)
			}
		}

		cr.Duration = time.Since(checkStart)
		result.Checks = append(result.Checks, cr)

		crCopy := cr
		r.progress(func(p ProgressReporter) { p.CheckEnd(sc.Name, &crCopy, i, len(sc.Checks)) })

		if ctx.Err() != nil {
			break
		}
	}

	result.Status = computeOverallStatus(result.Checks)
	return result
}

// compileCheck lowers a check's predicates and oracle. Validation has
// already run, so failures here indicate a parser/compiler disagreement.
func compileCheck(c *Check) (entry, exit nkat.Predicate, oracle verify.Oracle, err error) {
	if entry, err = CompilePredicate(c.Entry); err != nil {
		return nil, nil, verify.OracleNone, err
	}
	if exit, err = CompilePredicate(c.Exit); err != nil {
		return nil, nil, verify.OracleNone, err
	}
	oracle, err = verify.ParseOracle(c.Expect)
	return entry, exit, oracle, err
}

// progress calls fn with the ProgressReporter if one is set.
func (r *Runner) progress(fn func(ProgressReporter)) {
	if r.Progress != nil {
		fn(r.Progress)
	}
}
