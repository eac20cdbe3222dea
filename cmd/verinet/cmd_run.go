package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/verinet-network/verinet/pkg/cache"
	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/suite"
	"github.com/verinet-network/verinet/pkg/util"
	"github.com/verinet-network/verinet/pkg/verify"
)

func newRunCmd() *cobra.Command {
	var opts suite.RunOptions
	var solverPath string
	var solverTimeout time.Duration
	var dumpDir string
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run verification scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := buildChecker(solverPath, solverTimeout, dumpDir, redisAddr)
			if err != nil {
				return err
			}

			runner := suite.NewRunner(suitesDir, checker)
			runner.Progress = suite.NewConsoleProgress(opts.Verbose || verbose)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			results, err := runner.Run(ctx, opts)
			if err != nil {
				return err
			}

			if opts.ReportPath != "" || opts.JUnitPath != "" {
				gen := &suite.ReportGenerator{Results: results}
				if opts.ReportPath != "" {
					if err := gen.WriteMarkdown(opts.ReportPath); err != nil {
						util.Warnf("could not write report: %v", err)
					}
				}
				if opts.JUnitPath != "" {
					if err := gen.WriteJUnit(opts.JUnitPath); err != nil {
						util.Warnf("could not write JUnit report: %v", err)
					}
				}
			}

			// Exit 2 = infra/setup error, Exit 1 = failed check
			hasFailure, hasError := false, false
			for _, r := range results {
				switch r.Status {
				case suite.StatusError:
					hasError = true
				case suite.StatusFailed:
					hasFailure = true
				}
			}
			if hasError {
				os.Exit(2)
			}
			if hasFailure {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "run specific scenario")
	cmd.Flags().BoolVar(&opts.All, "all", false, "run all scenarios in dir")
	cmd.Flags().StringVar(&solverPath, "solver", "", "solver binary (default from settings, else z3)")
	cmd.Flags().DurationVar(&solverTimeout, "timeout", 0, "per-query solver timeout")
	cmd.Flags().StringVar(&dumpDir, "dump-dir", "", "directory for mismatching query dumps")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the shared verdict cache")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "markdown report output path")
	cmd.Flags().StringVar(&opts.JUnitPath, "junit", "", "JUnit XML output path")
	cmd.Flags().BoolVar(&opts.Verbose, "per-check", false, "print every check result")

	return cmd
}

// buildChecker assembles the solver, dump location, and optional verdict
// cache from flags, falling back to persisted settings.
func buildChecker(solverPath string, timeout time.Duration, dumpDir, redisAddr string) (*verify.Checker, error) {
	if solverPath == "" {
		solverPath = userSettings.GetSolverPath()
	}
	if timeout == 0 {
		timeout = userSettings.GetSolverTimeout()
	}
	if dumpDir == "" {
		dumpDir = userSettings.GetDumpDir()
	}
	if redisAddr == "" {
		redisAddr = userSettings.RedisAddr
	}

	solver := smt.NewSolver(solverPath, timeout)
	if err := solver.Available(); err != nil {
		return nil, fmt.Errorf("solver %q: %w", solverPath, err)
	}

	checker := verify.NewChecker(solver)
	checker.DumpDir = dumpDir

	if redisAddr != "" {
		c := cache.New(redisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Connect(ctx); err != nil {
			util.Warnf("verdict cache unreachable at %s, continuing without: %v", redisAddr, err)
		} else {
			checker.Cache = c
		}
	}

	return checker, nil
}
