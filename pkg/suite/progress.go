package suite

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/verinet-network/verinet/pkg/cli"
)

// ProgressReporter receives lifecycle callbacks during suite execution.
type ProgressReporter interface {
	SuiteStart(scenarios []*Scenario)
	ScenarioStart(name string, index, total int)
	ScenarioEnd(result *ScenarioResult, index, total int)
	CheckEnd(scenario string, result *CheckResult, index, total int)
	SuiteEnd(results []*ScenarioResult, duration time.Duration)
}

// ConsoleProgress is an append-only terminal progress reporter.
// It never uses ANSI cursor rewriting, so output is safe for pipes, CI,
// and scrollback buffers.
type ConsoleProgress struct {
	W       io.Writer
	Verbose bool

	dotWidth int
}

// NewConsoleProgress creates a ConsoleProgress writing to stdout.
func NewConsoleProgress(verbose bool) *ConsoleProgress {
	return &ConsoleProgress{
		W:       os.Stdout,
		Verbose: verbose,
	}
}

func (p *ConsoleProgress) SuiteStart(scenarios []*Scenario) {
	if len(scenarios) == 0 {
		return
	}

	maxName := 0
	for _, s := range scenarios {
		if len(s.Name) > maxName {
			maxName = len(s.Name)
		}
	}
	p.dotWidth = maxName + 6

	fmt.Fprintf(p.W, "\nverinet: %d scenarios\n\n", len(scenarios))

	fmt.Fprintf(p.W, "  %-4s  %-*s  %s\n", "#", p.dotWidth-6, "SCENARIO", "CHECKS")
	for i, s := range scenarios {
		fmt.Fprintf(p.W, "  %-4d  %-*s  %d\n", i+1, p.dotWidth-6, s.Name, len(s.Checks))
	}
	fmt.Fprintln(p.W)
}

func (p *ConsoleProgress) ScenarioStart(name string, index, total int) {
	if p.Verbose {
		fmt.Fprintf(p.W, "  [%d/%d]  %s\n", index+1, total, name)
	}
}

func (p *ConsoleProgress) ScenarioEnd(result *ScenarioResult, index, total int) {
	tag := fmt.Sprintf("[%d/%d]", index+1, total)

	if p.Verbose {
		if result.SetupError != nil {
			fmt.Fprintf(p.W, "          %s\n", cli.Dim(result.SetupError.Error()))
		}
		fmt.Fprintf(p.W, "          %s  (%s)\n\n", p.colorStatus(result.Status), p.formatDuration(result.Duration))
		return
	}

	padded := cli.DotPad(result.Name, p.dotWidth)

	switch result.Status {
	case StatusPassed:
		fmt.Fprintf(p.W, "  %-7s %s %s  (%s)\n", tag, padded, cli.Green("PASS"), p.formatDuration(result.Duration))
	case StatusFailed:
		fmt.Fprintf(p.W, "  %-7s %s %s  (%s)\n", tag, padded, cli.Red("FAIL"), p.formatDuration(result.Duration))
	case StatusError:
		fmt.Fprintf(p.W, "  %-7s %s %s  (%s)\n", tag, padded, cli.Red("ERROR"), p.formatDuration(result.Duration))
	}
}

func (p *ConsoleProgress) CheckEnd(scenario string, result *CheckResult, index, total int) {
	if !p.Verbose {
		return
	}

	checkDot := cli.DotPad(result.Name, p.dotWidth-10)
	tag := fmt.Sprintf("[%d/%d]", index+1, total)
	fmt.Fprintf(p.W, "          %s %s %s  (%s)\n", tag, checkDot, p.colorStatus(result.Status), p.formatDuration(result.Duration))

	if result.Status != StatusPassed && result.Message != "" {
		fmt.Fprintf(p.W, "               %s\n", cli.Dim(result.Message))
	}
}

func (p *ConsoleProgress) SuiteEnd(results []*ScenarioResult, duration time.Duration) {
	passed, failed, errored := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusError:
			errored++
		}
	}

	fmt.Fprintf(p.W, "\n---\n")
	fmt.Fprintf(p.W, "verinet: %d scenarios", len(results))

	parts := []string{}
	if passed > 0 {
		parts = append(parts, cli.Green(fmt.Sprintf("%d passed", passed)))
	}
	if failed > 0 {
		parts = append(parts, cli.Red(fmt.Sprintf("%d failed", failed)))
	}
	if errored > 0 {
		parts = append(parts, cli.Red(fmt.Sprintf("%d errored", errored)))
	}
	if len(parts) > 0 {
		fmt.Fprintf(p.W, ": %s", strings.Join(parts, ", "))
	}
	fmt.Fprintf(p.W, "  (%s)\n", p.formatDuration(duration))

	if failed+errored > 0 {
		fmt.Fprintf(p.W, "\n  FAILED:\n")
		for i, r := range results {
			if r.Status == StatusPassed {
				continue
			}
			fmt.Fprintf(p.W, "    [%d]  %s\n", i+1, r.Name)
			if r.SetupError != nil {
				fmt.Fprintf(p.W, "         setup: %s\n", r.SetupError)
				continue
			}
			for _, c := range r.Checks {
				if c.Status != StatusPassed {
					msg := c.Message
					if msg == "" {
						msg = string(c.Status)
					}
					fmt.Fprintf(p.W, "         check %q (k=%d): %s\n", c.Name, c.Hops, msg)
				}
			}
		}
	}

	fmt.Fprintln(p.W)
}

func (p *ConsoleProgress) colorStatus(s Status) string {
	switch s {
	case StatusPassed:
		return cli.Green(string(s))
	case StatusFailed, StatusError:
		return cli.Red(string(s))
	default:
		return string(s)
	}
}

func (p *ConsoleProgress) formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
