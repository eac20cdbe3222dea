package suite

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the outcome of a check or scenario.
type Status string

const (
	StatusPassed Status = "PASS"
	StatusFailed Status = "FAIL"
	StatusError  Status = "ERROR"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name     string
	Status   Status
	Duration time.Duration
	Checks   []CheckResult

	// SetupError is set when the topology or policy could not be
	// compiled; no checks ran.
	SetupError error
}

// CheckResult holds the result of a single reachability check.
type CheckResult struct {
	Name     string
	Status   Status
	Duration time.Duration
	Hops     int    // the bound the query was unrolled to
	Message  string // failure or error detail
}

// computeOverallStatus folds check results into a scenario status.
func computeOverallStatus(checks []CheckResult) Status {
	hasError := false
	for _, c := range checks {
		if c.Status == StatusError {
			hasError = true
		}
		if c.Status == StatusFailed {
			return StatusFailed
		}
	}
	if hasError {
		return StatusError
	}
	return StatusPassed
}

// ReportGenerator produces reports from scenario results.
type ReportGenerator struct {
	Results []*ScenarioResult
}

// WriteMarkdown writes a markdown report to the given path.
func (g *ReportGenerator) WriteMarkdown(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# verinet Report: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintln(f, "| Scenario | Result | Checks | Duration | Note |")
	fmt.Fprintln(f, "|----------|--------|--------|----------|------|")
	for _, r := range g.Results {
		note := ""
		if r.SetupError != nil {
			note = r.SetupError.Error()
		}
		fmt.Fprintf(f, "| %s | %s | %d | %s | %s |\n",
			r.Name, r.Status, len(r.Checks), r.Duration.Round(time.Millisecond), note)
	}

	hasFailures := false
	for _, r := range g.Results {
		for _, c := range r.Checks {
			if c.Status == StatusPassed {
				continue
			}
			if !hasFailures {
				fmt.Fprintf(f, "\n## Failures\n\n")
				hasFailures = true
			}
			fmt.Fprintf(f, "### %s\n", r.Name)
			fmt.Fprintf(f, "Check %s (k=%d): %s\n\n", c.Name, c.Hops, c.Message)
		}
	}

	return nil
}

// WriteJUnit writes a JUnit XML report for CI integration. Each scenario
// becomes a test suite; each check a test case.
func (g *ReportGenerator) WriteJUnit(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	suites := junitTestSuites{}

	for _, r := range g.Results {
		suite := junitTestSuite{
			Name: r.Name,
			Time: r.Duration.Seconds(),
		}

		// Setup failures: one synthetic errored case so CI sees the suite.
		if r.SetupError != nil {
			suite.Tests = 1
			suite.Errors = 1
			suite.Cases = append(suite.Cases, junitTestCase{
				Name:      r.Name,
				ClassName: r.Name,
				Error:     &junitError{Message: r.SetupError.Error(), Type: "setup"},
			})
			suites.Suites = append(suites.Suites, suite)
			continue
		}

		for _, c := range r.Checks {
			suite.Tests++
			tc := junitTestCase{
				Name:      c.Name,
				ClassName: r.Name,
				Time:      c.Duration.Seconds(),
			}
			switch c.Status {
			case StatusFailed:
				suite.Failures++
				tc.Failure = &junitFailure{Message: c.Message, Type: "oracle-mismatch"}
			case StatusError:
				suite.Errors++
				tc.Error = &junitError{Message: c.Message, Type: "check"}
			}
			suite.Cases = append(suite.Cases, tc)
		}

		suites.Suites = append(suites.Suites, suite)
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}

// JUnit XML types

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Time     float64         `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Error     *junitError   `xml:"error,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

type junitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}
