package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/verify"
)

// ParseScenario reads a YAML scenario file and returns a validated Scenario.
func ParseScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// ParseAllScenarios reads all .yaml files in dir and returns parsed scenarios.
func ParseAllScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios dir %s: %w", dir, err)
	}

	var scenarios []*Scenario
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		s, err := ParseScenario(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks structural errors the compiler would otherwise
// surface mid-run: every problem is reported against the scenario file,
// not against a half-built solver query.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Topology.Switches) == 0 {
		return fmt.Errorf("topology needs at least one switch")
	}
	names := make(map[string]bool)
	ids := make(map[int64]string)
	for _, n := range append(append([]NodeSpec{}, s.Topology.Switches...), s.Topology.Hosts...) {
		if n.Name == "" {
			return fmt.Errorf("topology node without a name")
		}
		if names[n.Name] {
			return fmt.Errorf("duplicate topology node %q", n.Name)
		}
		names[n.Name] = true
		if prev, taken := ids[n.ID]; taken {
			return fmt.Errorf("nodes %q and %q share id %d", prev, n.Name, n.ID)
		}
		ids[n.ID] = n.Name
	}
	for i, l := range s.Topology.Links {
		if !names[l.From] {
			return fmt.Errorf("link %d: unknown endpoint %q", i, l.From)
		}
		if !names[l.To] {
			return fmt.Errorf("link %d: unknown endpoint %q", i, l.To)
		}
	}

	if s.Policy == nil {
		return fmt.Errorf("policy is required")
	}
	if err := validatePolicyNode(s.Policy); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	if len(s.Checks) == 0 {
		return fmt.Errorf("at least one check is required")
	}
	for i := range s.Checks {
		c := &s.Checks[i]
		prefix := fmt.Sprintf("check %d (%s)", i, c.Name)
		if c.Name == "" {
			return fmt.Errorf("check %d: name is required", i)
		}
		if c.Entry == nil {
			return fmt.Errorf("%s: entry is required", prefix)
		}
		if c.Exit == nil {
			return fmt.Errorf("%s: exit is required", prefix)
		}
		if err := validatePredNode(c.Entry); err != nil {
			return fmt.Errorf("%s: entry: %w", prefix, err)
		}
		if err := validatePredNode(c.Exit); err != nil {
			return fmt.Errorf("%s: exit: %w", prefix, err)
		}
		if c.Hops != nil && *c.Hops < 0 {
			return fmt.Errorf("%s: hops must be non-negative", prefix)
		}
		if _, err := verify.ParseOracle(c.Expect); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
	}

	return nil
}

func validatePredNode(n *PredNode) error {
	branch, err := n.branch()
	if err != nil {
		return err
	}
	switch branch {
	case "field":
		if n.Field == "" || n.Value == nil {
			return fmt.Errorf("field test needs both field and value")
		}
		if _, err := nkat.ParseField(n.Field); err != nil {
			return err
		}
	case "not":
		return validatePredNode(n.Not)
	case "all":
		for i := range n.All {
			if err := validatePredNode(&n.All[i]); err != nil {
				return fmt.Errorf("all[%d]: %w", i, err)
			}
		}
	case "any":
		for i := range n.Any {
			if err := validatePredNode(&n.Any[i]); err != nil {
				return fmt.Errorf("any[%d]: %w", i, err)
			}
		}
	}
	return nil
}

func validatePolicyNode(n *PolicyNode) error {
	branch, err := n.branch()
	if err != nil {
		return err
	}
	switch branch {
	case "filter":
		return validatePredNode(n.Filter)
	case "set":
		if n.Set.Field == "" {
			return fmt.Errorf("set needs a field")
		}
		if _, err := nkat.ParseField(n.Set.Field); err != nil {
			return err
		}
	case "seq":
		for i := range n.Seq {
			if err := validatePolicyNode(&n.Seq[i]); err != nil {
				return fmt.Errorf("seq[%d]: %w", i, err)
			}
		}
	case "par":
		for i := range n.Par {
			if err := validatePolicyNode(&n.Par[i]); err != nil {
				return fmt.Errorf("par[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// resolveScenarioPath resolves a scenario name to a YAML file path.
// Tries in order:
//  1. Exact match: <dir>/<name>.yaml
//  2. Numbered prefix: <dir>/*-<name>.yaml
//  3. Scan files for matching name: field
func resolveScenarioPath(dir, name string) (string, error) {
	exact := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*-"+name+".yaml"))
	if len(matches) == 1 {
		return matches[0], nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scenario %q not found: %w", name, err)
	}
	var found string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s, err := ParseScenario(path)
		if err != nil {
			continue
		}
		if s.Name == name {
			if found != "" {
				return "", fmt.Errorf("ambiguous scenario name %q: found in %s and %s", name, filepath.Base(found), e.Name())
			}
			found = path
		}
	}
	if found != "" {
		return found, nil
	}

	return "", fmt.Errorf("scenario %q not found in %s", name, dir)
}
