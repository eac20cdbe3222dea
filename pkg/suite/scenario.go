// Package suite implements the YAML scenario runner. A scenario file
// declares a topology, a forwarding policy, and a list of reachability
// checks with expected verdicts; the runner compiles each check to a
// solver query and reports pass/fail per check.
package suite

import (
	"fmt"
)

// Scenario is a parsed scenario from a YAML file.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Topology    TopologySpec `yaml:"topology"`
	Policy      *PolicyNode  `yaml:"policy"`
	Checks      []Check      `yaml:"checks"`
}

// TopologySpec declares the network graph of a scenario.
type TopologySpec struct {
	Switches []NodeSpec `yaml:"switches"`
	Hosts    []NodeSpec `yaml:"hosts,omitempty"`
	Links    []LinkSpec `yaml:"links,omitempty"`
}

// NodeSpec is one switch or host. ID is the value the packet's switch
// field carries at this node.
type NodeSpec struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}

// LinkSpec is one port-to-port connection. Bidir adds the reverse
// direction as well.
type LinkSpec struct {
	From     string `yaml:"from"`
	FromPort int64  `yaml:"from_port"`
	To       string `yaml:"to"`
	ToPort   int64  `yaml:"to_port"`
	Bidir    bool   `yaml:"bidir,omitempty"`
}

// Check is a single reachability question with an expected verdict.
type Check struct {
	Name  string    `yaml:"name"`
	Entry *PredNode `yaml:"entry"`
	Exit  *PredNode `yaml:"exit"`

	// Hops bounds the unrolling depth. Nil derives the bound from the
	// topology diameter.
	Hops *int `yaml:"hops,omitempty"`

	// Expect is the oracle: "sat", "unsat", or "" / "none" to report the
	// raw verdict.
	Expect string `yaml:"expect,omitempty"`
}

// PredNode is the YAML form of a predicate. Exactly one branch field may
// be set:
//
//	{field: vlan, value: 10}   field test
//	{const: true}              constant
//	{not: <pred>}              negation
//	{all: [<pred>, ...]}       conjunction
//	{any: [<pred>, ...]}       disjunction
type PredNode struct {
	Field string     `yaml:"field,omitempty"`
	Value *int64     `yaml:"value,omitempty"`
	Const *bool      `yaml:"const,omitempty"`
	Not   *PredNode  `yaml:"not,omitempty"`
	All   []PredNode `yaml:"all,omitempty"`
	Any   []PredNode `yaml:"any,omitempty"`
}

// branch names the single set branch, or errors when zero or several are
// set. The parser relies on this for shape validation before compiling.
func (n *PredNode) branch() (string, error) {
	var set []string
	if n.Field != "" || n.Value != nil {
		set = append(set, "field")
	}
	if n.Const != nil {
		set = append(set, "const")
	}
	if n.Not != nil {
		set = append(set, "not")
	}
	if n.All != nil {
		set = append(set, "all")
	}
	if n.Any != nil {
		set = append(set, "any")
	}
	switch len(set) {
	case 0:
		return "", fmt.Errorf("empty predicate node")
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("predicate node sets %v, want exactly one branch", set)
	}
}

// PolicyNode is the YAML form of a policy. Exactly one branch field may
// be set:
//
//	{filter: <pred>}                  admit matching packets
//	{set: {field: vlan, value: 10}}   rewrite one field
//	{seq: [<policy>, ...]}            sequential composition
//	{par: [<policy>, ...]}            parallel composition
type PolicyNode struct {
	Filter *PredNode    `yaml:"filter,omitempty"`
	Set    *SetSpec     `yaml:"set,omitempty"`
	Seq    []PolicyNode `yaml:"seq,omitempty"`
	Par    []PolicyNode `yaml:"par,omitempty"`
}

// SetSpec is the argument of a set node.
type SetSpec struct {
	Field string `yaml:"field"`
	Value int64  `yaml:"value"`
}

func (n *PolicyNode) branch() (string, error) {
	var set []string
	if n.Filter != nil {
		set = append(set, "filter")
	}
	if n.Set != nil {
		set = append(set, "set")
	}
	if n.Seq != nil {
		set = append(set, "seq")
	}
	if n.Par != nil {
		set = append(set, "par")
	}
	switch len(set) {
	case 0:
		return "", fmt.Errorf("empty policy node")
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("policy node sets %v, want exactly one branch", set)
	}
}
