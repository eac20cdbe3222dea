package suite

import (
	"fmt"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/topology"
)

// BuildTopology materializes the scenario's topology spec as a graph the
// verifier can take hop policies and diameters from.
func BuildTopology(spec *TopologySpec) (*topology.Topology, error) {
	topo := topology.New()
	for _, n := range spec.Switches {
		if _, err := topo.AddSwitch(n.Name, nkat.Value(n.ID)); err != nil {
			return nil, err
		}
	}
	for _, n := range spec.Hosts {
		if _, err := topo.AddHost(n.Name, nkat.Value(n.ID)); err != nil {
			return nil, err
		}
	}
	for _, l := range spec.Links {
		var err error
		if l.Bidir {
			err = topo.AddBiLink(l.From, nkat.Value(l.FromPort), l.To, nkat.Value(l.ToPort))
		} else {
			err = topo.AddLink(l.From, nkat.Value(l.FromPort), l.To, nkat.Value(l.ToPort))
		}
		if err != nil {
			return nil, err
		}
	}
	return topo, nil
}

// CompilePredicate lowers a validated PredNode to the predicate AST.
func CompilePredicate(n *PredNode) (nkat.Predicate, error) {
	branch, err := n.branch()
	if err != nil {
		return nil, err
	}
	switch branch {
	case "field":
		f, err := nkat.ParseField(n.Field)
		if err != nil {
			return nil, err
		}
		return nkat.Test{Field: f, Value: nkat.Value(*n.Value)}, nil
	case "const":
		if *n.Const {
			return nkat.True{}, nil
		}
		return nkat.False{}, nil
	case "not":
		inner, err := CompilePredicate(n.Not)
		if err != nil {
			return nil, err
		}
		return nkat.Not{P: inner}, nil
	case "all":
		preds, err := compilePredList(n.All)
		if err != nil {
			return nil, err
		}
		return nkat.Conj(preds...), nil
	case "any":
		preds, err := compilePredList(n.Any)
		if err != nil {
			return nil, err
		}
		return nkat.Disj(preds...), nil
	}
	return nil, fmt.Errorf("unhandled predicate branch %q", branch)
}

func compilePredList(nodes []PredNode) ([]nkat.Predicate, error) {
	preds := make([]nkat.Predicate, len(nodes))
	for i := range nodes {
		p, err := CompilePredicate(&nodes[i])
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	return preds, nil
}

// CompilePolicy lowers a validated PolicyNode to the policy AST.
func CompilePolicy(n *PolicyNode) (nkat.Policy, error) {
	branch, err := n.branch()
	if err != nil {
		return nil, err
	}
	switch branch {
	case "filter":
		pred, err := CompilePredicate(n.Filter)
		if err != nil {
			return nil, err
		}
		return nkat.Filter{Pred: pred}, nil
	case "set":
		f, err := nkat.ParseField(n.Set.Field)
		if err != nil {
			return nil, err
		}
		return nkat.Modify{Field: f, Value: nkat.Value(n.Set.Value)}, nil
	case "seq":
		pols, err := compilePolicyList(n.Seq)
		if err != nil {
			return nil, err
		}
		return nkat.Sequence(pols...), nil
	case "par":
		pols, err := compilePolicyList(n.Par)
		if err != nil {
			return nil, err
		}
		return nkat.Union(pols...), nil
	}
	return nil, fmt.Errorf("unhandled policy branch %q", branch)
}

func compilePolicyList(nodes []PolicyNode) ([]nkat.Policy, error) {
	pols := make([]nkat.Policy, len(nodes))
	for i := range nodes {
		p, err := CompilePolicy(&nodes[i])
		if err != nil {
			return nil, err
		}
		pols[i] = p
	}
	return pols, nil
}
