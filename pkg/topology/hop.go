package topology

import "github.com/verinet-network/verinet/pkg/nkat"

// HopPolicy synthesizes the topology-hop policy fragment: the parallel
// composition, over every directed switch-to-switch link, of
//
//	Filter(switch=src ∧ port=srcPort) ; switch:=dst ; port:=dstPort
//
// A topology with no switch-to-switch links yields Filter(False); no
// hop is ever possible.
func (t *Topology) HopPolicy() nkat.Policy {
	var hops []nkat.Policy
	for _, l := range t.links {
		src, dst := t.nodes[l.From], t.nodes[l.To]
		if src.Kind != KindSwitch || dst.Kind != KindSwitch {
			continue
		}
		at := nkat.Conj(
			nkat.Test{Field: nkat.Switch, Value: src.ID},
			nkat.Test{Field: nkat.Port, Value: l.FromPort},
		)
		hops = append(hops, nkat.Sequence(
			nkat.Filter{Pred: at},
			nkat.Modify{Field: nkat.Switch, Value: dst.ID},
			nkat.Modify{Field: nkat.Port, Value: l.ToPort},
		))
	}
	return nkat.Union(hops...)
}

// Program wraps a per-hop policy into the iterated policy-then-topology
// shape the bounded verifier accepts.
func (t *Topology) Program(policy nkat.Policy) nkat.Policy {
	return nkat.Star{Body: nkat.Seq{L: policy, R: t.HopPolicy()}}
}
