package verify

import (
	"fmt"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/util"
)

// Unroll expands the iterated program Star(Seq(policy, topologyHop)) into
// per-depth relations up to the hop bound k, returning the conjunction of
// all depths and the frontier of reached packets (one per depth 0..k).
//
// Each depth's relation is computed independently: the loop body is
// chained d times from the input packet, and only the final reached
// variable is kept as the depth-d result. Every depth is wrapped as
//
//	relation_d OR (reached_d = nopacket)
//
// so a packet dropped at a shallower depth vacuously satisfies all
// deeper constraints.
//
// Any program not shaped as Star(Seq(policy, topologyHop)) is a fatal
// shape error.
func (r *Run) Unroll(prog nkat.Policy, in Packet, k int) (smt.Formula, Frontier, error) {
	if k < 0 {
		return nil, nil, fmt.Errorf("hop bound must be non-negative, got %d", k)
	}

	star, ok := prog.(nkat.Star)
	if !ok {
		return nil, nil, util.NewShapeError("unroller", prog.String())
	}
	body, ok := star.Body.(nkat.Seq)
	if !ok {
		return nil, nil, util.NewShapeError("unroller",
			fmt.Sprintf("iteration body must be Seq(policy, topology-hop), got %s", star.Body))
	}

	frontier := Frontier{in}
	depths := smt.And{}

	for d := 1; d <= k; d++ {
		cur := in
		hops := smt.And{}
		for i := 0; i < d; i++ {
			f, out, err := r.CompilePolicy(body, cur)
			if err != nil {
				return nil, nil, err
			}
			hops = append(hops, f)
			cur = out
		}
		reached := cur

		// Blacklist disjunct: a packet already dropped at an earlier
		// depth satisfies this one vacuously.
		wrapped := smt.Or{hops, smt.Eq{A: reached.term(), B: Drop.term()}}
		depths = append(depths, smt.Comment{
			Text: fmt.Sprintf("reachable in exactly %d hop(s): %s", d, reached.Name()),
			F:    wrapped,
		})
		frontier = append(frontier, reached)
	}

	return depths, frontier, nil
}
