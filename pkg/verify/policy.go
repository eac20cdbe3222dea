package verify

import (
	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/util"
)

// CompilePolicy translates a policy into a relation between the input
// packet and an output packet, returning the constraining formula and the
// output variable.
//
// Only Filter, Modify, Par and Seq are accepted here. Star, Link and
// Choice are shape errors: fatal, never retried.
func (r *Run) CompilePolicy(pol nkat.Policy, in Packet) (smt.Formula, Packet, error) {
	switch p := pol.(type) {
	case nkat.Filter:
		// Filtering never changes packet identity; it only constrains
		// satisfiability.
		return r.CompilePredicate(p.Pred, in), in, nil

	case nkat.Modify:
		out := r.FreshPacket()
		return r.modify(p.Field).Apply(in.term(), out.term(), smt.Int(p.Value)), out, nil

	case nkat.Par:
		// Both branches compile from the same input, and their outputs
		// must unify to one packet identity.
		f1, o1, err := r.CompilePolicy(p.L, in)
		if err != nil {
			return nil, Packet{}, err
		}
		f2, o2, err := r.CompilePolicy(p.R, in)
		if err != nil {
			return nil, Packet{}, err
		}
		unified := smt.And{
			smt.Or{f1, f2},
			smt.Eq{A: o1.term(), B: o2.term()},
		}
		return unified, o1, nil

	case nkat.Seq:
		f1, mid, err := r.CompilePolicy(p.L, in)
		if err != nil {
			return nil, Packet{}, err
		}
		f2, out, err := r.CompilePolicy(p.R, mid)
		if err != nil {
			return nil, Packet{}, err
		}
		return smt.And{f1, f2}, out, nil

	default:
		return nil, Packet{}, util.NewShapeError("policy compiler", pol.String())
	}
}
