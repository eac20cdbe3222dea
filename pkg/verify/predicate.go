package verify

import (
	"fmt"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
)

// CompilePredicate translates a predicate into a formula over one packet
// variable, in negation normal form. Negation is pushed inward over the
// predicate before leaves are compiled, so a negated field test compiles
// to the field's dedicated inequality macro rather than not(equality),
// keeping leaf formulas monomorphic for the macro cache.
//
// Total over the predicate grammar; may populate the macro cache.
func (r *Run) CompilePredicate(pred nkat.Predicate, pkt Packet) smt.Formula {
	switch p := pred.(type) {
	case nkat.True:
		return smt.Bool(true)
	case nkat.False:
		return smt.Bool(false)
	case nkat.Test:
		return r.equal(p.Field).Apply(pkt.term(), smt.Int(p.Value))
	case nkat.And:
		return smt.And{r.CompilePredicate(p.L, pkt), r.CompilePredicate(p.R, pkt)}
	case nkat.Or:
		return smt.Or{r.CompilePredicate(p.L, pkt), r.CompilePredicate(p.R, pkt)}
	case nkat.Not:
		return r.compileNegated(p.P, pkt)
	default:
		panic(fmt.Sprintf("verify: unhandled predicate %T", pred))
	}
}

// compileNegated compiles the negation of pred with De Morgan pushing:
// ¬(a∧b) = ¬a ∨ ¬b and ¬(a∨b) = ¬a ∧ ¬b, double negation cancels, and
// a negated field test becomes the field's inequality macro.
func (r *Run) compileNegated(pred nkat.Predicate, pkt Packet) smt.Formula {
	switch p := pred.(type) {
	case nkat.True:
		return smt.Bool(false)
	case nkat.False:
		return smt.Bool(true)
	case nkat.Test:
		return r.notEqual(p.Field).Apply(pkt.term(), smt.Int(p.Value))
	case nkat.And:
		return smt.Or{r.compileNegated(p.L, pkt), r.compileNegated(p.R, pkt)}
	case nkat.Or:
		return smt.And{r.compileNegated(p.L, pkt), r.compileNegated(p.R, pkt)}
	case nkat.Not:
		return r.CompilePredicate(p.P, pkt)
	default:
		panic(fmt.Sprintf("verify: unhandled predicate %T", pred))
	}
}
