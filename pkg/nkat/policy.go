package nkat

import "fmt"

// Policy is a forwarding-policy program. The policy compiler accepts only
// Filter, Modify, Par and Seq; Star, Link and Choice exist in the grammar
// so that shape violations can be named precisely, but any of them below
// the accepted top-level shape is a fatal shape error.
//
// The one shape the bounded verifier accepts at top level is
// Star(Seq(policy, topologyHop)).
type Policy interface {
	isPolicy()
	String() string
}

// Filter passes a packet through unchanged iff Pred holds for it.
type Filter struct {
	Pred Predicate
}

// Modify rewrites the packet's Field to Value, leaving every other
// field unchanged.
type Modify struct {
	Field Field
	Value Value
}

// Par composes two policies in parallel. The compiled relation requires
// both branch outputs to unify to the same packet identity.
type Par struct {
	L, R Policy
}

// Seq composes two policies sequentially.
type Seq struct {
	L, R Policy
}

// Star iterates its body. Only Star(Seq(policy, topologyHop)) is accepted,
// and only by the unroller.
type Star struct {
	Body Policy
}

// Link is the raw topology link primitive. It is never compiled directly;
// topology hops reach the compiler pre-expanded into Filter/Modify form.
type Link struct {
	SrcSwitch, SrcPort Value
	DstSwitch, DstPort Value
}

// Choice is probabilistic choice. The satisfiability backend has no
// probability semantics, so Choice is always a shape error here.
type Choice struct {
	L, R Policy
	Prob float64
}

func (Filter) isPolicy() {}
func (Modify) isPolicy() {}
func (Par) isPolicy()    {}
func (Seq) isPolicy()    {}
func (Star) isPolicy()   {}
func (Link) isPolicy()   {}
func (Choice) isPolicy() {}

func (f Filter) String() string {
	return fmt.Sprintf("Filter(%s)", f.Pred)
}

func (m Modify) String() string {
	return fmt.Sprintf("Modify(%s:=%d)", m.Field, m.Value)
}

func (p Par) String() string {
	return fmt.Sprintf("Par(%s, %s)", p.L, p.R)
}

func (s Seq) String() string {
	return fmt.Sprintf("Seq(%s, %s)", s.L, s.R)
}

func (s Star) String() string {
	return fmt.Sprintf("Star(%s)", s.Body)
}

func (l Link) String() string {
	return fmt.Sprintf("Link(%d@%d=>%d@%d)", l.SrcSwitch, l.SrcPort, l.DstSwitch, l.DstPort)
}

func (c Choice) String() string {
	return fmt.Sprintf("Choice(%s, %s, p=%g)", c.L, c.R, c.Prob)
}

// Union folds policies into a right-nested parallel composition.
// Union of a single policy is that policy; Union() is Filter(False).
func Union(pols ...Policy) Policy {
	if len(pols) == 0 {
		return Filter{Pred: False{}}
	}
	p := pols[len(pols)-1]
	for i := len(pols) - 2; i >= 0; i-- {
		p = Par{L: pols[i], R: p}
	}
	return p
}

// Sequence folds policies into a right-nested sequential composition.
// Sequence of a single policy is that policy; Sequence() is Filter(True).
func Sequence(pols ...Policy) Policy {
	if len(pols) == 0 {
		return Filter{Pred: True{}}
	}
	p := pols[len(pols)-1]
	for i := len(pols) - 2; i >= 0; i-- {
		p = Seq{L: pols[i], R: p}
	}
	return p
}
