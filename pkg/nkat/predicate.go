package nkat

import "fmt"

// Predicate is a boolean combination of packet field tests. Predicates are
// immutable once constructed; compilation never mutates them.
type Predicate interface {
	isPredicate()
	String() string
}

// True is the constant-true predicate.
type True struct{}

// False is the constant-false predicate.
type False struct{}

// Test holds iff the packet's Field equals Value.
type Test struct {
	Field Field
	Value Value
}

// Not negates a predicate.
type Not struct {
	P Predicate
}

// And is the conjunction of two predicates.
type And struct {
	L, R Predicate
}

// Or is the disjunction of two predicates.
type Or struct {
	L, R Predicate
}

func (True) isPredicate()  {}
func (False) isPredicate() {}
func (Test) isPredicate()  {}
func (Not) isPredicate()   {}
func (And) isPredicate()   {}
func (Or) isPredicate()    {}

func (True) String() string  { return "True" }
func (False) String() string { return "False" }

func (t Test) String() string {
	return fmt.Sprintf("Test(%s=%d)", t.Field, t.Value)
}

func (n Not) String() string {
	return fmt.Sprintf("Not(%s)", n.P)
}

func (a And) String() string {
	return fmt.Sprintf("And(%s, %s)", a.L, a.R)
}

func (o Or) String() string {
	return fmt.Sprintf("Or(%s, %s)", o.L, o.R)
}

// Conj folds predicates into a right-nested conjunction.
// Conj() is True.
func Conj(preds ...Predicate) Predicate {
	if len(preds) == 0 {
		return True{}
	}
	p := preds[len(preds)-1]
	for i := len(preds) - 2; i >= 0; i-- {
		p = And{L: preds[i], R: p}
	}
	return p
}

// Disj folds predicates into a right-nested disjunction.
// Disj() is False.
func Disj(preds ...Predicate) Predicate {
	if len(preds) == 0 {
		return False{}
	}
	p := preds[len(preds)-1]
	for i := len(preds) - 2; i >= 0; i-- {
		p = Or{L: preds[i], R: p}
	}
	return p
}
