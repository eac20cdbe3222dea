// Package smt builds SMT-LIB 2 programs as text and drives an external
// solver process over the textual protocol (program in, sat/unsat out).
// The solver itself is a black box; nothing here depends on which one is
// installed as long as it speaks SMT-LIB 2 on stdin.
package smt

import (
	"fmt"
	"strings"
)

// Sort names an SMT sort.
type Sort string

const (
	SortBool   Sort = "Bool"
	SortInt    Sort = "Int"
	SortPacket Sort = "Packet"
)

// Term is an SMT term: a constant, an integer literal, or a function
// application such as a field projection.
type Term interface {
	isTerm()
	writeTerm(sb *strings.Builder)
}

// Const references a declared constant by name.
type Const struct {
	Name string
	Sort Sort
}

// Int is an integer literal.
type Int int64

// Proj applies a declared unary function (a packet field projection)
// to a term.
type Proj struct {
	Fun string
	Arg Term
}

func (Const) isTerm() {}
func (Int) isTerm()   {}
func (Proj) isTerm()  {}

func (c Const) writeTerm(sb *strings.Builder) {
	sb.WriteString(c.Name)
}

func (i Int) writeTerm(sb *strings.Builder) {
	if i < 0 {
		// SMT-LIB has no negative literals; use unary minus
		fmt.Fprintf(sb, "(- %d)", -int64(i))
		return
	}
	fmt.Fprintf(sb, "%d", int64(i))
}

func (p Proj) writeTerm(sb *strings.Builder) {
	sb.WriteString("(")
	sb.WriteString(p.Fun)
	sb.WriteString(" ")
	p.Arg.writeTerm(sb)
	sb.WriteString(")")
}

// Formula is a boolean SMT expression.
type Formula interface {
	isFormula()
	writeFormula(sb *strings.Builder)
}

// Bool is a boolean literal.
type Bool bool

// Eq asserts term equality.
type Eq struct {
	A, B Term
}

// Lt asserts A < B.
type Lt struct {
	A, B Term
}

// Gt asserts A > B.
type Gt struct {
	A, B Term
}

// And is an n-ary conjunction.
type And []Formula

// Or is an n-ary disjunction.
type Or []Formula

// Not negates a formula.
type Not struct {
	F Formula
}

// Comment wraps a formula with a diagnostic annotation. It is semantically
// transparent: SMT-LIB treats line comments as whitespace, so the text is
// emitted on its own line above the wrapped formula.
type Comment struct {
	Text string
	F    Formula
}

// App applies a defined macro to argument terms.
type App struct {
	Macro *Macro
	Args  []Term
}

func (Bool) isFormula()    {}
func (Eq) isFormula()      {}
func (Lt) isFormula()      {}
func (Gt) isFormula()      {}
func (And) isFormula()     {}
func (Or) isFormula()      {}
func (Not) isFormula()     {}
func (Comment) isFormula() {}
func (App) isFormula()     {}

func (b Bool) writeFormula(sb *strings.Builder) {
	if b {
		sb.WriteString("true")
	} else {
		sb.WriteString("false")
	}
}

func writeBinary(sb *strings.Builder, op string, a, b Term) {
	sb.WriteString("(")
	sb.WriteString(op)
	sb.WriteString(" ")
	a.writeTerm(sb)
	sb.WriteString(" ")
	b.writeTerm(sb)
	sb.WriteString(")")
}

func (e Eq) writeFormula(sb *strings.Builder) { writeBinary(sb, "=", e.A, e.B) }
func (l Lt) writeFormula(sb *strings.Builder) { writeBinary(sb, "<", l.A, l.B) }
func (g Gt) writeFormula(sb *strings.Builder) { writeBinary(sb, ">", g.A, g.B) }

func writeNary(sb *strings.Builder, op string, fs []Formula) {
	// SMT-LIB and/or require at least two operands
	switch len(fs) {
	case 0:
		if op == "and" {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case 1:
		fs[0].writeFormula(sb)
	default:
		sb.WriteString("(")
		sb.WriteString(op)
		for _, f := range fs {
			sb.WriteString(" ")
			f.writeFormula(sb)
		}
		sb.WriteString(")")
	}
}

func (a And) writeFormula(sb *strings.Builder) { writeNary(sb, "and", a) }
func (o Or) writeFormula(sb *strings.Builder)  { writeNary(sb, "or", o) }

func (n Not) writeFormula(sb *strings.Builder) {
	sb.WriteString("(not ")
	n.F.writeFormula(sb)
	sb.WriteString(")")
}

func (c Comment) writeFormula(sb *strings.Builder) {
	sb.WriteString("\n; ")
	sb.WriteString(strings.ReplaceAll(c.Text, "\n", " "))
	sb.WriteString("\n")
	c.F.writeFormula(sb)
}

func (a App) writeFormula(sb *strings.Builder) {
	sb.WriteString("(")
	sb.WriteString(a.Macro.Name)
	for _, arg := range a.Args {
		sb.WriteString(" ")
		arg.writeTerm(sb)
	}
	sb.WriteString(")")
}

// Render returns the formula as SMT-LIB 2 text.
func Render(f Formula) string {
	var sb strings.Builder
	f.writeFormula(&sb)
	return sb.String()
}
