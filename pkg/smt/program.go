package smt

import (
	"fmt"
	"strings"
)

// Program accumulates one SMT-LIB 2 program: sort and constant
// declarations, macro definitions, then assertions, serialized in that
// order ahead of a single (check-sat). Declarations are recorded in
// insertion order so the emitted text is deterministic.
type Program struct {
	sorts    []string
	funs     []fun
	consts   []Const
	macros   []*Macro
	asserts  []Formula
	declared map[string]bool
}

type fun struct {
	name string
	arg  Sort
	ret  Sort
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{declared: make(map[string]bool)}
}

// DeclareSort declares an uninterpreted sort once; repeat declarations
// are ignored.
func (p *Program) DeclareSort(name string) {
	if p.declared["sort "+name] {
		return
	}
	p.declared["sort "+name] = true
	p.sorts = append(p.sorts, name)
}

// DeclareFun declares a unary uninterpreted function (field projection)
// once; repeat declarations are ignored.
func (p *Program) DeclareFun(name string, arg, ret Sort) {
	if p.declared["fun "+name] {
		return
	}
	p.declared["fun "+name] = true
	p.funs = append(p.funs, fun{name: name, arg: arg, ret: ret})
}

// DeclareConst declares a constant once; repeat declarations are ignored.
func (p *Program) DeclareConst(c Const) {
	if p.declared["const "+c.Name] {
		return
	}
	p.declared["const "+c.Name] = true
	p.consts = append(p.consts, c)
}

// DefineMacro appends a macro definition. Defining the same macro name
// twice corrupts the program; the caller's macro cache must prevent it.
func (p *Program) DefineMacro(m *Macro) error {
	if p.declared["macro "+m.Name] {
		return fmt.Errorf("macro '%s' already defined in this program", m.Name)
	}
	p.declared["macro "+m.Name] = true
	p.macros = append(p.macros, m)
	return nil
}

// Assert appends an assertion.
func (p *Program) Assert(f Formula) {
	p.asserts = append(p.asserts, f)
}

// String serializes the complete program, ending in (check-sat).
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.sorts {
		fmt.Fprintf(&sb, "(declare-sort %s 0)\n", s)
	}
	for _, f := range p.funs {
		fmt.Fprintf(&sb, "(declare-fun %s (%s) %s)\n", f.name, f.arg, f.ret)
	}
	for _, c := range p.consts {
		fmt.Fprintf(&sb, "(declare-const %s %s)\n", c.Name, c.Sort)
	}
	if len(p.macros) > 0 {
		sb.WriteString("\n")
	}
	for _, m := range p.macros {
		m.writeDefine(&sb)
	}
	sb.WriteString("\n")
	for _, a := range p.asserts {
		sb.WriteString("(assert ")
		a.writeFormula(&sb)
		sb.WriteString(")\n")
	}
	sb.WriteString("\n(check-sat)\n")
	return sb.String()
}
