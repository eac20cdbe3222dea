package smt

import "strings"

// Param is one formal parameter of a macro.
type Param struct {
	Name string
	Sort Sort
}

// Macro is a named, parameterized formula template emitted as a single
// define-fun. A macro name may be defined at most once per solver program;
// callers are responsible for caching macros so that repeated uses resolve
// to the same *Macro, never a duplicate definition.
type Macro struct {
	Name   string
	Params []Param
	Body   Formula
}

// Apply builds an application of the macro to the given argument terms.
func (m *Macro) Apply(args ...Term) App {
	return App{Macro: m, Args: args}
}

// Param returns a Const term referencing the named formal parameter,
// for use inside the macro body.
func (m *Macro) Param(name string) Const {
	for _, p := range m.Params {
		if p.Name == name {
			return Const{Name: p.Name, Sort: p.Sort}
		}
	}
	// Body construction with an undeclared parameter is a programming
	// error in the macro builder, not a runtime condition.
	panic("smt: macro " + m.Name + " has no parameter " + name)
}

func (m *Macro) writeDefine(sb *strings.Builder) {
	sb.WriteString("(define-fun ")
	sb.WriteString(m.Name)
	sb.WriteString(" (")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(")
		sb.WriteString(p.Name)
		sb.WriteString(" ")
		sb.WriteString(string(p.Sort))
		sb.WriteString(")")
	}
	sb.WriteString(") Bool ")
	m.Body.writeFormula(sb)
	sb.WriteString(")\n")
}
