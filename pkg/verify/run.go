package verify

import (
	"fmt"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
)

// macroFamily tags the four macro kinds so cache keys never collide
// across families that share a field.
type macroFamily int

const (
	famEqual macroFamily = iota
	famNotEqual
	famEqExcept
	famModify
)

type macroKey struct {
	family macroFamily
	field  nkat.Field
}

// Run owns all mutable state of one verification run: the solver program
// under construction, the macro cache, and the fresh-name counter.
// Dropping the Run is the reset between runs; successive runs therefore
// never share declarations.
type Run struct {
	prog   *smt.Program
	macros map[macroKey]*smt.Macro
	fresh  int
}

// NewRun creates a run with the packet theory declared: the Packet sort,
// one projection function per field, and the drop sentinel constant.
func NewRun() *Run {
	r := &Run{
		prog:   smt.NewProgram(),
		macros: make(map[macroKey]*smt.Macro),
	}
	r.prog.DeclareSort(string(smt.SortPacket))
	for _, f := range nkat.Fields {
		r.prog.DeclareFun(f.String(), smt.SortPacket, smt.SortInt)
	}
	r.prog.DeclareConst(Drop.term())
	return r
}

// FreshPacket allocates and declares a new symbolic packet variable.
func (r *Run) FreshPacket() Packet {
	p := Packet{name: fmt.Sprintf("pkt_%d", r.fresh)}
	r.fresh++
	r.prog.DeclareConst(p.term())
	return p
}

// Assert adds a top-level assertion to the run's program.
func (r *Run) Assert(f smt.Formula) {
	r.prog.Assert(f)
}

// Program serializes the accumulated solver program.
func (r *Run) Program() string {
	return r.prog.String()
}

// macro returns the cached macro for key, invoking build and emitting the
// definition only on a miss. Two lookups with the same key during one run
// always yield the identical macro object; the backing program may define
// each name only once.
func (r *Run) macro(key macroKey, build func() *smt.Macro) *smt.Macro {
	if m, ok := r.macros[key]; ok {
		return m
	}
	m := build()
	if err := r.prog.DefineMacro(m); err != nil {
		// Cache keys and macro names are in bijection, so a duplicate
		// definition here is a bug in the macro builders.
		panic(err)
	}
	r.macros[key] = m
	return m
}

func fieldProj(f nkat.Field, t smt.Term) smt.Proj {
	return smt.Proj{Fun: f.String(), Arg: t}
}

func isDrop(t smt.Term) smt.Eq {
	return smt.Eq{A: t, B: Drop.term()}
}

// equal(f) is (p, v) -> Bool: false for the drop sentinel, otherwise
// field f of p equals v.
func (r *Run) equal(f nkat.Field) *smt.Macro {
	return r.macro(macroKey{famEqual, f}, func() *smt.Macro {
		m := &smt.Macro{
			Name: "equal-" + f.String(),
			Params: []smt.Param{
				{Name: "p", Sort: smt.SortPacket},
				{Name: "v", Sort: smt.SortInt},
			},
		}
		m.Body = smt.And{
			smt.Not{F: isDrop(m.Param("p"))},
			smt.Eq{A: fieldProj(f, m.Param("p")), B: m.Param("v")},
		}
		return m
	})
}

// notEqual(f) is (p, v) -> Bool: true for the drop sentinel, otherwise
// field f of p differs from v. The difference is expressed as
// less-than OR greater-than; the target theory's ordering relations are
// used instead of a native disequality.
func (r *Run) notEqual(f nkat.Field) *smt.Macro {
	return r.macro(macroKey{famNotEqual, f}, func() *smt.Macro {
		m := &smt.Macro{
			Name: "nequal-" + f.String(),
			Params: []smt.Param{
				{Name: "p", Sort: smt.SortPacket},
				{Name: "v", Sort: smt.SortInt},
			},
		}
		m.Body = smt.Or{
			isDrop(m.Param("p")),
			smt.Lt{A: fieldProj(f, m.Param("p")), B: m.Param("v")},
			smt.Gt{A: fieldProj(f, m.Param("p")), B: m.Param("v")},
		}
		return m
	})
}

// equalExcept(f) is (p, q) -> Bool: true when both packets are the drop
// sentinel, false when exactly one is, otherwise p and q agree on every
// field but f.
func (r *Run) equalExcept(f nkat.Field) *smt.Macro {
	return r.macro(macroKey{famEqExcept, f}, func() *smt.Macro {
		m := &smt.Macro{
			Name: "pkteq-but-" + f.String(),
			Params: []smt.Param{
				{Name: "p", Sort: smt.SortPacket},
				{Name: "q", Sort: smt.SortPacket},
			},
		}
		live := smt.And{
			smt.Not{F: isDrop(m.Param("p"))},
			smt.Not{F: isDrop(m.Param("q"))},
		}
		for _, g := range nkat.Fields {
			if g == f {
				continue
			}
			live = append(live, smt.Eq{
				A: fieldProj(g, m.Param("p")),
				B: fieldProj(g, m.Param("q")),
			})
		}
		m.Body = smt.Or{
			smt.And{isDrop(m.Param("p")), isDrop(m.Param("q"))},
			live,
		}
		return m
	})
}

// modify(f) is (p, q, v) -> Bool: q agrees with p on every field but f,
// and on f equals v.
func (r *Run) modify(f nkat.Field) *smt.Macro {
	// Dependencies first, so definitions are emitted in reference order.
	eqExcept := r.equalExcept(f)
	equal := r.equal(f)
	return r.macro(macroKey{famModify, f}, func() *smt.Macro {
		m := &smt.Macro{
			Name: "set-" + f.String(),
			Params: []smt.Param{
				{Name: "p", Sort: smt.SortPacket},
				{Name: "q", Sort: smt.SortPacket},
				{Name: "v", Sort: smt.SortInt},
			},
		}
		m.Body = smt.And{
			eqExcept.Apply(m.Param("p"), m.Param("q")),
			equal.Apply(m.Param("q"), m.Param("v")),
		}
		return m
	})
}
