package smt

import (
	"strings"
	"testing"
)

func TestRenderFormula(t *testing.T) {
	p := Const{Name: "pkt0", Sort: SortPacket}
	f := And{
		Not{F: Eq{A: p, B: Const{Name: "nopacket", Sort: SortPacket}}},
		Eq{A: Proj{Fun: "switch", Arg: p}, B: Int(3)},
	}
	got := Render(f)
	want := "(and (not (= pkt0 nopacket)) (= (switch pkt0) 3))"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderNary(t *testing.T) {
	t.Run("empty conjunction is true", func(t *testing.T) {
		if got := Render(And{}); got != "true" {
			t.Errorf("Render(And{}) = %q, want true", got)
		}
	})

	t.Run("empty disjunction is false", func(t *testing.T) {
		if got := Render(Or{}); got != "false" {
			t.Errorf("Render(Or{}) = %q, want false", got)
		}
	})

	t.Run("single operand unwrapped", func(t *testing.T) {
		if got := Render(And{Bool(true)}); got != "true" {
			t.Errorf("Render(And{true}) = %q, want true", got)
		}
	})
}

func TestRenderNegativeInt(t *testing.T) {
	got := Render(Eq{A: Const{Name: "x", Sort: SortInt}, B: Int(-5)})
	if got != "(= x (- 5))" {
		t.Errorf("Render() = %q, want %q", got, "(= x (- 5))")
	}
}

func TestCommentTransparent(t *testing.T) {
	f := Comment{Text: "entry predicate", F: Bool(true)}
	got := Render(f)
	if !strings.Contains(got, "; entry predicate") {
		t.Errorf("comment text missing from %q", got)
	}
	if !strings.Contains(got, "true") {
		t.Errorf("wrapped formula missing from %q", got)
	}
}

func TestMacroDefine(t *testing.T) {
	m := &Macro{
		Name: "equal-switch",
		Params: []Param{
			{Name: "p", Sort: SortPacket},
			{Name: "v", Sort: SortInt},
		},
	}
	m.Body = And{
		Not{F: Eq{A: m.Param("p"), B: Const{Name: "nopacket", Sort: SortPacket}}},
		Eq{A: Proj{Fun: "switch", Arg: m.Param("p")}, B: m.Param("v")},
	}

	var sb strings.Builder
	m.writeDefine(&sb)
	got := sb.String()
	want := "(define-fun equal-switch ((p Packet) (v Int)) Bool (and (not (= p nopacket)) (= (switch p) v)))\n"
	if got != want {
		t.Errorf("writeDefine() = %q, want %q", got, want)
	}
}

func TestProgramOrdering(t *testing.T) {
	p := NewProgram()
	p.DeclareSort("Packet")
	p.DeclareConst(Const{Name: "nopacket", Sort: SortPacket})
	p.DeclareFun("switch", SortPacket, SortInt)
	m := &Macro{Name: "m", Params: []Param{{Name: "p", Sort: SortPacket}}, Body: Bool(true)}
	if err := p.DefineMacro(m); err != nil {
		t.Fatalf("DefineMacro: %v", err)
	}
	p.Assert(m.Apply(Const{Name: "nopacket", Sort: SortPacket}))

	text := p.String()

	order := []string{
		"(declare-sort Packet 0)",
		"(declare-fun switch (Packet) Int)",
		"(declare-const nopacket Packet)",
		"(define-fun m",
		"(assert (m nopacket))",
		"(check-sat)",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(text, s)
		if idx < 0 {
			t.Fatalf("program missing %q:\n%s", s, text)
		}
		if idx < last {
			t.Errorf("%q emitted out of order:\n%s", s, text)
		}
		last = idx
	}
}

func TestProgramRejectsDuplicateMacro(t *testing.T) {
	p := NewProgram()
	m := &Macro{Name: "dup", Body: Bool(true)}
	if err := p.DefineMacro(m); err != nil {
		t.Fatalf("first DefineMacro: %v", err)
	}
	if err := p.DefineMacro(&Macro{Name: "dup", Body: Bool(false)}); err == nil {
		t.Error("second DefineMacro with same name should fail")
	}
}

func TestProgramDeduplicatesDeclarations(t *testing.T) {
	p := NewProgram()
	p.DeclareConst(Const{Name: "x", Sort: SortInt})
	p.DeclareConst(Const{Name: "x", Sort: SortInt})
	text := p.String()
	if strings.Count(text, "(declare-const x Int)") != 1 {
		t.Errorf("constant declared more than once:\n%s", text)
	}
}

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		in      string
		want    Verdict
		wantErr bool
	}{
		{"sat\n", Sat, false},
		{"unsat\n", Unsat, false},
		{"unknown\n", Unknown, false},
		{"timeout\n", Unknown, false},
		{"\nsat\n", Sat, false},
		{"", Unknown, true},
		{"(error \"line 1\")\n", Unknown, true},
	}
	for _, c := range cases {
		got, err := ParseVerdict(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseVerdict(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("ParseVerdict(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
