package verify

import (
	"errors"
	"strings"
	"testing"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/smt"
	"github.com/verinet-network/verinet/pkg/util"
)

func TestCompileFilterKeepsIdentity(t *testing.T) {
	r := NewRun()
	in := r.FreshPacket()
	f, out, err := r.CompilePolicy(nkat.Filter{Pred: nkat.Test{Field: nkat.Switch, Value: 3}}, in)
	if err != nil {
		t.Fatalf("CompilePolicy: %v", err)
	}
	if out != in {
		t.Errorf("filter output = %s, want input %s", out.Name(), in.Name())
	}
	if got := smt.Render(f); got != "(equal-switch "+in.Name()+" 3)" {
		t.Errorf("filter formula = %q", got)
	}
}

func TestCompileModify(t *testing.T) {
	r := NewRun()
	in := r.FreshPacket()
	f, out, err := r.CompilePolicy(nkat.Modify{Field: nkat.Vlan, Value: 42}, in)
	if err != nil {
		t.Fatalf("CompilePolicy: %v", err)
	}
	if out == in {
		t.Error("modify must allocate a fresh output packet")
	}
	want := "(set-vlan " + in.Name() + " " + out.Name() + " 42)"
	if got := smt.Render(f); got != want {
		t.Errorf("modify formula = %q, want %q", got, want)
	}
}

func TestCompileSequentialThreadsPackets(t *testing.T) {
	r := NewRun()
	in := r.FreshPacket()
	pol := nkat.Seq{
		L: nkat.Modify{Field: nkat.Switch, Value: 2},
		R: nkat.Modify{Field: nkat.Port, Value: 1},
	}
	f, out, err := r.CompilePolicy(pol, in)
	if err != nil {
		t.Fatalf("CompilePolicy: %v", err)
	}
	got := smt.Render(f)
	// The second modification's input must be the first one's output.
	if !strings.Contains(got, "(set-switch "+in.Name()+" ") {
		t.Errorf("first hop not rooted at input: %q", got)
	}
	if !strings.Contains(got, " "+out.Name()+" 1)") {
		t.Errorf("second hop does not produce final output: %q", got)
	}
}

func TestCompileParallelUnifiesOutputs(t *testing.T) {
	r := NewRun()
	in := r.FreshPacket()
	pol := nkat.Par{
		L: nkat.Modify{Field: nkat.Vlan, Value: 1},
		R: nkat.Modify{Field: nkat.Vlan, Value: 2},
	}
	f, out, err := r.CompilePolicy(pol, in)
	if err != nil {
		t.Fatalf("CompilePolicy: %v", err)
	}
	got := smt.Render(f)

	// Branch formulas are disjoined, branch outputs unified.
	if !strings.Contains(got, "(or (set-vlan ") {
		t.Errorf("branch disjunction missing: %q", got)
	}
	and, ok := f.(smt.And)
	if !ok || len(and) != 2 {
		t.Fatalf("parallel formula = %q, want And of 2", got)
	}
	eq, ok := and[1].(smt.Eq)
	if !ok {
		t.Fatalf("second conjunct = %T, want unification Eq", and[1])
	}
	if eq.A.(smt.Const).Name != out.Name() {
		t.Errorf("unification does not involve reported output %s: %q", out.Name(), got)
	}
}

func TestCompileRejectsShapes(t *testing.T) {
	inner := nkat.Filter{Pred: nkat.True{}}
	bad := []nkat.Policy{
		nkat.Star{Body: inner},
		nkat.Link{SrcSwitch: 1, SrcPort: 2, DstSwitch: 2, DstPort: 1},
		nkat.Choice{L: inner, R: inner, Prob: 0.5},
		nkat.Seq{L: inner, R: nkat.Star{Body: inner}}, // nested violation surfaces
	}
	for _, pol := range bad {
		r := NewRun()
		in := r.FreshPacket()
		_, _, err := r.CompilePolicy(pol, in)
		if !errors.Is(err, util.ErrBadShape) {
			t.Errorf("CompilePolicy(%s) error = %v, want ErrBadShape", pol, err)
		}
		if err != nil && !strings.Contains(err.Error(), "policy compiler") {
			t.Errorf("shape error should name the rejecting layer: %v", err)
		}
	}
}
