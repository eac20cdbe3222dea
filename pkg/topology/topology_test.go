package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/util"
)

// linear builds s1 - s2 - ... - sN with bidirectional links.
func linear(t *testing.T, n int) *Topology {
	t.Helper()
	topo := New()
	for i := 1; i <= n; i++ {
		if _, err := topo.AddSwitch(switchName(i), int64(i)); err != nil {
			t.Fatalf("AddSwitch: %v", err)
		}
	}
	for i := 1; i < n; i++ {
		// port 2 faces the next switch, port 1 faces the previous
		if err := topo.AddBiLink(switchName(i), 2, switchName(i+1), 1); err != nil {
			t.Fatalf("AddBiLink: %v", err)
		}
	}
	return topo
}

func switchName(i int) string {
	return "s" + string(rune('0'+i))
}

func TestAddDuplicateNode(t *testing.T) {
	topo := New()
	if _, err := topo.AddSwitch("s1", 1); err != nil {
		t.Fatalf("AddSwitch: %v", err)
	}
	if _, err := topo.AddSwitch("s1", 2); err == nil {
		t.Error("duplicate AddSwitch should fail")
	}
}

func TestLinkRequiresEndpoints(t *testing.T) {
	topo := New()
	topo.AddSwitch("s1", 1)
	err := topo.AddLink("s1", 1, "s9", 1)
	if !errors.Is(err, util.ErrNodeNotFound) {
		t.Errorf("AddLink to missing node = %v, want ErrNodeNotFound", err)
	}
}

func TestNextHop(t *testing.T) {
	topo := linear(t, 2)

	peer, port, err := topo.NextHop("s1", 2)
	if err != nil {
		t.Fatalf("NextHop: %v", err)
	}
	if peer.Name != "s2" || port != 1 {
		t.Errorf("NextHop(s1, 2) = %s:%d, want s2:1", peer.Name, port)
	}

	if _, _, err := topo.NextHop("s1", 7); !errors.Is(err, util.ErrNodeNotFound) {
		t.Errorf("NextHop on unwired port = %v, want ErrNodeNotFound", err)
	}
}

func TestShortestPath(t *testing.T) {
	topo := linear(t, 4)

	path, err := topo.ShortestPath("s1", "s4")
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	want := []string{"s1", "s2", "s3", "s4"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}

	t.Run("self", func(t *testing.T) {
		path, err := topo.ShortestPath("s2", "s2")
		if err != nil || len(path) != 1 {
			t.Errorf("ShortestPath(s2, s2) = %v, %v; want single-node path", path, err)
		}
	})

	t.Run("disconnected is an error", func(t *testing.T) {
		topo.AddSwitch("s9", 9)
		_, err := topo.ShortestPath("s1", "s9")
		if !errors.Is(err, util.ErrNoPath) {
			t.Errorf("ShortestPath to disconnected node = %v, want ErrNoPath", err)
		}
	})
}

func TestDiameter(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		if d := linear(t, 4).Diameter(); d != 3 {
			t.Errorf("Diameter = %d, want 3", d)
		}
	})

	t.Run("single switch", func(t *testing.T) {
		topo := New()
		topo.AddSwitch("s1", 1)
		if d := topo.Diameter(); d != 0 {
			t.Errorf("Diameter = %d, want 0", d)
		}
	})

	t.Run("disconnected pairs skipped", func(t *testing.T) {
		topo := linear(t, 3)
		topo.AddSwitch("s9", 9)
		if d := topo.Diameter(); d != 2 {
			t.Errorf("Diameter = %d, want 2", d)
		}
	})

	t.Run("hosts not counted", func(t *testing.T) {
		topo := linear(t, 2)
		topo.AddHost("h1", 100)
		topo.AddBiLink("h1", 1, "s1", 3)
		if d := topo.Diameter(); d != 1 {
			t.Errorf("Diameter = %d, want 1", d)
		}
	})
}

func TestHopPolicy(t *testing.T) {
	t.Run("self loop", func(t *testing.T) {
		topo := New()
		topo.AddSwitch("s1", 1)
		topo.AddLink("s1", 2, "s1", 3)

		hop := topo.HopPolicy()
		seq, ok := hop.(nkat.Seq)
		if !ok {
			t.Fatalf("single-link hop = %T, want Seq", hop)
		}
		filter, ok := seq.L.(nkat.Filter)
		if !ok {
			t.Fatalf("hop head = %T, want Filter", seq.L)
		}
		and, ok := filter.Pred.(nkat.And)
		if !ok {
			t.Fatalf("hop filter = %T, want And", filter.Pred)
		}
		if test, ok := and.L.(nkat.Test); !ok || test.Field != nkat.Switch || test.Value != 1 {
			t.Errorf("hop filter switch test = %v", and.L)
		}
	})

	t.Run("no switch links means drop", func(t *testing.T) {
		topo := New()
		topo.AddSwitch("s1", 1)
		topo.AddHost("h1", 100)
		topo.AddBiLink("s1", 1, "h1", 1)

		hop := topo.HopPolicy()
		filter, ok := hop.(nkat.Filter)
		if !ok {
			t.Fatalf("linkless hop = %T, want Filter", hop)
		}
		if _, ok := filter.Pred.(nkat.False); !ok {
			t.Errorf("linkless hop should filter on False, got %v", filter.Pred)
		}
	})

	t.Run("program shape", func(t *testing.T) {
		topo := linear(t, 2)
		prog := topo.Program(nkat.Filter{Pred: nkat.True{}})
		star, ok := prog.(nkat.Star)
		if !ok {
			t.Fatalf("Program = %T, want Star", prog)
		}
		if _, ok := star.Body.(nkat.Seq); !ok {
			t.Errorf("Program body = %T, want Seq", star.Body)
		}
	})
}

func TestDOT(t *testing.T) {
	topo := linear(t, 2)
	dot := topo.DOT()
	for _, want := range []string{"graph topology {", `"s1"`, `"s2"`, `"s1" -- "s2"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
	// the reverse direction of a bidirectional link is the same wire
	if strings.Contains(dot, `"s2" -- "s1"`) {
		t.Errorf("DOT should collapse reverse links:\n%s", dot)
	}
}
