package testutil

import (
	"testing"

	"github.com/verinet-network/verinet/pkg/topology"
)

// SingleSwitchLoop builds one switch s1 whose port 2 loops back to its
// own port 1: the smallest topology with a usable hop.
func SingleSwitchLoop(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	if _, err := topo.AddSwitch("s1", 1); err != nil {
		t.Fatalf("AddSwitch: %v", err)
	}
	if err := topo.AddLink("s1", 2, "s1", 1); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	return topo
}

// DisconnectedPair builds two switches s1 and s2 with no link between
// them.
func DisconnectedPair(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	if _, err := topo.AddSwitch("s1", 1); err != nil {
		t.Fatalf("AddSwitch: %v", err)
	}
	if _, err := topo.AddSwitch("s2", 2); err != nil {
		t.Fatalf("AddSwitch: %v", err)
	}
	return topo
}
