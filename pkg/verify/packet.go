// Package verify compiles forwarding-policy programs into SMT-LIB
// satisfiability queries and checks bounded reachability verdicts against
// expected oracles. All mutable compilation state (macro cache, fresh-name
// counter, accumulated program) lives in a Run, one per check, so
// concurrent checks never share solver declarations.
package verify

import (
	"github.com/verinet-network/verinet/pkg/smt"
)

// Packet names one symbolic packet variable in the solver theory. Packets
// are allocated by a Run and are only meaningful within it.
type Packet struct {
	name string
}

// Drop is the sentinel meaning "no packet here": a packet filtered out at
// some earlier hop. It is a single distinguished constant, distinct from
// every allocated packet variable.
var Drop = Packet{name: "nopacket"}

// Name returns the packet's solver-level name.
func (p Packet) Name() string { return p.name }

// IsDrop reports whether p is the drop sentinel.
func (p Packet) IsDrop() bool { return p == Drop }

func (p Packet) term() smt.Const {
	return smt.Const{Name: p.name, Sort: smt.SortPacket}
}

// Frontier is the ordered list of per-depth reached packets produced by
// unrolling: one entry per hop count from 0 to k.
type Frontier []Packet
