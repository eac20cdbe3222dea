// Package topology models the network graph the verifier reasons about:
// switches and hosts joined by port-to-port links. It supplies the hop
// bound (graph diameter), shortest paths, and the topology-hop policy
// fragment consumed by the bounded verifier.
//
// Topologies are built through this API; scenario files are parsed
// elsewhere and call into it.
package topology

import (
	"fmt"

	"github.com/verinet-network/verinet/pkg/nkat"
	"github.com/verinet-network/verinet/pkg/util"
)

// NodeKind distinguishes switches from hosts.
type NodeKind int

const (
	KindSwitch NodeKind = iota
	KindHost
)

func (k NodeKind) String() string {
	if k == KindHost {
		return "host"
	}
	return "switch"
}

// Node is one device in the topology. ID is the value the packet's
// switch field takes while the packet is at this node.
type Node struct {
	Name string
	Kind NodeKind
	ID   nkat.Value
}

// Link is one directed port-to-port connection.
type Link struct {
	From     string
	FromPort nkat.Value
	To       string
	ToPort   nkat.Value
}

// Topology is a mutable network graph. Construction is not safe for
// concurrent use; lookups on a finished topology are.
type Topology struct {
	nodes map[string]*Node
	order []string // node insertion order, for deterministic iteration
	links []Link
}

// New creates an empty topology.
func New() *Topology {
	return &Topology{nodes: make(map[string]*Node)}
}

func (t *Topology) addNode(name string, kind NodeKind, id nkat.Value) (*Node, error) {
	if _, exists := t.nodes[name]; exists {
		return nil, fmt.Errorf("node '%s' already exists", name)
	}
	n := &Node{Name: name, Kind: kind, ID: id}
	t.nodes[name] = n
	t.order = append(t.order, name)
	return n, nil
}

// AddSwitch adds a switch node. ID must be unique per node; it is the
// switch-field value packets carry at this switch.
func (t *Topology) AddSwitch(name string, id nkat.Value) (*Node, error) {
	return t.addNode(name, KindSwitch, id)
}

// AddHost adds a host node.
func (t *Topology) AddHost(name string, id nkat.Value) (*Node, error) {
	return t.addNode(name, KindHost, id)
}

// AddLink adds one directed link. Both endpoints must already exist.
func (t *Topology) AddLink(from string, fromPort nkat.Value, to string, toPort nkat.Value) error {
	if _, ok := t.nodes[from]; !ok {
		return util.NewLookupError("node", from)
	}
	if _, ok := t.nodes[to]; !ok {
		return util.NewLookupError("node", to)
	}
	t.links = append(t.links, Link{From: from, FromPort: fromPort, To: to, ToPort: toPort})
	return nil
}

// AddBiLink adds links in both directions between two ports.
func (t *Topology) AddBiLink(a string, aPort nkat.Value, b string, bPort nkat.Value) error {
	if err := t.AddLink(a, aPort, b, bPort); err != nil {
		return err
	}
	return t.AddLink(b, bPort, a, aPort)
}

// Node looks up a node by name.
func (t *Topology) Node(name string) (*Node, error) {
	n, ok := t.nodes[name]
	if !ok {
		return nil, util.NewLookupError("node", name)
	}
	return n, nil
}

// Switches returns all switch nodes in insertion order.
func (t *Topology) Switches() []*Node {
	var out []*Node
	for _, name := range t.order {
		if n := t.nodes[name]; n.Kind == KindSwitch {
			out = append(out, n)
		}
	}
	return out
}

// Links returns all directed links in insertion order.
func (t *Topology) Links() []Link {
	return t.links
}

// NextHop resolves where a packet leaving 'from' on the given egress port
// arrives: the peer node and its ingress port.
func (t *Topology) NextHop(from string, port nkat.Value) (*Node, nkat.Value, error) {
	if _, ok := t.nodes[from]; !ok {
		return nil, 0, util.NewLookupError("node", from)
	}
	for _, l := range t.links {
		if l.From == from && l.FromPort == port {
			return t.nodes[l.To], l.ToPort, nil
		}
	}
	return nil, 0, util.NewLookupError("port", fmt.Sprintf("%s:%d", from, port))
}
