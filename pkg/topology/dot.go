package topology

import (
	"fmt"
	"strings"
)

// DOT renders the topology as Graphviz text for inspection. Each directed
// link pair is collapsed into one undirected edge where possible.
func (t *Topology) DOT() string {
	var sb strings.Builder
	sb.WriteString("graph topology {\n")

	for _, name := range t.order {
		n := t.nodes[name]
		shape := "box"
		if n.Kind == KindHost {
			shape = "ellipse"
		}
		fmt.Fprintf(&sb, "  %q [shape=%s label=\"%s\\nid=%d\"];\n", n.Name, shape, n.Name, n.ID)
	}

	drawn := make(map[string]bool)
	for _, l := range t.links {
		// A reverse link with swapped ports is the same physical wire.
		key := fmt.Sprintf("%s:%d--%s:%d", l.From, l.FromPort, l.To, l.ToPort)
		rev := fmt.Sprintf("%s:%d--%s:%d", l.To, l.ToPort, l.From, l.FromPort)
		if drawn[rev] {
			continue
		}
		drawn[key] = true
		fmt.Fprintf(&sb, "  %q -- %q [taillabel=\"%d\" headlabel=\"%d\"];\n",
			l.From, l.To, l.FromPort, l.ToPort)
	}

	sb.WriteString("}\n")
	return sb.String()
}
