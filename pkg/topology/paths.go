package topology

import "github.com/verinet-network/verinet/pkg/util"

// neighbors returns the distinct peer names reachable over one link.
func (t *Topology) neighbors(name string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range t.links {
		if l.From == name && !seen[l.To] {
			seen[l.To] = true
			out = append(out, l.To)
		}
	}
	return out
}

// bfs returns hop distances from start to every reachable node.
func (t *Topology) bfs(start string) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t.neighbors(cur) {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// ShortestPath returns the node names along a shortest path from 'from'
// to 'to', both endpoints included. Disconnected endpoints are an error,
// not an empty path: callers deriving hop bounds must be able to tell
// "no route" from "zero-length route".
func (t *Topology) ShortestPath(from, to string) ([]string, error) {
	if _, ok := t.nodes[from]; !ok {
		return nil, util.NewLookupError("node", from)
	}
	if _, ok := t.nodes[to]; !ok {
		return nil, util.NewLookupError("node", to)
	}
	if from == to {
		return []string{from}, nil
	}

	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t.neighbors(cur) {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == to {
				var path []string
				for n := to; n != ""; n = prev[n] {
					path = append([]string{n}, path...)
				}
				return path, nil
			}
			queue = append(queue, next)
		}
	}
	return nil, util.NewPathError(from, to)
}

// Diameter returns the longest shortest path, in hops, between any pair
// of switch nodes, which is the hop bound for bounded reachability.
// Unreachable pairs are skipped, so a disconnected topology still yields
// the largest bound among its connected components.
func (t *Topology) Diameter() int {
	max := 0
	for _, a := range t.Switches() {
		dist := t.bfs(a.Name)
		for _, b := range t.Switches() {
			if d, ok := dist[b.Name]; ok && d > max {
				max = d
			}
		}
	}
	return max
}
