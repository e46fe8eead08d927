package network

import (
	"slices"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
)

// Hop is one entry of the distance table: a positive-rate destination and the
// number of tunnels between it and the origin.
type Hop struct {
	Node     int  // registry position of the destination
	Bit      Mask // single-bit mask of the destination
	Rate     int
	Distance int
}

// Table is the sparse distance field. It holds, for the start node and every
// positive-rate node, the shortest tunnel distance to every other reachable
// positive-rate node. Built once by [BuildTable]; read-only afterwards.
type Table struct {
	net   *Network
	idx   *BitIndex
	start int
	hops  map[int][]Hop
}

// Build assigns bits and builds the distance table in one step.
func Build(net *Network, start string) (*Table, error) {
	idx, err := AssignBits(net)
	if err != nil {
		return nil, err
	}
	return BuildTable(net, start, idx)
}

// BuildTable runs one breadth-first traversal from the start node and from
// every positive-rate node. Depth grows by exactly one per frontier, so the
// recorded depths are shortest distances. Zero-rate nodes are traversed but
// never recorded; an origin never records itself.
//
// BuildTable fails with NOT_FOUND_START if start is not registered.
func BuildTable(net *Network, start string, idx *BitIndex) (*Table, error) {
	sp, ok := net.Position(start)
	if !ok {
		return nil, errs.New(errs.ErrCodeStartNotFound, "start node %q not found in network", start)
	}
	t := &Table{
		net:   net,
		idx:   idx,
		start: sp,
		hops:  make(map[int][]Hop, idx.Len()+1),
	}
	visited := make([]bool, net.Len())
	for p, nd := range net.nodes {
		if p != sp && !nd.Positive() {
			continue
		}
		t.hops[p] = t.field(p, visited)
	}
	return t, nil
}

// field is a single BFS run from origin.
func (t *Table) field(origin int, visited []bool) []Hop {
	clear(visited)
	visited[origin] = true
	frontier := []int{origin}
	var hops []Hop

	for depth := 0; len(frontier) > 0; depth++ {
		var next []int
		for _, p := range frontier {
			if p != origin {
				if b, ok := t.idx.Bit(p); ok {
					hops = append(hops, Hop{Node: p, Bit: b, Rate: t.net.nodes[p].Rate, Distance: depth})
				}
			}
			for _, q := range t.net.adj[p] {
				if !visited[q] {
					visited[q] = true
					next = append(next, q)
				}
			}
		}
		frontier = next
	}

	slices.SortFunc(hops, func(a, b Hop) int {
		switch {
		case a.Bit < b.Bit:
			return -1
		case a.Bit > b.Bit:
			return 1
		}
		return 0
	})
	return hops
}

// Network returns the registry the table was built from.
func (t *Table) Network() *Network { return t.net }

// Index returns the bit index used by the table.
func (t *Table) Index() *BitIndex { return t.idx }

// Start returns the registry position of the start node.
func (t *Table) Start() int { return t.start }

// StartID returns the identity of the start node.
func (t *Table) StartID() string { return t.net.nodes[t.start].ID }

// Origins returns the number of nodes with a distance field.
func (t *Table) Origins() int { return len(t.hops) }

// IsOrigin reports whether the node at position p has a distance field.
func (t *Table) IsOrigin(p int) bool {
	_, ok := t.hops[p]
	return ok
}

// Hops returns the destinations reachable from the node at position p,
// ordered by bit position. The slice is shared and must not be modified.
func (t *Table) Hops(p int) []Hop { return t.hops[p] }

// Distance returns the shortest distance between two identities. ok is false
// if from is not an origin, to is not a positive-rate node, to is unreachable,
// or from == to.
func (t *Table) Distance(from, to string) (d int, ok bool) {
	fp, ok := t.net.Position(from)
	if !ok {
		return 0, false
	}
	tp, ok := t.net.Position(to)
	if !ok {
		return 0, false
	}
	for _, h := range t.hops[fp] {
		if h.Node == tp {
			return h.Distance, true
		}
	}
	return 0, false
}

// Destinations returns the distance field of from keyed by destination ID.
func (t *Table) Destinations(from string) map[string]int {
	fp, ok := t.net.Position(from)
	if !ok {
		return nil
	}
	hops, ok := t.hops[fp]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(hops))
	for _, h := range hops {
		out[t.net.nodes[h.Node].ID] = h.Distance
	}
	return out
}

// Map returns the whole table keyed by origin ID then destination ID.
func (t *Table) Map() map[string]map[string]int {
	out := make(map[string]map[string]int, len(t.hops))
	for p := range t.hops {
		id := t.net.nodes[p].ID
		out[id] = t.Destinations(id)
	}
	return out
}
