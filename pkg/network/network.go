package network

import (
	"slices"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
)

// Node is a valve in the network: an identity, a non-negative rate and the
// ordered list of neighbors reachable through one tunnel.
//
// A Node handed to [New] is copied; later changes to the caller's Tunnels
// slice do not affect the registry.
type Node struct {
	ID      string   `json:"id" toml:"id"`
	Rate    int      `json:"rate" toml:"rate"`
	Tunnels []string `json:"tunnels,omitempty" toml:"tunnels,omitempty"`
}

// Positive reports whether the node is worth activating.
func (n Node) Positive() bool { return n.Rate > 0 }

// Network is the immutable node registry. Nodes keep their load order, which
// fixes both the bit assignment and the hop order of the distance table.
//
// The zero value is an empty network. Network is safe for concurrent reads.
type Network struct {
	nodes []Node
	pos   map[string]int
	adj   [][]int // tunnels resolved to positions
}

// New validates nodes and returns a registry over them.
//
// New returns an INVALID_* error if an ID is malformed or repeated, a rate is
// negative, or a tunnel names a node that is not part of the input.
func New(nodes []Node) (*Network, error) {
	n := &Network{
		nodes: make([]Node, len(nodes)),
		pos:   make(map[string]int, len(nodes)),
		adj:   make([][]int, len(nodes)),
	}
	for i, nd := range nodes {
		if err := errs.ValidateNodeID(nd.ID); err != nil {
			return nil, err
		}
		if err := errs.ValidateRate(nd.ID, nd.Rate); err != nil {
			return nil, err
		}
		if _, dup := n.pos[nd.ID]; dup {
			return nil, errs.New(errs.ErrCodeDuplicateNode, "duplicate node ID %q", nd.ID)
		}
		n.pos[nd.ID] = i
		n.nodes[i] = Node{ID: nd.ID, Rate: nd.Rate}
		if len(nd.Tunnels) > 0 {
			n.nodes[i].Tunnels = slices.Clone(nd.Tunnels)
		}
	}
	for i, nd := range n.nodes {
		n.adj[i] = make([]int, 0, len(nd.Tunnels))
		for _, to := range nd.Tunnels {
			j, ok := n.pos[to]
			if !ok {
				return nil, errs.New(errs.ErrCodeUnknownNeighbor, "node %q has a tunnel to unknown node %q", nd.ID, to)
			}
			n.adj[i] = append(n.adj[i], j)
		}
	}
	return n, nil
}

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.nodes) }

// EdgeCount returns the number of tunnel entries across all nodes.
func (n *Network) EdgeCount() int {
	c := 0
	for _, a := range n.adj {
		c += len(a)
	}
	return c
}

// Position returns the registry position of id.
func (n *Network) Position(id string) (int, bool) {
	p, ok := n.pos[id]
	return p, ok
}

// Has reports whether id is registered.
func (n *Network) Has(id string) bool {
	_, ok := n.pos[id]
	return ok
}

// Node returns a copy of the node at position p.
func (n *Network) Node(p int) Node {
	nd := n.nodes[p]
	nd.Tunnels = slices.Clone(nd.Tunnels)
	return nd
}

// Lookup returns a copy of the node with the given id.
func (n *Network) Lookup(id string) (Node, bool) {
	p, ok := n.pos[id]
	if !ok {
		return Node{}, false
	}
	return n.Node(p), true
}

// ID returns the identity of the node at position p.
func (n *Network) ID(p int) string { return n.nodes[p].ID }

// Rate returns the rate of the node at position p.
func (n *Network) Rate(p int) int { return n.nodes[p].Rate }

// Nodes returns a copy of all nodes in load order.
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	for i := range n.nodes {
		out[i] = n.Node(i)
	}
	return out
}

// PositiveCount returns the number of nodes with a positive rate.
func (n *Network) PositiveCount() int {
	c := 0
	for _, nd := range n.nodes {
		if nd.Positive() {
			c++
		}
	}
	return c
}
