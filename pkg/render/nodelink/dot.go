package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/ventgraph/pkg/network"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the rate to every label, including zero-rate nodes.
	Detailed bool
	// Start marks the start node. Empty means no node is marked.
	Start string
	// Routes overlays activation orders, one per agent.
	Routes []Route
}

// Route is one agent's activation order with the distance of each leg.
type Route struct {
	Nodes     []string
	Distances []int // Distances[i] is the travel time to Nodes[i]
}

// routeColors cycles across agents.
var routeColors = []string{"#d62728", "#1f77b4", "#2ca02c", "#9467bd"}

// ToDOT converts net to Graphviz DOT.
func ToDOT(net *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("\n")

	steps := stepLabels(opts.Routes)
	for _, n := range net.Nodes() {
		attrs := fmtAttrs(n, opts, steps[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range tunnels(net) {
		if e.both {
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, color=grey50];\n", e.from, e.to)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=grey50];\n", e.from, e.to)
		}
	}

	for i, r := range opts.Routes {
		color := routeColors[i%len(routeColors)]
		prev := opts.Start
		for j, id := range r.Nodes {
			if prev != "" {
				label := ""
				if j < len(r.Distances) {
					label = fmt.Sprintf(", label=\"%d\"", r.Distances[j])
				}
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, penwidth=2, color=%q, fontcolor=%q%s];\n",
					prev, id, color, color, label)
			}
			prev = id
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n network.Node, detailed bool) string {
	if n.Rate > 0 || detailed {
		return fmt.Sprintf("%s\n%d", n.ID, n.Rate)
	}
	return n.ID
}

func fmtAttrs(n network.Node, opts Options, step string) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.Positive() {
		attrs = append(attrs, "shape=circle", "style=filled", "fillcolor=\"#fff3b0\"")
	} else {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=grey90", "fontcolor=grey30", "fontsize=10")
	}
	if n.ID == opts.Start {
		attrs = append(attrs, "peripheries=2")
	}
	if step != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", step), "penwidth=2")
	}
	return attrs
}

// stepLabels maps each routed node to "#k" (or "a#k" with several agents).
func stepLabels(routes []Route) map[string]string {
	out := make(map[string]string)
	for i, r := range routes {
		for j, id := range r.Nodes {
			if len(routes) > 1 {
				out[id] = fmt.Sprintf("%c#%d", 'A'+rune(i), j+1)
			} else {
				out[id] = fmt.Sprintf("#%d", j+1)
			}
		}
	}
	return out
}

type tunnel struct {
	from, to string
	both     bool
}

// tunnels lists each tunnel once; a pair running both ways is reported from
// the endpoint loaded first.
func tunnels(net *network.Network) []tunnel {
	seen := make(map[[2]string]bool)
	var out []tunnel
	for _, n := range net.Nodes() {
		for _, to := range n.Tunnels {
			if seen[[2]string{n.ID, to}] {
				continue
			}
			back := false
			if m, ok := net.Lookup(to); ok {
				for _, t := range m.Tunnels {
					if t == n.ID {
						back = true
						break
					}
				}
			}
			seen[[2]string{n.ID, to}] = true
			if back {
				seen[[2]string{to, n.ID}] = true
			}
			out = append(out, tunnel{from: n.ID, to: to, both: back})
		}
	}
	return out
}
