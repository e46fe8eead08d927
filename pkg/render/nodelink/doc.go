// Package nodelink draws valve networks as node-link diagrams.
//
// [ToDOT] emits Graphviz DOT source for a [network.Network]: valves with a
// positive rate are filled, zero-rate corridors are small grey ellipses and
// the start node has a double border. Tunnels that run both ways collapse to
// a single undirected edge.
//
// Routes returned by the search can be overlaid with [Options.Routes]. Each
// route is drawn as a chain of colored dashed legs from the start node
// through its activations, labeled with the leg's travel distance, and every
// activated valve gets its step number.
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Start: "AA", Routes: routes})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG go through [render.ToPDF] and
// [render.ToPNG].
package nodelink
