// Package network holds the valve network and the precomputed structures the
// search runs on.
//
// # Overview
//
// A network is a list of [Node] records: an identity, a non-negative rate and
// the tunnels to neighboring nodes. Three structures are derived from it, in
// this order:
//
//  1. [Network]: the immutable registry, built with [New]
//  2. [BitIndex]: one bit per positive-rate node, built with [AssignBits]
//  3. [Table]: shortest tunnel distances between the start node, the
//     positive-rate nodes and each other, built with [BuildTable]
//
// Zero-rate nodes only matter as corridors. They are walked during the
// breadth-first traversals but never become destinations or mask bits.
//
// # Usage
//
//	net, err := network.New(nodes)
//	if err != nil {
//	    return err
//	}
//	tbl, err := network.Build(net, "AA") // AssignBits + BuildTable
//	if errors.IsConfiguration(err) {
//	    // start node missing or too many positive-rate nodes
//	}
//	d, ok := tbl.Distance("AA", "JJ")
//
// # Limits
//
// A [Mask] is 64 bits wide and [AssignBits] refuses more than [MaxIndexed]
// positive-rate nodes instead of truncating.
//
// # Concurrency
//
// All three structures are read-only after construction and safe for
// concurrent reads.
package network
