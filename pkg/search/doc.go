// Package search finds the most valuable activation order over a
// [network.Table].
//
// A search state is the number of minutes left, the current node and the set
// of positive-rate nodes already activated. [Engine.Evaluate] explores every
// unactivated destination whose travel-plus-activation cost still leaves time
// on the clock and keeps the best total. Results are memoized per state in a
// [Memo] so that repeated sub-problems, which dominate the two-agent search,
// are solved once.
//
// [Split] handles two agents working in parallel: it enumerates every way to
// divide the positive-rate nodes between them and evaluates each side
// independently on the same memo.
//
//	tbl, _ := network.Build(net, "AA")
//	e := search.New(tbl, nil)
//	single := e.Evaluate(30, tbl.Start(), 0)
//	pair := search.Split(e, 26, tbl.Start()).Value
package search
