package search

import (
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
)

// Engine evaluates search states over a distance table, memoizing every
// state it settles.
type Engine struct {
	tbl  *network.Table
	memo *Memo
}

// New returns an engine over tbl. A nil memo starts a fresh one.
func New(tbl *network.Table, memo *Memo) *Engine {
	if memo == nil {
		memo = NewMemo()
	}
	return &Engine{tbl: tbl, memo: memo}
}

// Table returns the distance table the engine reads.
func (e *Engine) Table() *network.Table { return e.tbl }

// Memo returns the engine's memo.
func (e *Engine) Memo() *Memo { return e.memo }

// Evaluate returns the best value reachable from the given state.
//
// Every destination of node whose bit is clear in visited is a branch. Moving
// there and activating it costs distance+1 minutes; a branch left with no
// minutes is pruned. Otherwise the destination accrues rate*remaining and the
// search continues from it. The result is the best branch, or 0 if none is
// viable.
func (e *Engine) Evaluate(time, node int, visited network.Mask) int {
	k := Key{Time: time, Node: node, Mask: visited}
	if v, ok := e.memo.lookup(k); ok {
		return v
	}

	best := 0
	for _, h := range e.tbl.Hops(node) {
		if visited.Has(h.Bit) {
			continue
		}
		left := time - h.Distance - 1
		if left <= 0 {
			continue
		}
		if v := h.Rate*left + e.Evaluate(left, h.Node, visited.With(h.Bit)); v > best {
			best = v
		}
	}

	e.memo.store(k, best)
	return best
}

// EvaluateFrom is [Engine.Evaluate] addressed by node identity. It fails
// with NOT_FOUND_START if id is not a distance-table origin.
func (e *Engine) EvaluateFrom(time int, id string, visited network.Mask) (int, error) {
	p, ok := e.tbl.Network().Position(id)
	if !ok || !e.tbl.IsOrigin(p) {
		return 0, errs.New(errs.ErrCodeStartNotFound, "node %q has no distance field", id)
	}
	return e.Evaluate(time, p, visited), nil
}

// Step is one activation along a route.
type Step struct {
	Node      string `json:"node"`
	Distance  int    `json:"distance"`
	Remaining int    `json:"remaining"` // minutes left after activation
	Gain      int    `json:"gain"`      // rate * Remaining
}

// Route replays the memo from the given state and returns the activations
// that achieve [Engine.Evaluate]'s value. Ties go to the first hop in table
// order.
func (e *Engine) Route(time, node int, visited network.Mask) []Step {
	var route []Step
	for {
		best := e.Evaluate(time, node, visited)
		if best == 0 {
			return route
		}
		for _, h := range e.tbl.Hops(node) {
			if visited.Has(h.Bit) {
				continue
			}
			left := time - h.Distance - 1
			if left <= 0 {
				continue
			}
			gain := h.Rate * left
			if gain+e.Evaluate(left, h.Node, visited.With(h.Bit)) != best {
				continue
			}
			route = append(route, Step{
				Node:      e.tbl.Network().ID(h.Node),
				Distance:  h.Distance,
				Remaining: left,
				Gain:      gain,
			})
			time, node, visited = left, h.Node, visited.With(h.Bit)
			break
		}
	}
}
