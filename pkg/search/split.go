package search

import (
	"context"

	"github.com/matzehuels/ventgraph/pkg/network"
)

// checkEvery is how many partitions SplitContext evaluates between
// cancellation checks.
const checkEvery = 1 << 10

// Agent is one side of a two-agent partition.
type Agent struct {
	// Assigned holds the bits this agent may activate.
	Assigned network.Mask `json:"assigned"`
	Value    int          `json:"value"`
}

// SplitResult is the best two-agent partition found by [Split].
type SplitResult struct {
	Value      int      `json:"value"`
	Agents     [2]Agent `json:"agents"`
	Partitions int      `json:"partitions"`
}

// Split divides the positive-rate nodes between two agents that both start
// at start with total minutes each, and returns the partition with the
// highest combined value.
//
// Each half in 0..=full/2 is evaluated together with its complement, so every
// unordered partition is seen at least once. All evaluations share the
// engine's memo. The first maximum wins.
func Split(e *Engine, total, start int) SplitResult {
	res, _ := SplitContext(context.Background(), e, total, start)
	return res
}

// SplitContext is [Split] that stops with ctx.Err() once ctx is done. The
// partial result is discarded.
func SplitContext(ctx context.Context, e *Engine, total, start int) (SplitResult, error) {
	full := e.tbl.Index().Full()

	var res SplitResult
	first := true
	for half := network.Mask(0); half <= full/2; half++ {
		if half%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return SplitResult{}, err
			}
		}
		// an agent's visited mask is the set it may not touch
		a := e.Evaluate(total, start, half)
		b := e.Evaluate(total, start, full^half)
		res.Partitions++
		if first || a+b > res.Value {
			first = false
			res.Value = a + b
			res.Agents = [2]Agent{
				{Assigned: full ^ half, Value: a},
				{Assigned: half, Value: b},
			}
		}
	}
	return res, nil
}

// Routes reconstructs the activation order of both agents in r.
func (e *Engine) Routes(r SplitResult, total, start int) [2][]Step {
	full := e.tbl.Index().Full()
	var out [2][]Step
	for i, a := range r.Agents {
		out[i] = e.Route(total, start, full^a.Assigned)
	}
	return out
}
