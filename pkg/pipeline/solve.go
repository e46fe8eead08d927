package pipeline

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/scan"
	"github.com/matzehuels/ventgraph/pkg/search"
)

// Search modes reported to hooks and logs.
const (
	ModeSingle = "single"
	ModeSplit  = "split"
)

// Solve builds the distance table and runs both searches without caching.
//
// The single-agent and two-agent searches each get their own memo. The
// single-agent search is not interruptible; ctx is checked before it and
// throughout the split.
func Solve(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	hooks := observability.Solve()
	fail := func(err error) (*Result, error) {
		hooks.OnSolveError(ctx, err)
		return nil, err
	}

	tableStart := time.Now()
	tbl, err := network.Build(net, opts.Start)
	if err != nil {
		return fail(fmt.Errorf("build table: %w", err))
	}
	tableTime := time.Since(tableStart)
	idx := tbl.Index()
	hooks.OnTableBuilt(ctx, net.Len(), tbl.Origins(), tableTime)
	opts.Logger.Debug("built distance table",
		"origins", tbl.Origins(),
		"positives", idx.Len(),
		"duration", tableTime)

	if !opts.SkipSplit && opts.MaxSplitPositives > 0 && idx.Len() > opts.MaxSplitPositives {
		return fail(errs.New(errs.ErrCodeCapacityExceeded,
			"split over %d positive-rate nodes exceeds the limit of %d", idx.Len(), opts.MaxSplitPositives))
	}

	res := &Result{
		NetworkHash: scan.Hash(net),
		Start:       opts.Start,
		Stats: Stats{
			Nodes:     net.Len(),
			Tunnels:   net.EdgeCount(),
			Positives: idx.Len(),
			Origins:   tbl.Origins(),
			TableTime: tableTime,
		},
	}
	start := tbl.Start()
	solveStart := time.Now()

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	phase := time.Now()
	hooks.OnSolveStart(ctx, ModeSingle, idx.Len())
	single := search.New(tbl, nil)
	res.Single = Plan{Budget: opts.Budget, Value: single.Evaluate(opts.Budget, start, 0)}
	if opts.Routes {
		res.Single.Route = single.Route(opts.Budget, start, 0)
	}
	res.Stats.MemoEntries = single.Memo().Len()
	hooks.OnSolveComplete(ctx, ModeSingle, res.Single.Value, single.Memo().Len(), time.Since(phase))
	opts.Logger.Debug("single agent solved",
		"value", res.Single.Value,
		"memo", single.Memo().Stats(),
		"duration", time.Since(phase))

	if !opts.SkipSplit {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		phase = time.Now()
		hooks.OnSolveStart(ctx, ModeSplit, idx.Len())
		pair := search.New(tbl, nil)
		sr, err := search.SplitContext(ctx, pair, opts.SplitBudget, start)
		if err != nil {
			return fail(err)
		}

		plan := &SplitPlan{Budget: opts.SplitBudget, Value: sr.Value, Partitions: sr.Partitions}
		var routes [2][]search.Step
		if opts.Routes {
			routes = pair.Routes(sr, opts.SplitBudget, start)
		}
		for i, a := range sr.Agents {
			plan.Agents[i] = AgentPlan{Nodes: idx.IDs(a.Assigned), Value: a.Value, Route: routes[i]}
		}
		res.Split = plan
		res.Stats.MemoEntries += pair.Memo().Len()
		hooks.OnSolveComplete(ctx, ModeSplit, sr.Value, pair.Memo().Len(), time.Since(phase))
		opts.Logger.Debug("two agents solved",
			"value", sr.Value,
			"partitions", sr.Partitions,
			"memo", pair.Memo().Stats(),
			"duration", time.Since(phase))
	}

	res.Stats.SolveTime = time.Since(solveStart)
	return res, nil
}

// Distances builds the distance table for net from start and returns it as
// origin → destination → distance.
func Distances(net *network.Network, start string) (map[string]map[string]int, error) {
	tbl, err := network.Build(net, start)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	return tbl.Map(), nil
}
