package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	start        string
	minutes      int
	splitMinutes int
	noSplit      bool
	routes       bool
	jsonOut      bool
	interactive  bool
	refresh      bool
	cache        cacheFlags
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{
		start:        pipeline.DefaultStart,
		minutes:      pipeline.DefaultBudget,
		splitMinutes: pipeline.DefaultSplitBudget,
	}

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Compute the most pressure releasable alone and with a partner",
		Long: `Solve reads a network file (scan report, JSON or TOML) and prints two values:
the most pressure one agent can release within --minutes, and the most two
agents working disjoint valve sets can release within --split-minutes.

Examples:
  ventgraph solve input.txt
  ventgraph solve cave.json --start AA --minutes 30 --routes
  ventgraph solve cave.toml --no-split --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.start, "start", "s", opts.start, "start valve")
	cmd.Flags().IntVarP(&opts.minutes, "minutes", "m", opts.minutes, "minutes available to a single agent")
	cmd.Flags().IntVar(&opts.splitMinutes, "split-minutes", opts.splitMinutes, "minutes available to each of two agents")
	cmd.Flags().BoolVar(&opts.noSplit, "no-split", false, "skip the two-agent search")
	cmd.Flags().BoolVarP(&opts.routes, "routes", "r", false, "print the activation order")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the start valve interactively")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	net, parseHit, err := runner.ParseWithCacheInfo(ctx, path, opts.refresh)
	if err != nil {
		return err
	}
	logger.Debug("parsed network", "path", path, "valves", net.Len(), "cached", parseHit)

	if opts.interactive {
		start, err := pickStart(net.Nodes(), opts.start)
		if err != nil {
			return err
		}
		if start == "" {
			printInfo("No start valve selected")
			return nil
		}
		opts.start = start
	}

	popts := pipeline.Options{
		Start:       opts.start,
		Budget:      opts.minutes,
		SplitBudget: opts.splitMinutes,
		SkipSplit:   opts.noSplit,
		Routes:      opts.routes,
		Refresh:     opts.refresh,
		Logger:      logger,
	}

	stop := func() {}
	if !opts.jsonOut {
		spinner := newSpinner(ctx, os.Stderr, "Building distance table...")
		observability.SetSolveHooks(spinnerHooks{s: spinner})
		spinner.Start()
		stop = func() {
			spinner.Stop()
			observability.SetSolveHooks(observability.NoopSolveHooks{})
		}
	}
	res, err := runner.Execute(ctx, net, popts)
	stop()
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printSuccess("Solved %s", path)
	printStats(res.Stats, res.CacheInfo.ResultHit)
	printNewline()
	printResult(res)
	if !opts.routes {
		printNewline()
		printNextStep("Show routes", "ventgraph solve "+path+" --routes")
	}
	return nil
}
