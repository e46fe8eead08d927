package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ventgraph/pkg/server"
)

const defaultAddr = ":8080"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	timeout  time.Duration
	maxBody  int64
	maxSplit int
	cache    cacheFlags
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     defaultAddr,
		timeout:  time.Minute,
		maxBody:  server.DefaultMaxBody,
		maxSplit: server.DefaultMaxSplitPositives,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve exposes solving over HTTP:

  GET  /healthz
  POST /v1/solve       {"nodes": [...], "options": {...}}
  POST /v1/distances   {"nodes": [...], "start": "AA"}
  POST /v1/render      {"nodes": [...], "format": "svg", "options": {...}}

Use --cache redis or --cache mongo to share results between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "request body limit in bytes")
	cmd.Flags().IntVar(&opts.maxSplit, "max-split", opts.maxSplit, "most positive-rate valves a request may split between two agents (0 for no limit)")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger,
		server.WithTimeout(opts.timeout),
		server.WithMaxBody(opts.maxBody),
		server.WithMaxSplitPositives(opts.maxSplit))

	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, context.Canceled) {
		c.Logger.Info("server stopped")
		return nil
	}
	return err
}
