package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/scan"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output  string // output file path (stdout if empty)
	format  string // output format: json, toml, report
	refresh bool
	cache   cacheFlags
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{format: string(scan.FormatJSON)}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Normalize a network file",
		Long: `Parse reads a scan report, JSON or TOML network file, validates it, and writes
it back out in the requested format. JSON output is canonical: the form used
for cache keys and accepted by the HTTP API.

Examples:
  ventgraph parse input.txt -o cave.json
  ventgraph parse cave.json --format toml
  ventgraph parse cave.toml --format report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, toml, report")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the parse cache")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runParse(ctx context.Context, path string, opts parseOpts) error {
	format := scan.Format(opts.format)
	if err := validateOutputFormat(format); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	net, hit, err := runner.ParseWithCacheInfo(ctx, path, opts.refresh)
	if err != nil {
		return err
	}
	prog.done("Parsed "+path, "valves", net.Len(), "cached", hit)

	if opts.output == "" {
		return writeNetwork(net, format, os.Stdout)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeNetwork(net, format, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Parsed %d valves", net.Len())
	printFile(opts.output)
	printNextStep("Solve it", "ventgraph solve "+opts.output)
	return nil
}

func validateOutputFormat(f scan.Format) error {
	switch f {
	case scan.FormatJSON, scan.FormatTOML, scan.FormatReport:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid output format %q (must be json, toml or report)", f)
}

// writeNetwork writes net to w in format f.
func writeNetwork(net *network.Network, f scan.Format, w io.Writer) error {
	switch f {
	case scan.FormatTOML:
		return scan.WriteTOML(net, w)
	case scan.FormatReport:
		return scan.WriteReport(net, w)
	default:
		return scan.WriteJSON(net, w)
	}
}
