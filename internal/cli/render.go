package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ventgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: dot, svg, png, pdf
	route    bool     // highlight the single-agent route
	detailed bool     // label zero-rate valves too
	start    string
	minutes  int
	refresh  bool
	cache    cacheFlags
}

// renderCommand creates the render command for generating network diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		start:   pipeline.DefaultStart,
		minutes: pipeline.DefaultBudget,
	}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a network diagram",
		Long: `Render draws the network as a node-link diagram. Working valves are filled and
labeled with their rate; the start valve has a double outline. With --route the
single-agent activation order is overlaid as numbered dashed legs.

PNG and PDF output need rsvg-convert on PATH.

Examples:
  ventgraph render input.txt
  ventgraph render cave.json --route -o cave.svg
  ventgraph render cave.json -f dot,svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.route, "route", false, "highlight the single-agent route")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label every valve, including zero-rate ones")
	cmd.Flags().StringVarP(&opts.start, "start", "s", opts.start, "start valve")
	cmd.Flags().IntVarP(&opts.minutes, "minutes", "m", opts.minutes, "minutes for the highlighted route")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached diagrams and results")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	net, _, err := runner.ParseWithCacheInfo(ctx, input, opts.refresh)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Start:     opts.start,
		Budget:    opts.minutes,
		SkipSplit: true,
		Refresh:   opts.refresh,
		Formats:   opts.formats,
		Detailed:  opts.detailed,
		Highlight: opts.route,
		Logger:    loggerFromContext(ctx),
	}

	spinner := newSpinner(ctx, os.Stderr, "Rendering...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, net, nil, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	status := iconFresh
	if hit {
		status = iconCached
	}
	printSuccess("Rendered %d valves %s", net.Len(), StyleDim.Render("("+status+")"))
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output verbatim when given; otherwise every format gets base.<format>.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
