package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ventgraph/pkg/cache"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/render/nodelink"
	"github.com/matzehuels/ventgraph/pkg/scan"
	"github.com/matzehuels/ventgraph/pkg/search"
)

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// Render draws net in every format of opts.Formats. With opts.Highlight the
// single-agent route of res is overlaid; res may be nil otherwise.
func Render(ctx context.Context, net *network.Network, res *Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(net, DiagramOptions(res, opts))

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			if svg == nil {
				svg, err = nodelink.RenderSVG(ctx, dot)
			}
			data = svg
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// DiagramOptions maps pipeline options and a solve result to diagram options.
func DiagramOptions(res *Result, opts Options) nodelink.Options {
	d := nodelink.Options{Detailed: opts.Detailed, Start: opts.Start}
	if res != nil {
		d.Start = res.Start
	}
	if opts.Highlight && res != nil && len(res.Single.Route) > 0 {
		d.Routes = []nodelink.Route{routeOf(res.Single.Route)}
	}
	return d
}

func routeOf(steps []search.Step) nodelink.Route {
	r := nodelink.Route{
		Nodes:     make([]string, len(steps)),
		Distances: make([]int, len(steps)),
	}
	for i, s := range steps {
		r.Nodes[i] = s.Node
		r.Distances[i] = s.Distance
	}
	return r
}

// RenderWithCacheInfo renders with caching and reports whether every format
// came from the cache. opts.Refresh skips the artifact lookup. When opts.Highlight is set and res is nil, the network
// is solved first (itself through the cache).
func (r *Runner) RenderWithCacheInfo(ctx context.Context, net *network.Network, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if opts.Highlight {
		opts.Routes = true
		if err := opts.ValidateForSolve(); err != nil {
			return nil, false, err
		}
	}
	hash := scan.Hash(net)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	if opts.Highlight && (res == nil || res.Single.Route == nil) {
		var err error
		if res, err = r.Execute(ctx, net, opts); err != nil {
			return nil, false, err
		}
	}

	start := time.Now()
	rendered, err := Render(ctx, net, res, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.store(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)), keyTypeArtifact, data, cache.TTLArtifact)
	}

	r.Logger.Info("rendered diagram",
		"formats", opts.Formats,
		"duration", time.Since(start))
	return rendered, false, nil
}

// RenderArtifacts is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) RenderArtifacts(ctx context.Context, net *network.Network, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, net, res, opts)
	return artifacts, err
}
