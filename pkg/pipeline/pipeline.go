// Package pipeline provides the parse → solve → render pipeline for ventgraph.
//
// The CLI and the HTTP API both run valve networks through this package, so
// defaults, validation and caching behave the same on every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a scan report, JSON or TOML file into a [network.Network]
//  2. Solve: build the distance table and run the single-agent search and,
//     unless skipped, the two-agent split
//  3. Render: draw the network with the solved routes as DOT, SVG, PNG or PDF
//
// Each stage can be run on its own; every stage caches its output through
// a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	net, err := runner.Parse(ctx, "input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, net, pipeline.Options{Routes: true})
//	fmt.Println(result.Single.Value, result.Split.Value)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ventgraph/pkg/cache"
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStart is the node both agents start from.
	DefaultStart = "AA"

	// DefaultBudget is the single agent's time budget in minutes.
	DefaultBudget = 30

	// DefaultSplitBudget is each agent's budget when two agents share the
	// work. Four minutes go to training the second agent.
	DefaultSplitBudget = 26
)

// Format constants for render outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solve options
	Start       string `json:"start,omitempty"`
	Budget      int    `json:"budget,omitempty"`
	SplitBudget int    `json:"split_budget,omitempty"`
	SkipSplit   bool   `json:"skip_split,omitempty"`
	Routes      bool   `json:"routes,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Highlight bool     `json:"highlight,omitempty"` // overlay the solved routes

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// MaxSplitPositives rejects the two-agent split when the network has
	// more positive-rate nodes than this. Zero means no limit.
	MaxSplitPositives int `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a solve run.
type Result struct {
	// RunID identifies this run; it is fresh even when the result is cached.
	RunID string `json:"run_id"`

	// NetworkHash is the content hash of the solved network.
	NetworkHash string `json:"network_hash"`

	Start  string     `json:"start"`
	Single Plan       `json:"single"`
	Split  *SplitPlan `json:"split,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Plan is the single-agent outcome.
type Plan struct {
	Budget int           `json:"budget"`
	Value  int           `json:"value"`
	Route  []search.Step `json:"route,omitempty"`
}

// SplitPlan is the two-agent outcome.
type SplitPlan struct {
	Budget     int          `json:"budget"`
	Value      int          `json:"value"`
	Partitions int          `json:"partitions"`
	Agents     [2]AgentPlan `json:"agents"`
}

// AgentPlan is one agent's share of a split.
type AgentPlan struct {
	Nodes []string      `json:"nodes"` // positive-rate nodes assigned to the agent
	Value int           `json:"value"`
	Route []search.Step `json:"route,omitempty"`
}

// Stats contains solve statistics.
type Stats struct {
	Nodes       int           `json:"nodes"`
	Tunnels     int           `json:"tunnels"`
	Positives   int           `json:"positives"`
	Origins     int           `json:"origins"`
	MemoEntries int           `json:"memo_entries"`
	TableTime   time.Duration `json:"table_time"`
	SolveTime   time.Duration `json:"solve_time"`
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	ParseHit  bool `json:"parse_hit"`
	ResultHit bool `json:"result_hit"`
	RenderHit bool `json:"render_hit"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve applies solve defaults and rejects negative budgets.
// A zero budget means "use the default".
func (o *Options) ValidateForSolve() error {
	if err := errs.ValidateBudget("budget", o.Budget); err != nil {
		return err
	}
	if err := errs.ValidateBudget("split_budget", o.SplitBudget); err != nil {
		return err
	}
	if o.Start == "" {
		o.Start = DefaultStart
	}
	if err := errs.ValidateNodeID(o.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if o.Budget == 0 {
		o.Budget = DefaultBudget
	}
	if o.SplitBudget == 0 {
		o.SplitBudget = DefaultSplitBudget
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResultKeyOpts returns cache key options for a solve result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Start:       o.Start,
		Budget:      o.Budget,
		SplitBudget: o.SplitBudget,
		SkipSplit:   o.SkipSplit,
		Routes:      o.Routes,
	}
}

// ArtifactKeyOpts returns cache key options for a rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Detailed:  o.Detailed,
		Highlight: o.Highlight,
	}
	if o.Highlight {
		k.Result = o.ResultKeyOpts()
	}
	return k
}
