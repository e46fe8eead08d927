// Package cli implements the ventgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ventgraph/pkg/buildinfo"
	"github.com/matzehuels/ventgraph/pkg/cache"
	"github.com/matzehuels/ventgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ventgraph"

	// envRedisAddr and envMongoURI back the remote cache flags.
	envRedisAddr = "VENTGRAPH_REDIS_ADDR"
	envMongoURI  = "VENTGRAPH_MONGO_URI"

	// cachePrefix namespaces keys in shared cache backends.
	cachePrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ventgraph plans valve activations under a time budget",
		Long: `Ventgraph reads a network of valves and tunnels and computes the most pressure
that can be released in a fixed number of minutes, alone or with a partner
working a disjoint set of valves.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Flags & Runner Factory
// =============================================================================

// cacheFlags selects and configures the cache backend.
type cacheFlags struct {
	noCache   bool
	backend   string
	redisAddr string
	mongoURI  string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.backend, "cache", string(cache.BackendFile), "cache backend: file, redis, mongo, none")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "redis address (default $"+envRedisAddr+")")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "mongodb URI (default $"+envMongoURI+")")
}

// config resolves flags and environment into a cache configuration.
// A file backend without a resolvable home directory degrades to none.
func (f *cacheFlags) config() cache.Config {
	if f.noCache {
		return cache.Config{Backend: cache.BackendNone}
	}
	cfg := cache.Config{
		Backend: cache.Backend(f.backend),
		Addr:    firstNonEmpty(f.redisAddr, os.Getenv(envRedisAddr)),
		URI:     firstNonEmpty(f.mongoURI, os.Getenv(envMongoURI)),
		Prefix:  cachePrefix,
	}
	if cfg.Backend == cache.BackendFile || cfg.Backend == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.Config{Backend: cache.BackendNone}
		}
		cfg.Dir = dir
	}
	return cfg
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cfg := flags.config()
	cc, err := cache.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache opened", "backend", cfg.Backend)
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ventgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
