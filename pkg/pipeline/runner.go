package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ventgraph/pkg/cache"
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/scan"
)

// Cache key types reported to hooks.
const (
	keyTypeNetwork  = "network"
	keyTypeResult   = "result"
	keyTypeDistance = "distances"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute solves net with caching. Cached results get a fresh RunID and
// CacheInfo.ResultHit set.
func (r *Runner) Execute(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.ResultKey(scan.Hash(net), opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, key); ok {
			res.RunID = uuid.NewString()
			res.CacheInfo = CacheInfo{ResultHit: true}
			r.Logger.Info("solved (cached)",
				"single", res.Single.Value,
				"split", splitValue(res),
				"run", res.RunID)
			return res, nil
		}
	}

	res, err := Solve(ctx, net, opts)
	if err != nil {
		return nil, err
	}
	res.RunID = uuid.NewString()

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, key, keyTypeResult, data, cache.TTLResult)
	}

	r.Logger.Info("solved",
		"single", res.Single.Value,
		"split", splitValue(res),
		"memo", res.Stats.MemoEntries,
		"duration", res.Stats.TableTime+res.Stats.SolveTime,
		"run", res.RunID)
	return res, nil
}

func (r *Runner) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// fall through to recompute
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	return &res, true
}

// ParseWithCacheInfo reads the network file at path. The canonical JSON of a
// parsed network is cached under the hash of the raw file content.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, path string, refresh bool) (*network.Network, bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	format := scan.DetectFormat(path)
	key := r.Keyer.NetworkKey(cache.InputHash(string(format), raw))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if net, err := scan.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeNetwork)
				return net, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeNetwork)
	}

	net, err := scan.Read(bytes.NewReader(raw), format)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}
	r.store(ctx, key, keyTypeNetwork, scan.Canonical(net), cache.TTLNetwork)

	r.Logger.Debug("parsed network",
		"path", path,
		"format", format,
		"nodes", net.Len(),
		"positives", net.PositiveCount())
	return net, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Parse(ctx context.Context, path string) (*network.Network, error) {
	net, _, err := r.ParseWithCacheInfo(ctx, path, false)
	return net, err
}

// Distances returns the distance table of net from start, cached by network
// hash and start node.
func (r *Runner) Distances(ctx context.Context, net *network.Network, start string) (map[string]map[string]int, error) {
	if start == "" {
		start = DefaultStart
	}
	key := r.Keyer.DistanceKey(scan.Hash(net), start)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var m map[string]map[string]int
		if json.Unmarshal(data, &m) == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeDistance)
			return m, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeDistance)

	m, err := Distances(net, start)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(m); err == nil {
		r.store(ctx, key, keyTypeDistance, data, cache.TTLDistance)
	}
	return m, nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func splitValue(res *Result) any {
	if res.Split == nil {
		return "skipped"
	}
	return res.Split.Value
}
