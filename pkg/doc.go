// Package pkg provides the libraries behind ventgraph.
//
// # Overview
//
// Ventgraph plans valve activations in a network of tunnels. Each valve has a
// flow rate; moving through a tunnel takes one minute and opening a valve takes
// one more. An opened valve releases rate × (minutes left) in total. The
// packages answer two questions: how much can one agent release within a
// budget, and how much can two agents release working disjoint valve sets.
//
//  1. [network] - Node registry, bit index and distance table
//  2. [search] - Memoized search, two-agent split and route replay
//  3. [scan] - Scan report, JSON and TOML readers and writers
//  4. [pipeline] - Orchestration (parse → solve → render) with caching
//  5. [cache] - File, Redis and MongoDB byte caches
//  6. [server] - HTTP API
//  7. [render/nodelink] - Network diagrams
//
// # Architecture
//
//	Scan report / JSON / TOML
//	         ↓
//	    [scan] package (parse and validate)
//	         ↓
//	    [network] package (registry, bit index, distance table)
//	         ↓
//	    [search] package (single agent, two-agent split, routes)
//	         ↓
//	    [render/nodelink] package (DOT, SVG, PDF, PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/ventgraph/pkg/network"
//	    "github.com/matzehuels/ventgraph/pkg/scan"
//	    "github.com/matzehuels/ventgraph/pkg/search"
//	)
//
//	net, _ := scan.ReadFile("input.txt")
//	tbl, _ := network.Build(net, "AA")
//	e := search.New(tbl, nil)
//	alone := e.Evaluate(30, tbl.Start(), 0)
//	together := search.Split(search.New(tbl, nil), 26, tbl.Start())
//
// The [pipeline] package wraps the same steps with option defaults,
// validation, observability hooks and a result cache:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, net, pipeline.Options{})
//	fmt.Println(res.Single.Value, res.Split.Value)
//
// [network]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/network
// [search]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/search
// [scan]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/scan
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/server
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/ventgraph/pkg/render/nodelink
package pkg
