// Package pkg provides the core libraries for orbit, an incremental
// force-directed layout engine for interactive node-link diagrams.
//
// # Overview
//
// orbit keeps a set of categorised nodes floating around their home
// positions on a canvas. One node may be pinned as the anchor and springs
// to the canvas centre; everything else drifts gently, repels its
// neighbours and stays inside the canvas bounds. The node set itself is
// owned by the caller and can change at any time: the engine reconciles
// new snapshots without disturbing nodes that are still present.
//
// The pkg directory is organized into these areas:
//
//  1. [layout/force] - The simulation engine and its frame loop
//  2. [graph] - Snapshot and frame serialization
//  3. [settle] - Headless settling and rendering with caching
//  4. [session] - Long-lived interactive engines keyed by id
//  5. [source] - Snapshot storage (directories and MongoDB)
//  6. [render] - Output formats (DOT, SVG, PNG, PDF)
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (JSON file, MongoDB, API request)
//	         ↓
//	    [graph] package (validate + convert to node specs)
//	         ↓
//	    [layout/force] package (initialize, tick, drag, reconcile)
//	         ↓
//	    Frame (pixel positions)
//	         ↓
//	    JSON/DOT/SVG/PNG/PDF output
//
// # Quick Start
//
// Settle a snapshot and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/orbit/pkg/graph"
//	    "github.com/matzehuels/orbit/pkg/settle"
//	)
//
//	s, _ := graph.ReadSnapshotFile("team.json")
//	res, _ := settle.NewRunner(nil, nil, nil).Execute(context.Background(), s, settle.Options{
//	    Formats: []string{"svg"},
//	})
//	os.WriteFile("team.svg", res.Artifacts["svg"], 0o644)
//
// Drive the engine directly:
//
//	e := force.New(force.DefaultParams())
//	e.Initialize(s.ToSpecs(), force.Size{Width: 800, Height: 600})
//	for range 120 {
//	    e.Tick(1.0 / 60)
//	}
//	positions := e.Positions()
//
// # Infrastructure
//
// [cache] - Cache backends (null, file, Redis) behind one interface with
// typed keys and observability hooks.
//
// [config] - TOML configuration for canvas, physics and backends.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hook registry for engine, settle, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/force/...       # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/layout/force
// [graph]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/graph
// [settle]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/settle
// [session]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/session
// [source]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/orbit/pkg/buildinfo
package pkg
