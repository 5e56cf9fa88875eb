// Package pkg provides the core libraries of pipelinedag: validation and
// layered layout for pipeline DAGs.
//
// # Overview
//
// A pipeline is a set of steps (nodes) and directed dependencies (edges)
// that is expected to form a connected DAG. The libraries answer two
// questions about such a graph: is it structurally sound, and where should
// each step be drawn?
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML graph
//	         ↓
//	    [graph] package (types, decoding, canonical hashing)
//	         ↓
//	    [validate] package (errors, warnings and info about the structure)
//	         ↓
//	    [layout] package (Sugiyama layers, ordering, coordinates)
//	         ↓
//	    positions + edge anchor sides
//
// [pipeline] ties the two engines together with caching and is the entry
// point used by the CLI and the HTTP server.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pipelinedag/pkg/graph"
//	    "github.com/matzehuels/pipelinedag/pkg/pipeline"
//	)
//
//	g, _ := graph.ReadFile("etl.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	if report := runner.Validate(ctx, g); !report.Valid {
//	    fmt.Println(report.Summary())
//	}
//
//	res, _, _ := runner.Layout(ctx, g, pipeline.Options{Direction: "LR"})
//
// # Main Packages
//
// [graph] - Node, edge and direction types. Files are JSON or YAML and
// [graph.Graph.Hash] gives an order-insensitive content hash.
//
// [validate] - The validation engine. It never fails: every structural
// problem is reported as a message.
//
// [layout] - The layout engine, sizing presets, the [layout.Provider]
// interface and the coordinator that keeps stale layouts from being
// applied.
//
//   - [layout/sugiyama]: the default provider
//   - [layout/graphviz]: Graphviz dot as an alternative provider
//   - [layout/ordering]: crossing minimisation within ranks
//
// [dag] - The indexed layered graph the Sugiyama provider works on.
//
// [dag/transform] - Cycle breaking, rank assignment, transitive reduction
// and edge subdivision. [transform.Normalize] runs them in order.
//
// ## Infrastructure
//
// [cache] - Layout caching with file, Redis and null backends.
//
// [observability] - Hooks for metrics, with a Prometheus implementation in
// [observability/prom].
//
// [errors] - Error codes shared by every entry point.
//
// # Testing
//
//	go test ./...                  # All tests
//	go test -short ./...           # Skip tests that dial the network
//	go test -run Example ./pkg/... # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/graph
// [graph.Graph.Hash]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/graph#Graph.Hash
// [validate]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/validate
// [layout]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/layout
// [layout.Provider]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/layout#Provider
// [layout/sugiyama]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/layout/sugiyama
// [layout/graphviz]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/layout/graphviz
// [layout/ordering]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/layout/ordering
// [dag]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/dag/transform
// [transform.Normalize]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/dag/transform#Normalize
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipelinedag/pkg/errors
package pkg
