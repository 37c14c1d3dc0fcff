// Package pkg holds the archmind libraries: the stages that turn raw code
// graphs from an analysis backend into positioned node/edge data.
//
// # Data Flow
//
//	raw nodes/edges (backend JSON or local scan)
//	         ↓
//	    [graph/transform] Normalize: canonical ids, types, depths, resolved edges
//	         ↓
//	    [graph/transform] ReconstructHierarchy: directory ancestors + contains edges
//	         ↓
//	    [cluster] Build + Filter: collapsible directory clusters
//	         ↓
//	    [layout] Strategy: coordinates (layered, graphviz, tree, force)
//	         ↓
//	    [graph] Layout JSON
//
// [pipeline] runs these stages with caching ([cache]) and reports to
// [observability] hooks. [state] persists cluster expand/collapse flags per
// repository. [server] and the archmind CLI are the entry points.
//
// # Quick Start
//
//	raw, _ := graph.ReadRawFile("graph.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, raw, pipeline.Options{Strategy: "layered", Cluster: true})
//	if err != nil {
//	    return err
//	}
//	_ = graph.WriteLayoutFile(res.Layout, "graph.layout.json")
//
// # Packages
//
// [graph] - Raw input, canonical graph and layout types plus path helpers.
//
// [graph/transform] - Identifier normalization and hierarchy reconstruction.
//
// [cluster] - Directory clusters, visibility filtering and ClusterState.
//
// [dag] and [dag/transform] - Row-based DAG used by the layered strategy:
// cycle breaking, longest-path layering and edge subdivision.
//
// [layout] - Layout strategies and the strategy registry.
//
// [state] - ClusterState persistence (memory, file, badger, redis, mongo).
//
// [cache] - Layout result cache (file, redis, null).
//
// [config] - TOML/YAML configuration.
//
// [errors] - Coded errors and input validation.
//
// [graph]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/graph
// [graph/transform]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/graph/transform
// [cluster]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/cluster
// [dag]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/cache
// [state]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/state
// [config]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/config
// [errors]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/observability
// [server]: https://pkg.go.dev/github.com/Arch-Mind/frontend-sub001/pkg/server
package pkg
