// Package dag provides a directed graph organized into rows, used by the
// layered layout strategies.
//
// # Overview
//
// Layered (Sugiyama-style) drawing assigns every node a row and then orders
// each row to reduce edge crossings. This package holds the row-annotated
// graph those phases operate on; the [transform] subpackage implements the
// phases that make an arbitrary graph layerable.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "app", Width: 180, Height: 40})
//	g.AddNode(dag.Node{ID: "lib", Width: 180, Height: 40})
//	g.AddEdge(dag.Edge{From: "app", To: "lib"})
//
// Node iteration ([DAG.Nodes], [DAG.Rows], [DAG.Sources]) follows
// insertion order, which keeps every downstream layout deterministic.
//
// # Node Kinds
//
//   - [NodeKindRegular]: a vertex from the input graph
//   - [NodeKindDummy]: a synthetic vertex that breaks a long edge into
//     single-row hops; [Node.MasterID] names the edge's original source
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between
// adjacent rows with a Fenwick tree in O(E log V). [CountPairCrossings]
// evaluates a single adjacent swap for local refinement.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/Arch-Mind/frontend-sub001/pkg/dag/transform
package dag
