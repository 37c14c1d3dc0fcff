// Package layout computes node coordinates for a graph.
//
// A [Strategy] maps a list of sized [Node] values and their [Edge] values to
// a [Result] holding one top-left [Position] per node. Strategies are
// independent and swappable; [Get] looks one up by name:
//
//	layered         Sugiyama-style ranks, top to bottom
//	layered-lr      the same, left to right
//	advanced        graphviz dot, falling back to layered
//	advanced-force  graphviz fdp, falling back to layered
//	by-file         files in a column with their symbols indented below
//	by-module       outline of the directory tree
//	dependency      left-to-right layered over call and import edges
//	force           seeded spring-electrical simulation
//
// Every strategy is total: it returns exactly one position per distinct
// input ID, including for empty and single-node graphs, and it never
// modifies its arguments.
//
// The graphviz strategies implement [AsyncStrategy]. They run the engine on
// a separate goroutine, honor context cancellation and report on
// [AsyncResult] when the layered fallback produced the result.
//
// [Project] and [Apply] convert between canonical graph nodes and layout
// nodes using [DefaultSize].
package layout
