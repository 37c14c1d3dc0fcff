// Package transform turns raw analysis output into a clean canonical graph.
//
// # Identifier Normalization
//
// [Normalize] reconciles identifiers coming from different sources. A
// backend run typically reports absolute paths inside a temp checkout and
// short, ambiguous symbol names; a local scan reports absolute paths under
// the repository root. Normalization produces:
//
//	function/class  -> "<filePath>::<name>"   (or the bare name, or the raw id)
//	file/dir/module -> the file path, temp prefix stripped, forward slashes
//
// Edge endpoints resolve through the raw id map first and then through the
// display-name map. Names are not unique: the first node registered under a
// name wins, in raw input order. Edges that still do not resolve are
// dropped. That is the only place the stage loses data.
//
// Depth comes from a fixed table (module 0, file 1, class 2, function 3),
// then from an explicit "depth" property, then from the path segment count.
//
// # Hierarchy Reconstruction
//
// [ReconstructHierarchy] fills in the directory nodes that flat input
// implies and links them with contains edges:
//
//	src/ui/button.ts  =>  src -> src/ui -> src/ui/button.ts
//
// Ancestors are created before descendants with an iterative walk, so deep
// nesting does not grow the stack. The stage is additive and idempotent.
// Depths are then lifted top-down so no node ranks above its container;
// the normalizer's table value is a floor.
//
// # Usage
//
//	norm := transform.Normalize(raw, transform.NormalizeOptions{})
//	g, _ := transform.ReconstructHierarchy(norm.Graph)
package transform
