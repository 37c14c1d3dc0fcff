// Package graph defines the data model shared by every stage of the
// layout pipeline: raw backend input, canonical nodes and edges, and the
// positioned output handed to renderers.
//
// # Core Types
//
//   - [RawGraph], [RawNode], [RawEdge]: input as delivered by an analysis
//     backend or a local scan, with inconsistent identifiers
//   - [Graph], [Node], [Edge]: canonical snapshot after normalization
//   - [Layout], [PositionedNode]: coordinates plus cluster summaries
//
// # Vocabulary
//
// Raw type strings are case-insensitive. [ParseNodeType] accepts "File",
// "Function", "Class", "Module", "Directory" and a few aliases.
// [ParseEdgeType] maps the backend relationship names:
//
//	CONTAINS -> contains
//	DEFINES  -> contains
//	IMPORTS  -> imports
//	CALLS    -> calls
//	INHERITS -> inherits
//
// # Raw Properties
//
// Backend nodes carry a properties bag. Recognized keys:
//
//	file_path   source path (may include a temp checkout prefix)
//	name        display name of the symbol or file
//	parent_id   raw id of the owning node
//	start_line  first line of the symbol
//	end_line    last line of the symbol
//	depth       explicit hierarchy rank
//
// # Serialization
//
//	raw, _ := graph.ReadRawFile("analysis.json")  // File -> RawGraph
//	graph.WriteGraphFile(g, "canonical.json")      // Graph -> File
//	data, _ := graph.MarshalLayout(layout)         // Layout -> []byte
package graph
