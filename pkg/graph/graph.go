package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a canonical graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a canonical graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a canonical graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadRaw decodes raw graph data from an io.Reader. Numbers inside
// property bags are kept as json.Number so line numbers survive intact.
func ReadRaw(r io.Reader) (RawGraph, error) {
	var g RawGraph
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&g); err != nil {
		return RawGraph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// ReadRawFile reads raw graph data from a JSON file.
func ReadRawFile(path string) (RawGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawGraph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRaw(f)
}

// UnmarshalRaw deserializes JSON bytes to a RawGraph.
func UnmarshalRaw(data []byte) (RawGraph, error) {
	return ReadRaw(bytes.NewReader(data))
}

// ReadGraph decodes a canonical graph from an io.Reader.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}
