package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Output
// =============================================================================

// Layout is the positioned graph handed to the rendering layer. Positions
// are authoritative; renderers must not recompute them.
//
// When clustering is active, Nodes mixes real nodes with collapsed cluster
// placeholders (Kind == KindPlaceholder) and Edges holds only edges whose
// endpoints are both visible.
type Layout struct {
	Strategy string           `json:"strategy"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Nodes    []PositionedNode `json:"nodes"`
	Edges    []Edge           `json:"edges"`
	Clusters []ClusterSummary `json:"clusters,omitempty"`
	Fallback bool             `json:"fallback,omitempty"`
}

// PositionedNode is a node with top-left coordinates and a size.
type PositionedNode struct {
	Node
	Kind   string  `json:"kind,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsPlaceholder reports whether the node stands in for a collapsed cluster.
func (n *PositionedNode) IsPlaceholder() bool { return n.Kind == KindPlaceholder }

// ClusterSummary describes a cluster and its current expand/collapse state.
type ClusterSummary struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	Collapsed bool   `json:"collapsed"`
	Total     int    `json:"total_count"`
	Files     int    `json:"file_count"`
	Functions int    `json:"function_count"`
	Classes   int    `json:"class_count"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
