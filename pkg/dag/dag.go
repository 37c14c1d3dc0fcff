package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] for an edge from a node to
	// itself. Layered layouts cannot rank such edges.
	ErrSelfLoop = errors.New("self loop")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge does
	// not connect adjacent rows (From.Row+1 != To.Row).
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeKind distinguishes real vertices from dummies inserted while
// subdividing long edges.
type NodeKind int

const (
	// NodeKindRegular is a vertex from the input graph.
	NodeKindRegular NodeKind = iota
	// NodeKindDummy is a synthetic vertex on a long edge. Dummies have
	// MasterID set to the edge's original source.
	NodeKindDummy
)

// Node is a vertex with an assigned row (layer) and a size.
type Node struct {
	ID     string
	Row    int
	Width  float64
	Height float64

	Kind     NodeKind
	MasterID string
}

// IsDummy reports whether the node was inserted to break a long edge.
func (n Node) IsDummy() bool { return n.Kind == NodeKindDummy }

// Edge is a directed connection between two nodes.
type Edge struct {
	From string
	To   string

	// Reversed marks an edge flipped to break a cycle.
	Reversed bool
}

// DAG is a directed graph organized into rows for layered layout. Node
// iteration follows insertion order so layouts are reproducible.
//
// The zero value is not usable; call [New]. DAG is not safe for concurrent
// use.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. IDs must be non-empty and unique.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	d.nodes[n.ID] = &node
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing, distinct nodes.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes every edge from→to.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// ReverseEdge replaces every edge from→to with to→from, marked Reversed.
// Reversing twice restores the original direction and clears the mark.
func (d *DAG) ReverseEdge(from, to string) {
	var reversed []Edge
	for _, e := range d.edges {
		if e.From == from && e.To == to {
			reversed = append(reversed, Edge{From: to, To: from, Reversed: !e.Reversed})
		}
	}
	d.RemoveEdge(from, to)
	for _, e := range reversed {
		d.edges = append(d.edges, e)
		d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
		d.incoming[e.To] = append(d.incoming[e.To], e.From)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the targets of id's outgoing edges. Read-only.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of id's incoming edges. Read-only.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes without incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// MaxRow returns the highest row index, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	max := 0
	for _, n := range d.nodes {
		if n.Row > max {
			max = n.Row
		}
	}
	return max
}

// Rows groups node IDs by row. Index i holds row i in insertion order.
func (d *DAG) Rows() [][]string {
	if len(d.order) == 0 {
		return nil
	}
	rows := make([][]string, d.MaxRow()+1)
	for _, id := range d.order {
		r := d.nodes[id].Row
		rows[r] = append(rows[r], id)
	}
	return rows
}

// Validate checks that every edge connects consecutive rows and that the
// graph is acyclic.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if d.nodes[e.To].Row != d.nodes[e.From].Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	if HasCycle(d) {
		return ErrGraphHasCycle
	}
	return nil
}

// HasCycle reports whether d contains a directed cycle. It uses Kahn's
// algorithm, so it needs no recursion.
func HasCycle(d *DAG) bool {
	inDegree := make(map[string]int, len(d.nodes))
	var queue []string
	for _, id := range d.order {
		inDegree[id] = len(d.incoming[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	seen := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		seen++
		for _, c := range d.outgoing[id] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return seen != len(d.nodes)
}

// PosMap maps each ID in ids to its index.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
