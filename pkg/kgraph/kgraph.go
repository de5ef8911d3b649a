package kgraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is matched by the error [Graph.AddEdge] returns
	// when the source node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is matched by the error [Graph.AddEdge] returns
	// when the target node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Defaults applied to attributes that are absent from ingested data.
const (
	DefaultLevel  = 1
	DefaultWeight = 1.0
)

// Node is a vertex of a knowledge graph.
//
// ID is immutable once the node is stored. The remaining attributes can only
// be replaced wholesale by upserting a node with the same ID.
type Node struct {
	ID       string   // Unique identifier
	Name     string   // Display label, may be empty
	Category Category // Semantic category; drives color and chain collapsing
	Level    int      // Layout layer (0 = top); not necessarily contiguous
	Weight   float64  // Marker size for presentation only
}

// Edge is a directed relationship From -> To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DanglingEdgeError reports an edge that was not inserted because one of its
// endpoints is missing from the graph. It is a diagnostic, not a failure: the
// graph is left unchanged and remains fully usable.
type DanglingEdgeError struct {
	From, To string
	Err      error // ErrUnknownSourceNode or ErrUnknownTargetNode
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %s->%s: %v", e.From, e.To, e.Err)
}

func (e *DanglingEdgeError) Unwrap() error { return e.Err }

// Graph is a simple directed graph with per-node attributes. It keeps node
// and edge insertion order so every derived result (roots, layout columns,
// chain discovery) is reproducible.
//
// At most one edge exists per ordered pair; self-loops are allowed.
// The zero value is not usable - use [New].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	title    string
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string // nodeID -> successor IDs in insertion order
	incoming map[string][]string // nodeID -> predecessor IDs in insertion order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// Title returns the display title of the graph, usually the drug names.
func (g *Graph) Title() string { return g.title }

// SetTitle sets the display title.
func (g *Graph) SetTitle(t string) { g.title = t }

// AddNode inserts n, or replaces the attributes of the node with the same ID.
// A replaced node keeps its original insertion position. Returns
// ErrInvalidNodeID if n.ID is empty.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if existing, ok := g.nodes[n.ID]; ok {
		*existing = n
		return nil
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge inserts the edge from -> to when both endpoints exist. Re-adding an
// existing edge is a no-op. When an endpoint is missing the edge is dropped
// and a *DanglingEdgeError is returned for the caller to report.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return &DanglingEdgeError{From: from, To: to, Err: ErrUnknownSourceNode}
	}
	if _, ok := g.nodes[to]; !ok {
		return &DanglingEdgeError{From: from, To: to, Err: ErrUnknownTargetNode}
	}
	e := Edge{From: from, To: to}
	if _, exists := g.edgeSet[e]; exists {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// RemoveEdge removes the edge from -> to if it exists.
func (g *Graph) RemoveEdge(from, to string) {
	e := Edge{From: from, To: to}
	if _, ok := g.edgeSet[e]; !ok {
		return
	}
	delete(g.edgeSet, e)
	g.edges = slices.DeleteFunc(g.edges, func(x Edge) bool { return x == e })
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == from })
}

// RemoveNode deletes the node and every edge touching it.
// No error is returned if the node does not exist.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, succ := range g.outgoing[id] {
		g.incoming[succ] = slices.DeleteFunc(g.incoming[succ], func(s string) bool { return s == id })
	}
	for _, pred := range g.incoming[id] {
		g.outgoing[pred] = slices.DeleteFunc(g.outgoing[pred], func(s string) bool { return s == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)

	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if e.From == id || e.To == id {
			delete(g.edgeSet, e)
			return true
		}
		return false
	})
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// Clear resets the graph to the empty graph, title included.
func (g *Graph) Clear() {
	g.title = ""
	clear(g.nodes)
	clear(g.edgeSet)
	clear(g.outgoing)
	clear(g.incoming)
	g.order = nil
	g.edges = nil
}

// Node returns a copy of the node with the given ID and true, or the zero
// Node and false if it does not exist.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge from -> to is in the graph.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: from, To: to}]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the targets of edges leaving id, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the sources of edges entering id, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges. A self-loop counts once
// here and once in InDegree. Returns 0 if the node doesn't exist.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges. Returns 0 if the node
// doesn't exist.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Index returns the insertion index of id, or -1 if it is not in the graph.
func (g *Graph) Index(id string) int {
	if _, ok := g.nodes[id]; !ok {
		return -1
	}
	return slices.Index(g.order, id)
}

// Roots returns the IDs of nodes with in-degree 0, in insertion order.
// A graph made only of cycles has no roots.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Sinks returns the IDs of nodes with out-degree 0, in insertion order.
func (g *Graph) Sinks() []string {
	var sinks []string
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// IsolatedNodes returns the IDs of nodes with neither incoming nor outgoing
// edges, in insertion order.
func (g *Graph) IsolatedNodes() []string {
	var isolated []string
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 && len(g.outgoing[id]) == 0 {
			isolated = append(isolated, id)
		}
	}
	return isolated
}

// Levels returns the distinct node levels in ascending order.
func (g *Graph) Levels() []int {
	seen := make(map[int]struct{})
	for _, n := range g.nodes {
		seen[n.Level] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Clone returns an independent deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.title = g.title
	for _, id := range g.order {
		n := *g.nodes[id]
		c.nodes[id] = &n
	}
	c.order = slices.Clone(g.order)
	c.edges = slices.Clone(g.edges)
	for _, e := range g.edges {
		c.edgeSet[e] = struct{}{}
	}
	for id, succ := range g.outgoing {
		c.outgoing[id] = slices.Clone(succ)
	}
	for id, pred := range g.incoming {
		c.incoming[id] = slices.Clone(pred)
	}
	return c
}
