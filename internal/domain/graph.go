package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNodeNotFound is returned when a lookup names an id absent from the graph
var ErrNodeNotFound = errors.New("node not found")

// NotFoundError names the id that could not be resolved.
// Wraps ErrNodeNotFound for errors.Is() compatibility.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNodeNotFound }

// ErrNegativeDepth is returned when an extraction depth is below zero
var ErrNegativeDepth = errors.New("depth must be non-negative")

// Graph is the in-memory query view of a loaded fact graph.
//
// It is permissive: edges may reference ids that are not in the node map.
// Only edges whose source is a known node take part in the adjacency index.
type Graph struct {
	nodes     map[string]*Node
	order     []string // node ids in insertion order
	edges     []Edge
	adjacency map[string][]string
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		order:     make([]string, 0),
		edges:     make([]Edge, 0),
		adjacency: make(map[string][]string),
	}
}

// NewGraphFromFragment builds a graph from a fragment, nodes first
func NewGraphFromFragment(fragment *GraphFragment) *Graph {
	g := NewGraph()
	for i := range fragment.Nodes {
		g.AddNode(fragment.Nodes[i])
	}
	for _, e := range fragment.Edges {
		g.AddEdge(e)
	}
	return g
}

// AddNode adds a node. It reports false and keeps the existing node when
// the id is already present.
func (g *Graph) AddNode(node Node) bool {
	if _, exists := g.nodes[node.ID]; exists {
		return false
	}
	n := node
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return true
}

// AddEdge appends an edge without validating its endpoints
func (g *Graph) AddEdge(edge Edge) {
	g.edges = append(g.edges, edge)
	if _, ok := g.nodes[edge.From]; ok {
		g.adjacency[edge.From] = append(g.adjacency[edge.From], edge.To)
	}
}

// Node returns the node with the given id
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is a loaded node
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of loaded nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of loaded edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edges returns the loaded edges in load order
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Neighbors returns the forward neighbor list of id, one entry per edge
func (g *Graph) Neighbors(id string) []string {
	return g.adjacency[id]
}

// NodeIDs returns all node ids sorted lexicographically
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fragment returns the whole graph as a fragment in load order
func (g *Graph) Fragment() *GraphFragment {
	fragment := NewGraphFragment()
	for _, id := range g.order {
		fragment.AddNode(*g.nodes[id])
	}
	for _, e := range g.edges {
		fragment.AddEdge(e)
	}
	return fragment
}

// Subgraph is the result of a bounded neighborhood extraction
type Subgraph struct {
	Start string
	Depth int
	// NodeIDs holds every visited id, sorted
	NodeIDs []string
	// Edges is the induced edge set in load order
	Edges []Edge
}

// Contains reports whether id was visited
func (s *Subgraph) Contains(id string) bool {
	i := sort.SearchStrings(s.NodeIDs, id)
	return i < len(s.NodeIDs) && s.NodeIDs[i] == id
}

type frontierEntry struct {
	id    string
	depth int
}

// Extract computes the forward neighborhood of start up to depth hops.
//
// Nodes found at exactly depth hops are included but not expanded. The
// returned edges are the induced subgraph: every loaded edge whose both
// endpoints were visited, whether or not the traversal walked it.
func (g *Graph) Extract(start string, depth int) (*Subgraph, error) {
	if _, ok := g.nodes[start]; !ok {
		return nil, &NotFoundError{ID: start}
	}
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	}

	visited := map[string]bool{start: true}
	queue := []frontierEntry{{id: start, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= depth {
			continue
		}
		for _, next := range g.adjacency[current.id] {
			if visited[next] {
				continue
			}
			if _, ok := g.nodes[next]; !ok {
				continue
			}
			visited[next] = true
			queue = append(queue, frontierEntry{id: next, depth: current.depth + 1})
		}
	}

	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	induced := make([]Edge, 0)
	for _, e := range g.edges {
		if visited[e.From] && visited[e.To] {
			induced = append(induced, e)
		}
	}

	return &Subgraph{
		Start:   start,
		Depth:   depth,
		NodeIDs: ids,
		Edges:   induced,
	}, nil
}

// SubgraphFragment materializes an extraction result, nodes sorted by id
func (g *Graph) SubgraphFragment(s *Subgraph) *GraphFragment {
	fragment := NewGraphFragment()
	for _, id := range s.NodeIDs {
		if n, ok := g.nodes[id]; ok {
			fragment.AddNode(*n)
		}
	}
	for _, e := range s.Edges {
		fragment.AddEdge(e)
	}
	return fragment
}
