package domain

import "sort"

// GraphFragment represents a flat node/edge list for import/export operations
type GraphFragment struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NewGraphFragment creates an empty graph fragment
func NewGraphFragment() *GraphFragment {
	return &GraphFragment{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// AddNode adds a node to the fragment
func (g *GraphFragment) AddNode(node Node) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge adds an edge to the fragment
func (g *GraphFragment) AddEdge(edge Edge) {
	g.Edges = append(g.Edges, edge)
}

// SortedNodes returns the fragment's nodes ordered by id
func (g *GraphFragment) SortedNodes() []Node {
	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// EdgesByRelation partitions the fragment's edges by relation key,
// preserving edge order within each relation
func (g *GraphFragment) EdgesByRelation() map[string][]Edge {
	groups := make(map[string][]Edge)
	for _, e := range g.Edges {
		key := e.RelationKey()
		groups[key] = append(groups[key], e)
	}
	return groups
}
