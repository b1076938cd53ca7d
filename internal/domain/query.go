package domain

import (
	"fmt"
	"sort"
)

// Paths enumerates the simple paths from one node to another along
// outgoing edges, each at most maxHops edges long. Paths come back in
// depth-first order following adjacency order; parallel edges do not
// produce duplicate paths. A limit above zero stops the search after that
// many paths. A path from a node to itself is the single-node path.
func (g *Graph) Paths(from, to string, maxHops, limit int) ([][]string, error) {
	if _, ok := g.nodes[from]; !ok {
		return nil, &NotFoundError{ID: from}
	}
	if _, ok := g.nodes[to]; !ok {
		return nil, &NotFoundError{ID: to}
	}
	if maxHops < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, maxHops)
	}

	w := pathWalker{
		g:       g,
		target:  to,
		maxHops: maxHops,
		limit:   limit,
		onPath:  make(map[string]bool),
		paths:   make([][]string, 0),
	}
	w.walk(from)
	return w.paths, nil
}

type pathWalker struct {
	g       *Graph
	target  string
	maxHops int
	limit   int

	path   []string
	onPath map[string]bool
	paths  [][]string
}

func (w *pathWalker) done() bool {
	return w.limit > 0 && len(w.paths) >= w.limit
}

func (w *pathWalker) walk(id string) {
	w.path = append(w.path, id)
	w.onPath[id] = true
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, id)
	}()

	if id == w.target {
		w.paths = append(w.paths, append([]string(nil), w.path...))
		return
	}
	if len(w.path) > w.maxHops {
		return
	}

	tried := make(map[string]bool)
	for _, next := range w.g.adjacency[id] {
		if w.done() {
			return
		}
		if tried[next] || w.onPath[next] || !w.g.HasNode(next) {
			continue
		}
		tried[next] = true
		w.walk(next)
	}
}

// FilterByDomain returns the nodes whose domain is one of domains,
// sorted by id
func (g *Graph) FilterByDomain(domains ...string) []Node {
	allowed := stringSet(domains)
	out := make([]Node, 0)
	for _, id := range g.NodeIDs() {
		if n := g.nodes[id]; allowed[n.Domain] {
			out = append(out, *n)
		}
	}
	return out
}

// DomainSubgraph is the induced subgraph over the nodes of domains
func (g *Graph) DomainSubgraph(domains ...string) *Subgraph {
	nodes := g.FilterByDomain(domains...)
	ids := make([]string, len(nodes))
	for i := range nodes {
		ids[i] = nodes[i].ID
	}
	return g.induced(&Subgraph{NodeIDs: ids})
}

// FilterDomains narrows an extraction to nodes of the given domains. The
// start node always stays; edges are re-induced over the kept nodes. An
// empty domain list returns s unchanged.
func (g *Graph) FilterDomains(s *Subgraph, domains []string) *Subgraph {
	if len(domains) == 0 {
		return s
	}
	allowed := stringSet(domains)

	kept := &Subgraph{Start: s.Start, Depth: s.Depth, NodeIDs: make([]string, 0, len(s.NodeIDs))}
	for _, id := range s.NodeIDs {
		n, ok := g.nodes[id]
		if id == s.Start || (ok && allowed[n.Domain]) {
			kept.NodeIDs = append(kept.NodeIDs, id)
		}
	}
	return g.induced(kept)
}

// induced fills s.Edges with every loaded edge between members of
// s.NodeIDs, which must be sorted
func (g *Graph) induced(s *Subgraph) *Subgraph {
	if !sort.StringsAreSorted(s.NodeIDs) {
		sort.Strings(s.NodeIDs)
	}
	s.Edges = make([]Edge, 0)
	for _, e := range g.edges {
		if s.Contains(e.From) && s.Contains(e.To) {
			s.Edges = append(s.Edges, e)
		}
	}
	return s
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
