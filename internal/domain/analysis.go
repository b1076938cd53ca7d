package domain

import "sort"

// EpistemicRelations are the relations that carry justification from one
// node to another
var EpistemicRelations = []string{"supports", "proves", "entails", "predicts"}

// LoadBearing reports what the graph loses when one node is removed
type LoadBearing struct {
	ID string
	// Descendants counts the nodes reachable from ID
	Descendants int
	// Orphaned holds the descendants no foundation can reach without
	// passing through ID, sorted
	Orphaned []string
	// Score is len(Orphaned) over the graph's node count
	Score float64
}

// Foundations returns the ids of nodes with no incoming epistemic edge,
// sorted
func (g *Graph) Foundations() []string {
	justified := make(map[string]bool)
	epistemic := stringSet(EpistemicRelations)
	for _, e := range g.edges {
		if epistemic[e.Relation] {
			justified[e.To] = true
		}
	}

	out := make([]string, 0)
	for _, id := range g.NodeIDs() {
		if !justified[id] {
			out = append(out, id)
		}
	}
	return out
}

// LoadBearing scores a single node
func (g *Graph) LoadBearing(id string) (*LoadBearing, error) {
	if !g.HasNode(id) {
		return nil, &NotFoundError{ID: id}
	}
	a := g.newAnalyzer()
	lb := a.score(id)
	return &lb, nil
}

// RankLoadBearing scores every node, highest score first and ties by id
func (g *Graph) RankLoadBearing() []LoadBearing {
	a := g.newAnalyzer()
	out := make([]LoadBearing, 0, g.NodeCount())
	for _, id := range g.NodeIDs() {
		out = append(out, a.score(id))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

type analyzer struct {
	g           *Graph
	foundations []string
	// grounded is everything some foundation reaches in the full graph
	grounded map[string]bool
}

func (g *Graph) newAnalyzer() *analyzer {
	a := &analyzer{g: g, foundations: g.Foundations()}
	a.grounded = a.reach(a.foundations, "")
	return a
}

func (a *analyzer) score(id string) LoadBearing {
	lb := LoadBearing{ID: id, Orphaned: make([]string, 0)}
	total := a.g.NodeCount()
	if total <= 1 {
		return lb
	}

	descendants := a.reach([]string{id}, "")
	delete(descendants, id)
	lb.Descendants = len(descendants)
	if len(descendants) == 0 || len(a.foundations) == 0 {
		return lb
	}

	sources := make([]string, 0, len(a.foundations))
	for _, f := range a.foundations {
		if f != id {
			sources = append(sources, f)
		}
	}
	survivors := a.reach(sources, id)

	for d := range descendants {
		if a.grounded[d] && !survivors[d] {
			lb.Orphaned = append(lb.Orphaned, d)
		}
	}
	sort.Strings(lb.Orphaned)
	lb.Score = float64(len(lb.Orphaned)) / float64(total)
	return lb
}

// reach returns the known nodes reachable from sources, sources included,
// never stepping onto avoid
func (a *analyzer) reach(sources []string, avoid string) map[string]bool {
	seen := make(map[string]bool, len(sources))
	stack := make([]string, 0, len(sources))
	for _, s := range sources {
		if s != avoid && !seen[s] {
			seen[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range a.g.adjacency[current] {
			if seen[next] || next == avoid || !a.g.HasNode(next) {
				continue
			}
			seen[next] = true
			stack = append(stack, next)
		}
	}
	return seen
}
