package domain

import "regexp"

// NodeType represents the kind of statement a node makes
type NodeType string

const (
	NodeTypeAxiom       NodeType = "axiom"
	NodeTypeDefinition  NodeType = "definition"
	NodeTypeTheorem     NodeType = "theorem"
	NodeTypeProposition NodeType = "proposition"
	NodeTypeConcept     NodeType = "concept"
	NodeTypeTheory      NodeType = "theory"
	NodeTypeObservation NodeType = "observation"
	NodeTypeExperiment  NodeType = "experiment"
)

// NodeTypes lists every node type in canonical order
var NodeTypes = []NodeType{
	NodeTypeAxiom,
	NodeTypeDefinition,
	NodeTypeTheorem,
	NodeTypeProposition,
	NodeTypeConcept,
	NodeTypeTheory,
	NodeTypeObservation,
	NodeTypeExperiment,
}

// IDPattern is the shape every node id must have
var IDPattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

// Node represents a single entity of the fact graph
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Type     NodeType       `json:"type" yaml:"type"`
	Domain   string         `json:"domain" yaml:"domain"`
	Title    string         `json:"title" yaml:"title"`
	Content  string         `json:"content,omitempty" yaml:"content,omitempty"`
	Formal   string         `json:"formal,omitempty" yaml:"formal,omitempty"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Sources  []string       `json:"sources,omitempty" yaml:"sources,omitempty"`
	Created  string         `json:"created,omitempty" yaml:"created,omitempty"` // ISO 8601, kept verbatim
	Updated  string         `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// NodeSummary is the lightweight projection used by indexes and TOON packs
type NodeSummary struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Title  string `json:"title"`
}

// NewNode creates a node with the required fields set
func NewNode(id string, nodeType NodeType, domain, title string) *Node {
	return &Node{
		ID:     id,
		Type:   nodeType,
		Domain: domain,
		Title:  title,
	}
}

// ValidID reports whether id matches IDPattern
func ValidID(id string) bool {
	return IDPattern.MatchString(id)
}

// Valid reports whether t is one of the known node types
func (t NodeType) Valid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Summary returns the lightweight projection of the node
func (n *Node) Summary() NodeSummary {
	return NodeSummary{
		ID:     n.ID,
		Type:   string(n.Type),
		Domain: n.Domain,
		Title:  n.Title,
	}
}

// HasTag reports whether the node carries tag
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
