package repository

import (
	"context"

	"truthmines/internal/domain"
)

// Stats summarizes a stored snapshot
type Stats struct {
	Nodes    int            `json:"nodes"`
	Edges    int            `json:"edges"`
	ByDomain map[string]int `json:"by_domain"`
	ByType   map[string]int `json:"by_type"`
}

// Repository defines the interface for graph snapshot access
type Repository interface {
	// Bulk operations
	ImportGraph(ctx context.Context, fragment *domain.GraphFragment) error

	// Read operations
	GetNode(ctx context.Context, id string) (*domain.Node, error)
	ListNodes(ctx context.Context, nodeType, domainName string) ([]domain.Node, error)
	ListEdges(ctx context.Context, relation string) ([]domain.Edge, error)
	Neighbors(ctx context.Context, id string) ([]string, error)
	GetFragment(ctx context.Context) (*domain.GraphFragment, error)
	Stats(ctx context.Context) (*Stats, error)

	// Close releases resources
	Close() error
}
