package service

import (
	"context"
	"fmt"
	"os"

	"truthmines/internal/domain"
	"truthmines/internal/loader"
	"truthmines/internal/repository"
	"truthmines/internal/repository/sqlite"
)

// Snapshot is an open SQLite export. Close it when done.
type Snapshot struct {
	repository.Repository
	Path string
}

// OpenSnapshot opens a snapshot previously written by Export. A missing
// file is an error rather than a fresh empty database.
func (s *GraphService) OpenSnapshot(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open snapshot: %s is a directory", path)
	}

	repo, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	s.logger.Debug("snapshot opened", "path", path)
	return &Snapshot{Repository: repo, Path: path}, nil
}

// NodeFilter narrows a snapshot node listing. Empty fields match anything.
type NodeFilter struct {
	Type   string
	Domain string
	Tag    string
}

// Nodes lists the stored nodes matching filter, ordered by id
func (sn *Snapshot) Nodes(ctx context.Context, filter NodeFilter) ([]domain.Node, error) {
	nodes, err := sn.ListNodes(ctx, filter.Type, filter.Domain)
	if err != nil {
		return nil, err
	}
	if filter.Tag == "" {
		return nodes, nil
	}

	tagged := make([]domain.Node, 0, len(nodes))
	for i := range nodes {
		if nodes[i].HasTag(filter.Tag) {
			tagged = append(tagged, nodes[i])
		}
	}
	return tagged, nil
}

// NodeDetail is a stored node with the targets of its outgoing edges
type NodeDetail struct {
	Node      *domain.Node
	Neighbors []string
}

// Node looks up one stored node and its forward neighbors
func (sn *Snapshot) Node(ctx context.Context, id string) (*NodeDetail, error) {
	node, err := sn.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	neighbors, err := sn.Neighbors(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NodeDetail{Node: node, Neighbors: neighbors}, nil
}

// loadSnapshot rebuilds the query graph from a snapshot
func (s *GraphService) loadSnapshot(ctx context.Context, path string) (*loader.Result, error) {
	sn, err := s.OpenSnapshot(path)
	if err != nil {
		return nil, err
	}
	defer sn.Close()

	fragment, err := sn.GetFragment(ctx)
	if err != nil {
		return nil, err
	}

	result := &loader.Result{
		Graph:   domain.NewGraphFromFragment(fragment),
		Sources: make(map[string]string, len(fragment.Nodes)),
	}
	for i := range fragment.Nodes {
		result.Sources[fragment.Nodes[i].ID] = path
	}
	return result, nil
}
