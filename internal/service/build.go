package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"truthmines/internal/codec"
	"truthmines/internal/domain"
)

// Artifact names written into the dist directory
const (
	EdgesTOONFile = "edges.toon"
	NodesTOONFile = "nodes.toon"
	ManifestFile  = "manifest.json"
	GraphFile     = "graph.json"

	ManifestVersion = "1.0.0"
)

// RelationCount is the size of one relation group
type RelationCount struct {
	Relation string
	Edges    int
}

// EdgesTOONResult describes a written edges.toon
type EdgesTOONResult struct {
	Path      string
	Total     int
	Relations []RelationCount
}

// BuildEdgesTOON writes every edge under graphDir to distDir/edges.toon,
// grouped by relation
func (s *GraphService) BuildEdgesTOON(ctx context.Context, graphDir, distDir string) (*EdgesTOONResult, error) {
	loaded, err := s.load(ctx, graphDir, "")
	if err != nil {
		return nil, err
	}

	tables := codec.EdgeTables(loaded.Graph.Edges())
	path := filepath.Join(distDir, EdgesTOONFile)
	s.checkTOON(path, tables)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, tables); err != nil {
		return nil, fmt.Errorf("encode edges: %w", err)
	}

	result := &EdgesTOONResult{Path: path}
	if err := s.writeArtifact(result.Path, buf.Bytes()); err != nil {
		return nil, err
	}

	for i := range tables {
		result.Relations = append(result.Relations, RelationCount{
			Relation: tables[i].Key,
			Edges:    len(tables[i].Rows),
		})
		result.Total += len(tables[i].Rows)
	}
	return result, nil
}

// ManifestEntry locates one node
type ManifestEntry struct {
	File   string `json:"file"`
	Domain string `json:"domain"`
	Type   string `json:"type"`
}

// ManifestStats tallies the graph
type ManifestStats struct {
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
	ByDomain   map[string]int `json:"by_domain"`
	ByType     map[string]int `json:"by_type"`
}

// Manifest is the content of dist/manifest.json
type Manifest struct {
	Version   string                   `json:"version"`
	Generated string                   `json:"generated"`
	Nodes     map[string]ManifestEntry `json:"nodes"`
	Stats     ManifestStats            `json:"stats"`
}

// IndexResult describes the written index artifacts
type IndexResult struct {
	Manifest *Manifest
	Paths    []string
}

// BuildIndex writes manifest.json, graph.json and nodes.toon for graphDir
// into distDir
func (s *GraphService) BuildIndex(ctx context.Context, graphDir, distDir string) (*IndexResult, error) {
	loaded, err := s.load(ctx, graphDir, "")
	if err != nil {
		return nil, err
	}
	g := loaded.Graph

	manifest := &Manifest{
		Version:   ManifestVersion,
		Generated: s.now().UTC().Format(time.RFC3339),
		Nodes:     make(map[string]ManifestEntry, g.NodeCount()),
		Stats: ManifestStats{
			TotalNodes: g.NodeCount(),
			TotalEdges: g.EdgeCount(),
			ByDomain:   make(map[string]int),
			ByType:     make(map[string]int),
		},
	}

	ids := g.NodeIDs()
	nodes := make([]domain.Node, 0, len(ids))
	summaries := make([]domain.NodeSummary, 0, len(ids))
	for _, id := range ids {
		n, _ := g.Node(id)
		nodes = append(nodes, *n)
		summaries = append(summaries, n.Summary())

		manifest.Nodes[id] = ManifestEntry{
			File:   loaded.Sources[id],
			Domain: n.Domain,
			Type:   string(n.Type),
		}
		if n.Domain != "" {
			manifest.Stats.ByDomain[n.Domain]++
		}
		if n.Type != "" {
			manifest.Stats.ByType[string(n.Type)]++
		}
	}

	result := &IndexResult{Manifest: manifest}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	graphJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph summary: %w", err)
	}
	nodeTables := []codec.Table{codec.NodeTable(nodes)}
	s.checkTOON(filepath.Join(distDir, NodesTOONFile), nodeTables)

	var nodesTOON bytes.Buffer
	if err := codec.Encode(&nodesTOON, nodeTables); err != nil {
		return nil, fmt.Errorf("encode node summary: %w", err)
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{ManifestFile, append(manifestJSON, '\n')},
		{GraphFile, append(graphJSON, '\n')},
		{NodesTOONFile, nodesTOON.Bytes()},
	}
	for _, a := range artifacts {
		path := filepath.Join(distDir, a.name)
		if err := s.writeArtifact(path, a.data); err != nil {
			return nil, err
		}
		result.Paths = append(result.Paths, path)
	}

	return result, nil
}
