package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"truthmines/internal/domain"
	"truthmines/internal/logging"
)

// Result is a loaded graph plus where each node came from
type Result struct {
	Graph *domain.Graph

	// Sources maps node id to its file, relative to the graph directory
	Sources map[string]string

	// Skipped counts node files and edge lines that could not be parsed
	Skipped int
}

// Load reads every node and edge beneath graphDir into a graph.
//
// Loading is permissive. Unparsable files and lines are logged and
// skipped, duplicate node ids keep their first definition, and edges are
// not checked against the node set. Use the validator for integrity.
func Load(graphDir string, logger *slog.Logger) (*Result, error) {
	logger = logging.OrDiscard(logger)

	files, err := Discover(graphDir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Graph:   domain.NewGraph(),
		Sources: make(map[string]string),
	}

	for _, path := range files.Nodes {
		rel := files.Rel(path)
		node, err := readNode(path)
		if err != nil {
			logger.Warn("skipping node file", "file", rel, "error", err)
			result.Skipped++
			continue
		}
		if !result.Graph.AddNode(*node) {
			logger.Warn("duplicate node id, keeping first definition",
				"id", node.ID,
				"file", rel,
				"first", result.Sources[node.ID])
			continue
		}
		result.Sources[node.ID] = rel

		if !domain.ValidID(node.ID) {
			logger.Warn("node id does not match the id pattern", "id", node.ID, "file", rel)
		}
		if !node.Type.Valid() {
			logger.Warn("unknown node type", "id", node.ID, "type", node.Type, "file", rel)
		}
	}

	for _, path := range files.Edges {
		rel := files.Rel(path)
		err := ScanLines(path, func(line int, data []byte) {
			var edge domain.Edge
			if err := json.Unmarshal(data, &edge); err != nil {
				logger.Warn("skipping edge line", "location", domain.LineLocation(rel, line).String(), "error", err)
				result.Skipped++
				return
			}
			result.Graph.AddEdge(edge)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read edges: %w", err)
		}
	}

	logger.Debug("graph loaded",
		"dir", graphDir,
		"nodes", result.Graph.NodeCount(),
		"edges", result.Graph.EdgeCount(),
		"skipped", result.Skipped)
	return result, nil
}

func readNode(path string) (*domain.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var node domain.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if node.ID == "" {
		return nil, fmt.Errorf("node has no id")
	}
	return &node, nil
}
