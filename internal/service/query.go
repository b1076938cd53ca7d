package service

import (
	"context"
	"strconv"

	"truthmines/internal/domain"
)

// PathsOptions selects the endpoints of a path search
type PathsOptions struct {
	GraphDir string
	Snapshot string
	From     string
	To       string
	// MaxHops bounds the number of edges in a path
	MaxHops int
	// Limit stops after this many paths; zero means no limit
	Limit int
}

// Paths lists the simple paths between two nodes. Unknown endpoints yield
// an error wrapping domain.ErrNodeNotFound.
func (s *GraphService) Paths(ctx context.Context, opts PathsOptions) ([][]string, error) {
	loaded, err := s.load(ctx, opts.GraphDir, opts.Snapshot)
	if err != nil {
		return nil, err
	}

	paths, err := loaded.Graph.Paths(opts.From, opts.To, opts.MaxHops, opts.Limit)
	if err != nil {
		return nil, err
	}
	s.logger.Info("paths found",
		"from", opts.From,
		"to", opts.To,
		"max_hops", opts.MaxHops,
		"paths", len(paths))
	return paths, nil
}

// AnalyzeOptions selects the nodes to score
type AnalyzeOptions struct {
	GraphDir string
	Snapshot string
	// NodeID scores one node; empty ranks the whole graph
	NodeID string
	// Top keeps the highest ranked entries; zero keeps all
	Top int
}

// Analyze computes load-bearing scores
func (s *GraphService) Analyze(ctx context.Context, opts AnalyzeOptions) ([]domain.LoadBearing, error) {
	loaded, err := s.load(ctx, opts.GraphDir, opts.Snapshot)
	if err != nil {
		return nil, err
	}
	g := loaded.Graph

	var scores []domain.LoadBearing
	if opts.NodeID != "" {
		lb, err := g.LoadBearing(opts.NodeID)
		if err != nil {
			return nil, err
		}
		scores = []domain.LoadBearing{*lb}
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores = g.RankLoadBearing()
		if opts.Top > 0 && len(scores) > opts.Top {
			scores = scores[:opts.Top]
		}
	}

	s.eventBus.Publish(Event{
		Type: EventAnalysisFinished,
		Payload: map[string]string{
			"nodes":       strconv.Itoa(g.NodeCount()),
			"foundations": strconv.Itoa(len(g.Foundations())),
			"scored":      strconv.Itoa(len(scores)),
		},
	})
	return scores, nil
}
