package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"truthmines/internal/codec"
	"truthmines/internal/domain"
	"truthmines/internal/loader"
	"truthmines/internal/logging"
	"truthmines/internal/repository/sqlite"
	"truthmines/internal/schema"
	"truthmines/internal/validate"
)

// FormatSQLite selects the SQLite snapshot exporter
const FormatSQLite = "sqlite"

// GraphService provides the graph commands
type GraphService struct {
	logger   *slog.Logger
	eventBus *EventBus
	now      func() time.Time
}

// NewGraphService creates a new graph service. eventBus may be nil.
func NewGraphService(logger *slog.Logger, eventBus *EventBus) *GraphService {
	return &GraphService{
		logger:   logging.OrDiscard(logger),
		eventBus: eventBus,
		now:      time.Now,
	}
}

// load reads the graph from a snapshot when one is named, otherwise from
// graphDir, and announces the result
func (s *GraphService) load(ctx context.Context, graphDir, snapshot string) (*loader.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result *loader.Result
		err    error
		source = graphDir
	)
	if snapshot != "" {
		source = snapshot
		result, err = s.loadSnapshot(ctx, snapshot)
	} else {
		result, err = loader.Load(graphDir, s.logger)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	s.eventBus.Publish(Event{
		Type: EventGraphLoaded,
		Payload: map[string]string{
			"dir":   source,
			"nodes": strconv.Itoa(result.Graph.NodeCount()),
			"edges": strconv.Itoa(result.Graph.EdgeCount()),
		},
	})
	return result, nil
}

// ValidateOptions selects what to validate
type ValidateOptions struct {
	GraphDir  string
	SchemaDir string
	Strict    bool
}

// Validate checks every record under opts.GraphDir. A ConfigurationError
// is returned when the schemas cannot be loaded; record problems are in
// the report.
func (s *GraphService) Validate(ctx context.Context, opts ValidateOptions) (*validate.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, err := schema.Load(opts.SchemaDir, opts.Strict, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("schemas loaded",
		"dir", store.Dir(),
		"strict", store.Strict(),
		"vocabulary", store.VocabularyLoaded())

	report, err := validate.Run(opts.GraphDir, store, s.logger)
	if err != nil {
		return nil, fmt.Errorf("validate graph: %w", err)
	}

	s.eventBus.Publish(Event{
		Type: EventValidationFinished,
		Payload: map[string]string{
			"dir":    opts.GraphDir,
			"errors": strconv.Itoa(report.ErrorCount()),
		},
	})
	return report, nil
}

// ExtractOptions selects the neighborhood to extract
type ExtractOptions struct {
	GraphDir string
	// Snapshot reads the graph from a SQLite export instead of GraphDir
	Snapshot string
	NodeID   string
	Depth    int
	// Domains keeps only nodes of these domains, plus the start node
	Domains []string
	Output  string
}

// ExtractResult describes a written TOON pack
type ExtractResult struct {
	Output   string
	Subgraph *domain.Subgraph
}

// Extract writes the TOON pack of the depth-hop neighborhood of opts.NodeID.
// When the node is unknown the returned error wraps domain.ErrNodeNotFound
// and no output file is created.
func (s *GraphService) Extract(ctx context.Context, opts ExtractOptions) (*ExtractResult, error) {
	loaded, err := s.load(ctx, opts.GraphDir, opts.Snapshot)
	if err != nil {
		return nil, err
	}

	sub, err := loaded.Graph.Extract(opts.NodeID, opts.Depth)
	if err != nil {
		return nil, err
	}
	sub = loaded.Graph.FilterDomains(sub, opts.Domains)
	s.logger.Info("subgraph extracted",
		"start", opts.NodeID,
		"depth", opts.Depth,
		"nodes", len(sub.NodeIDs),
		"edges", len(sub.Edges))
	s.eventBus.Publish(Event{
		Type: EventSubgraphExtracted,
		Payload: map[string]string{
			"start": opts.NodeID,
			"nodes": strconv.Itoa(len(sub.NodeIDs)),
			"edges": strconv.Itoa(len(sub.Edges)),
		},
	})

	tables := codec.PackTables(loaded.Graph.SubgraphFragment(sub))
	s.checkTOON(opts.Output, tables)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, tables); err != nil {
		return nil, fmt.Errorf("encode pack: %w", err)
	}
	if err := s.writeArtifact(opts.Output, buf.Bytes()); err != nil {
		return nil, err
	}

	return &ExtractResult{Output: opts.Output, Subgraph: sub}, nil
}

// ExportOptions selects what to export and where
type ExportOptions struct {
	GraphDir string
	// Snapshot reads the graph from a SQLite export instead of GraphDir
	Snapshot string
	Format   string
	// Output is the destination file. Empty writes text formats to the
	// writer passed to Export.
	Output string
	// NodeID limits the export to the Depth-hop neighborhood of a node
	NodeID string
	Depth  int
	// Domains limits the export to nodes of these domains. With NodeID
	// set the start node is always kept.
	Domains []string
}

// Export writes the graph, or a subgraph of it, in opts.Format
func (s *GraphService) Export(ctx context.Context, opts ExportOptions, w io.Writer) error {
	var exporter codec.Exporter
	if opts.Format != FormatSQLite {
		c, err := codec.ForFormat(opts.Format)
		if err != nil {
			return err
		}
		exporter = c
	} else if opts.Output == "" {
		return fmt.Errorf("%s export needs an output file", FormatSQLite)
	}

	loaded, err := s.load(ctx, opts.GraphDir, opts.Snapshot)
	if err != nil {
		return err
	}
	g := loaded.Graph

	fragment := g.Fragment()
	switch {
	case opts.NodeID != "":
		sub, err := g.Extract(opts.NodeID, opts.Depth)
		if err != nil {
			return err
		}
		fragment = g.SubgraphFragment(g.FilterDomains(sub, opts.Domains))
	case len(opts.Domains) > 0:
		fragment = g.SubgraphFragment(g.DomainSubgraph(opts.Domains...))
	}

	if exporter == nil {
		return s.exportSQLite(ctx, fragment, opts.Output)
	}
	if _, ok := exporter.(*codec.TOONCodec); ok {
		target := opts.Output
		if target == "" {
			target = "stdout"
		}
		s.checkTOON(target, codec.PackTables(fragment))
	}

	var buf bytes.Buffer
	if err := exporter.Export(fragment, &buf); err != nil {
		return err
	}
	if opts.Output == "" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	return s.writeArtifact(opts.Output, buf.Bytes())
}

// exportSQLite writes fragment to a fresh database at path
func (s *GraphService) exportSQLite(ctx context.Context, fragment *domain.GraphFragment, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	repo, err := sqlite.New(path)
	if err != nil {
		return err
	}
	if err := repo.ImportGraph(ctx, fragment); err != nil {
		repo.Close()
		return err
	}
	stats, err := repo.Stats(ctx)
	if err != nil {
		repo.Close()
		return err
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	s.published(path, stats.Nodes, stats.Edges)
	return nil
}

// checkTOON warns about every value of tables that will not read back as
// written once encoded to target
func (s *GraphService) checkTOON(target string, tables []codec.Table) {
	for _, a := range codec.Check(tables) {
		s.logger.Warn("TOON value will not round-trip",
			"artifact", target,
			"group", a.Key,
			"row", a.Row,
			"value", a.Value,
			"reason", a.Reason)
	}
}

// writeArtifact writes data to path, creating parent directories
func (s *GraphService) writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.published(path, -1, -1)
	return nil
}

func (s *GraphService) published(path string, nodes, edges int) {
	payload := map[string]string{"path": path}
	if nodes >= 0 {
		payload["nodes"] = strconv.Itoa(nodes)
		payload["edges"] = strconv.Itoa(edges)
	}
	s.logger.Debug("artifact written", "path", path)
	s.eventBus.Publish(Event{Type: EventArtifactWritten, Payload: payload})
}
