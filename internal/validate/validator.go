// Package validate checks a graph directory against the structural
// schemas, referential integrity and, in strict mode, the vocabulary.
//
// Every problem is recorded in a Report and scanning continues; only
// configuration and I/O failures stop a run.
package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"truthmines/internal/domain"
	"truthmines/internal/loader"
	"truthmines/internal/logging"
	"truthmines/internal/schema"
)

// Validator checks records one at a time. Nodes must all be checked
// before the first edge so that the id set is complete.
type Validator struct {
	store  *schema.Store
	logger *slog.Logger
	ids    map[string]domain.Location
	report *Report
}

// New creates a validator bound to store
func New(store *schema.Store, logger *slog.Logger) *Validator {
	return &Validator{
		store:  store,
		logger: logging.OrDiscard(logger),
		ids:    make(map[string]domain.Location),
		report: &Report{
			Strict:            store.Strict(),
			VocabularySkipped: store.Strict() && !store.VocabularyLoaded(),
		},
	}
}

// Report returns the report accumulated so far
func (v *Validator) Report() *Report {
	return v.report
}

// HasID reports whether a node with id has been checked
func (v *Validator) HasID(id string) bool {
	_, ok := v.ids[id]
	return ok
}

// vocabulary returns the vocabulary when strict checks apply
func (v *Validator) vocabulary() *schema.Vocabulary {
	if !v.store.Strict() {
		return nil
	}
	return v.store.Vocabulary()
}

// CheckNode validates one node file's content
func (v *Validator) CheckNode(loc domain.Location, data []byte) {
	var record any
	if err := json.Unmarshal(data, &record); err != nil {
		v.report.Add(&StructuralParseError{Location: loc, Err: err})
		return
	}
	v.report.NodeCount++

	for _, violation := range v.store.ValidateNode(record) {
		v.report.Add(&SchemaViolation{Location: loc, Msg: violation.Message})
	}

	fields, _ := record.(map[string]any)

	// A non-empty string id joins the id set whatever else is wrong with
	// the record.
	if id, ok := fields["id"].(string); ok && id != "" {
		if first, dup := v.ids[id]; dup {
			v.report.Add(&ReferentialError{
				Location: loc,
				ID:       id,
				Msg:      fmt.Sprintf("duplicate node id %s (first defined in %s)", id, first),
			})
		} else {
			v.ids[id] = loc
		}
	}

	if vocab := v.vocabulary(); vocab != nil {
		if d, ok := fields["domain"].(string); ok && !vocab.AllowsDomain(d) {
			v.report.Add(&VocabularyError{
				Location: loc,
				Field:    "domain",
				Value:    d,
				Allowed:  vocab.DomainList(),
			})
		}
	}
}

// CheckEdge validates one non-blank edge line
func (v *Validator) CheckEdge(loc domain.Location, data []byte) {
	var record any
	if err := json.Unmarshal(data, &record); err != nil {
		v.report.Add(&StructuralParseError{Location: loc, Err: err})
		return
	}
	v.report.EdgeCount++

	fields, _ := record.(map[string]any)

	violations := v.store.ValidateEdge(record)
	if len(violations) > 0 {
		label := fmt.Sprintf("edge %s -> %s", endpoint(fields, "f"), endpoint(fields, "t"))
		for _, violation := range violations {
			v.report.Add(&SchemaViolation{Location: loc, Msg: label + ": " + violation.Message})
		}
	}

	// Endpoints are only resolved for structurally valid edges
	if len(violations) == 0 {
		for _, end := range []struct{ key, name string }{{"f", "source"}, {"t", "target"}} {
			id, _ := fields[end.key].(string)
			if !v.HasID(id) {
				v.report.Add(&ReferentialError{
					Location: loc,
					ID:       id,
					Msg:      fmt.Sprintf("edge %s %s not found", end.name, id),
				})
			}
		}
	}

	if vocab := v.vocabulary(); vocab != nil {
		if r, ok := fields["relation"].(string); ok && !vocab.AllowsRelation(r) {
			v.report.Add(&VocabularyError{
				Location: loc,
				Field:    "relation",
				Value:    r,
				Allowed:  vocab.RelationList(),
			})
		}
	}
}

// endpoint renders an edge endpoint for diagnostics; "?" stands for a
// missing or non-string value
func endpoint(fields map[string]any, key string) string {
	id, ok := fields[key].(string)
	if !ok {
		return "?"
	}
	return id
}

// Run validates every node file and then every edge file under graphDir
func Run(graphDir string, store *schema.Store, logger *slog.Logger) (*Report, error) {
	v := New(store, logger)

	files, err := loader.Discover(graphDir)
	if err != nil {
		return nil, err
	}

	for _, path := range files.Nodes {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read node file: %w", err)
		}
		v.CheckNode(domain.FileLocation(files.Rel(path)), data)
	}

	for _, path := range files.Edges {
		rel := files.Rel(path)
		err := loader.ScanLines(path, func(line int, data []byte) {
			v.CheckEdge(domain.LineLocation(rel, line), data)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read edge file: %w", err)
		}
	}

	report := v.Report()
	v.logger.Debug("validation finished",
		"dir", graphDir,
		"nodes", report.NodeCount,
		"edges", report.EdgeCount,
		"errors", report.ErrorCount(),
		"strict", report.Strict)
	return report, nil
}
