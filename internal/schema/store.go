// Package schema loads the structural schemas and the strict-mode
// vocabulary that the validators check graph records against.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"

	"truthmines/internal/logging"
)

// Schema artifact file names inside the schema directory
const (
	NodeSchemaFile = "node.schema.json"
	EdgeSchemaFile = "edge.schema.json"
)

// Violation is a single structural schema failure
type Violation struct {
	Message string
}

func (v Violation) String() string {
	return v.Message
}

// Store holds the resolved node and edge schemas and, in strict mode,
// the vocabulary. It is read-only once loaded.
type Store struct {
	dir        string
	node       *jsonschema.Resolved
	edge       *jsonschema.Resolved
	strict     bool
	vocabulary *Vocabulary
}

// Load reads the schema artifacts from dir. The vocabulary is only
// consulted when strict is set; its absence is logged and leaves the store
// without vocabulary checks. A missing or unparsable schema file is a
// ConfigurationError.
func Load(dir string, strict bool, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)

	node, err := loadSchema(filepath.Join(dir, NodeSchemaFile))
	if err != nil {
		return nil, err
	}
	edge, err := loadSchema(filepath.Join(dir, EdgeSchemaFile))
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:    dir,
		node:   node,
		edge:   edge,
		strict: strict,
	}

	if !strict {
		return s, nil
	}

	path, err := findVocabulary(dir)
	if err != nil {
		return nil, &ConfigurationError{Path: dir, Err: err}
	}
	if path == "" {
		logger.Warn("vocabulary not found, strict checks skipped", "dir", dir)
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	vocab, err := ParseVocabulary(data)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	s.vocabulary = vocab

	logger.Debug("vocabulary loaded",
		"path", path,
		"domains", len(vocab.Domains),
		"relations", len(vocab.relationSet))
	return s, nil
}

func loadSchema(path string) (*jsonschema.Resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ConfigurationError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: fmt.Errorf("failed to resolve: %w", err)}
	}
	return resolved, nil
}

// Dir returns the directory the store was loaded from
func (s *Store) Dir() string {
	return s.dir
}

// Strict reports whether strict mode was requested
func (s *Store) Strict() bool {
	return s.strict
}

// VocabularyLoaded reports whether vocabulary checks are active
func (s *Store) VocabularyLoaded() bool {
	return s.vocabulary != nil
}

// Vocabulary returns the loaded vocabulary, or nil
func (s *Store) Vocabulary() *Vocabulary {
	return s.vocabulary
}

// ValidateNode checks a decoded node record against the node schema
func (s *Store) ValidateNode(record any) []Violation {
	return Validate(record, s.node)
}

// ValidateEdge checks a decoded edge record against the edge schema
func (s *Store) ValidateEdge(record any) []Violation {
	return Validate(record, s.edge)
}

// Validate checks record, as produced by json.Unmarshal into an any,
// against a resolved schema.
func Validate(record any, rs *jsonschema.Resolved) []Violation {
	err := rs.Validate(record)
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []Violation
		for _, e := range joined.Unwrap() {
			out = append(out, Violation{Message: e.Error()})
		}
		if len(out) > 0 {
			return out
		}
	}
	return []Violation{{Message: err.Error()}}
}
