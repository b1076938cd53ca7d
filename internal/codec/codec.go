// Package codec converts graph fragments to and from their file formats:
// JSON, YAML and the tabular TOON format.
package codec

import (
	"errors"
	"fmt"
	"io"

	"truthmines/internal/domain"
)

// ErrUnknownFormat is returned for a format no codec handles
var ErrUnknownFormat = errors.New("unknown format")

// Importer interface for importing graph data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.GraphFragment, error)
	Format() string
}

// Exporter interface for exporting graph data to various formats
type Exporter interface {
	Export(fragment *domain.GraphFragment, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// Formats lists the registered codec formats
func Formats() []string {
	return []string{"json", "toon", "yaml"}
}

// ForFormat returns the codec registered for format
func ForFormat(format string) (Codec, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "toon":
		return NewTOONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// canonical returns the export form of fragment: nodes ordered by id and
// edges in load order, with empty lists written as [] rather than null
func canonical(fragment *domain.GraphFragment) *domain.GraphFragment {
	out := &domain.GraphFragment{
		Nodes: fragment.SortedNodes(),
		Edges: fragment.Edges,
	}
	return normalize(out)
}

// normalize replaces nil node and edge lists with empty ones
func normalize(fragment *domain.GraphFragment) *domain.GraphFragment {
	if fragment.Nodes == nil {
		fragment.Nodes = []domain.Node{}
	}
	if fragment.Edges == nil {
		fragment.Edges = []domain.Edge{}
	}
	return fragment
}
