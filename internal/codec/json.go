package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"truthmines/internal/domain"
)

// JSONCodec reads and writes a fragment as a single JSON object with
// "nodes" and "edges" arrays
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads exactly one fragment object. Anything after it is an error.
func (c *JSONCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	dec := json.NewDecoder(r)

	fragment := domain.NewGraphFragment()
	if err := dec.Decode(fragment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse JSON: unexpected data after fragment")
	}

	return normalize(fragment), nil
}

// Export writes the canonical form of fragment, indented
func (c *JSONCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(canonical(fragment)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
