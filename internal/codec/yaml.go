package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"truthmines/internal/domain"
)

// YAMLCodec reads and writes a fragment as one YAML document with the
// same shape as the JSON form
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a single-document stream. An empty stream is an empty
// fragment.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	dec := yaml.NewDecoder(r)

	fragment := domain.NewGraphFragment()
	if err := dec.Decode(fragment); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse YAML: expected a single document")
	}

	return normalize(fragment), nil
}

// Export writes the canonical form of fragment
func (c *YAMLCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(canonical(fragment)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
