package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthmines/internal/domain"
)

func newTestFragment() *domain.GraphFragment {
	fragment := domain.NewGraphFragment()
	n := domain.NewNode("abc123", domain.NodeTypeTheorem, "mathematics", "Pythagoras")
	n.Tags = []string{"geometry"}
	n.Metadata = map[string]any{"confidence": 0.95}
	fragment.AddNode(*n)
	fragment.AddNode(*domain.NewNode("def456", domain.NodeTypeAxiom, "mathematics", "Parallel postulate"))
	fragment.AddEdge(domain.NewEdge("def456", "abc123", "proves", "mathematics").WithWeight(0.8))
	fragment.AddEdge(*domain.NewEdge("abc123", "def456", "presupposes", "mathematics"))
	return fragment
}

func TestForFormat(t *testing.T) {
	for _, format := range Formats() {
		c, err := ForFormat(format)
		require.NoError(t, err, format)
		assert.Equal(t, format, c.Format())
	}

	c, err := ForFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	_, err = ForFormat("ansible-inventory")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()
	original := newTestFragment()

	var buf bytes.Buffer
	require.NoError(t, c.Export(original, &buf))
	assert.Contains(t, buf.String(), `"f": "def456"`)
	assert.Contains(t, buf.String(), `"w": 0.8`)

	parsed, err := c.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, original.Edges, parsed.Edges)
	require.Len(t, parsed.Nodes, 2)
	assert.Equal(t, []string{"geometry"}, parsed.Nodes[0].Tags)
	assert.Equal(t, 0.95, parsed.Nodes[0].Metadata["confidence"])
}

func TestJSONCodec_ParseError(t *testing.T) {
	_, err := NewJSONCodec().Parse(bytes.NewBufferString("{"))
	assert.Error(t, err)
}

func TestYAMLCodec(t *testing.T) {
	c := NewYAMLCodec()
	original := newTestFragment()

	var buf bytes.Buffer
	require.NoError(t, c.Export(original, &buf))
	assert.Contains(t, buf.String(), "relation: proves")

	parsed, err := c.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed.Nodes, 2)
	assert.Equal(t, "Pythagoras", parsed.Nodes[0].Title)
	assert.Equal(t, original.Edges, parsed.Edges)
}

func TestYAMLCodec_ParseError(t *testing.T) {
	_, err := NewYAMLCodec().Parse(bytes.NewBufferString("nodes: [unterminated"))
	assert.Error(t, err)
}

func TestJSONCodec_Canonical(t *testing.T) {
	fragment := domain.NewGraphFragment()
	fragment.AddNode(*domain.NewNode("zzz999", domain.NodeTypeAxiom, "philosophy", "Last"))
	fragment.AddNode(*domain.NewNode("aaa111", domain.NodeTypeAxiom, "philosophy", "First"))

	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(fragment, &buf))
	assert.Contains(t, buf.String(), `"edges": []`)

	parsed, err := NewJSONCodec().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed.Nodes, 2)
	assert.Equal(t, "aaa111", parsed.Nodes[0].ID)
	assert.NotNil(t, parsed.Edges)

	// the input fragment is left in insertion order
	assert.Equal(t, "zzz999", fragment.Nodes[0].ID)
}

func TestJSONCodec_TrailingData(t *testing.T) {
	_, err := NewJSONCodec().Parse(bytes.NewBufferString(`{"nodes":[]} {"nodes":[]}`))
	assert.Error(t, err)
}

func TestYAMLCodec_Documents(t *testing.T) {
	fragment, err := NewYAMLCodec().Parse(bytes.NewBufferString(""))
	require.NoError(t, err)
	assert.Empty(t, fragment.Nodes)
	assert.Empty(t, fragment.Edges)

	_, err = NewYAMLCodec().Parse(bytes.NewBufferString("nodes: []\n---\nnodes: []\n"))
	assert.Error(t, err)
}
