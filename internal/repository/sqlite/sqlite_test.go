package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthmines/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func newTestFragment() *domain.GraphFragment {
	fragment := domain.NewGraphFragment()

	a := domain.NewNode("aaaaaa", domain.NodeTypeAxiom, "philosophy", "Identity")
	a.Tags = []string{"logic", "classical"}
	a.Metadata = map[string]any{"confidence": 0.9}
	a.Sources = []string{"Aristotle, Metaphysics"}
	a.Created = "2024-01-15T10:00:00Z"
	fragment.AddNode(*a)
	fragment.AddNode(*domain.NewNode("bbbbbb", domain.NodeTypeTheorem, "mathematics", "Bolzano"))
	fragment.AddNode(*domain.NewNode("cccccc", domain.NodeTypeAxiom, "mathematics", "Choice"))

	fragment.AddEdge(domain.NewEdge("aaaaaa", "bbbbbb", "supports", "philosophy").WithWeight(0.9))
	fragment.AddEdge(*domain.NewEdge("cccccc", "bbbbbb", "proves", "mathematics"))
	fragment.AddEdge(*domain.NewEdge("aaaaaa", "zzzzzz", "supports", "philosophy"))
	return fragment
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullConversions(t *testing.T) {
	assert.Equal(t, "test", nullToString(sql.NullString{String: "test", Valid: true}))
	assert.Equal(t, "", nullToString(sql.NullString{String: "test", Valid: false}))
	assert.Equal(t, sql.NullString{}, stringToNull(""))
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, stringToNull("x"))

	assert.Nil(t, nullToFloatPtr(sql.NullFloat64{}))
	w := 0.5
	assert.Equal(t, &w, nullToFloatPtr(floatPtrToNull(&w)))
	assert.False(t, floatPtrToNull(nil).Valid)
}

func TestMarshalToNull(t *testing.T) {
	tests := []struct {
		name  string
		input any
		valid bool
		want  string
	}{
		{"nil", nil, false, ""},
		{"empty map", map[string]any{}, false, ""},
		{"empty slice", []string{}, false, ""},
		{"nil slice", []string(nil), false, ""},
		{"slice", []string{"a"}, true, `["a"]`},
		{"map", map[string]any{"k": 1}, true, `{"k":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshalToNull(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.want, got.String)
		})
	}
}

// ============================================================================
// Repository Tests
// ============================================================================

func TestImportGraph(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.ImportGraph(ctx, newTestFragment()))

	t.Run("node round trip", func(t *testing.T) {
		node, err := repo.GetNode(ctx, "aaaaaa")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeTypeAxiom, node.Type)
		assert.Equal(t, "Identity", node.Title)
		assert.Equal(t, []string{"logic", "classical"}, node.Tags)
		assert.Equal(t, 0.9, node.Metadata["confidence"])
		assert.Equal(t, []string{"Aristotle, Metaphysics"}, node.Sources)
		assert.Equal(t, "2024-01-15T10:00:00Z", node.Created)
		assert.Empty(t, node.Updated)
	})

	t.Run("missing node", func(t *testing.T) {
		_, err := repo.GetNode(ctx, "nope00")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("edges keep order and dangling endpoints", func(t *testing.T) {
		edges, err := repo.ListEdges(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, newTestFragment().Edges, edges)
	})

	t.Run("edge filter", func(t *testing.T) {
		edges, err := repo.ListEdges(ctx, "proves")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "cccccc", edges[0].From)
		assert.Nil(t, edges[0].Weight)
	})

	t.Run("node filters", func(t *testing.T) {
		all, err := repo.ListNodes(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		axioms, err := repo.ListNodes(ctx, "axiom", "")
		require.NoError(t, err)
		assert.Len(t, axioms, 2)

		mathAxioms, err := repo.ListNodes(ctx, "axiom", "mathematics")
		require.NoError(t, err)
		require.Len(t, mathAxioms, 1)
		assert.Equal(t, "cccccc", mathAxioms[0].ID)
	})

	t.Run("neighbors", func(t *testing.T) {
		ids, err := repo.Neighbors(ctx, "aaaaaa")
		require.NoError(t, err)
		assert.Equal(t, []string{"bbbbbb", "zzzzzz"}, ids)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Nodes)
		assert.Equal(t, 3, stats.Edges)
		assert.Equal(t, map[string]int{"philosophy": 1, "mathematics": 2}, stats.ByDomain)
		assert.Equal(t, map[string]int{"axiom": 2, "theorem": 1}, stats.ByType)
	})
}

func TestImportGraph_Replaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.ImportGraph(ctx, newTestFragment()))

	smaller := domain.NewGraphFragment()
	smaller.AddNode(*domain.NewNode("dddddd", domain.NodeTypeConcept, "physics", "Mass"))
	require.NoError(t, repo.ImportGraph(ctx, smaller))

	fragment, err := repo.GetFragment(ctx)
	require.NoError(t, err)
	require.Len(t, fragment.Nodes, 1)
	assert.Equal(t, "dddddd", fragment.Nodes[0].ID)
	assert.Empty(t, fragment.Edges)
}

func TestImportGraph_DuplicateKeepsFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	fragment := domain.NewGraphFragment()
	fragment.AddNode(*domain.NewNode("aaaaaa", domain.NodeTypeAxiom, "philosophy", "first"))
	fragment.AddNode(*domain.NewNode("aaaaaa", domain.NodeTypeAxiom, "philosophy", "second"))
	require.NoError(t, repo.ImportGraph(ctx, fragment))

	node, err := repo.GetNode(ctx, "aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "first", node.Title)
}

func TestNew_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.ImportGraph(ctx, newTestFragment()))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	stats, err := reopened.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)
}
