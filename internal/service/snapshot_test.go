package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthmines/internal/domain"
)

// exportSnapshot writes the test graph to a SQLite file
func exportSnapshot(t *testing.T, svc *GraphService) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.db")
	require.NoError(t, svc.Export(context.Background(), ExportOptions{
		GraphDir: newTestGraphDir(t),
		Format:   FormatSQLite,
		Output:   path,
	}, nil))
	return path
}

func TestGraphService_OpenSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	path := exportSnapshot(t, svc)

	sn, err := svc.OpenSnapshot(path)
	require.NoError(t, err)
	defer sn.Close()
	assert.Equal(t, path, sn.Path)

	t.Run("stats", func(t *testing.T) {
		stats, err := sn.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Nodes)
		assert.Equal(t, 3, stats.Edges)
		assert.Equal(t, map[string]int{"philosophy": 2, "mathematics": 2}, stats.ByDomain)
	})

	t.Run("nodes by domain and type", func(t *testing.T) {
		nodes, err := sn.Nodes(ctx, NodeFilter{Domain: "mathematics", Type: "theorem"})
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "cccccc", nodes[0].ID)
	})

	t.Run("nodes by tag", func(t *testing.T) {
		nodes, err := sn.Nodes(ctx, NodeFilter{Tag: "logic"})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "aaaaaa", nodes[0].ID)

		nodes, err = sn.Nodes(ctx, NodeFilter{Tag: "physics"})
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("edges by relation", func(t *testing.T) {
		edges, err := sn.ListEdges(ctx, "supports")
		require.NoError(t, err)
		require.Len(t, edges, 2)
		assert.Equal(t, "0.9", edges[0].WeightString())
	})

	t.Run("node detail", func(t *testing.T) {
		detail, err := sn.Node(ctx, "bbbbbb")
		require.NoError(t, err)
		assert.Equal(t, "Noncontradiction", detail.Node.Title)
		assert.Equal(t, []string{"cccccc"}, detail.Neighbors)

		_, err = sn.Node(ctx, "xyz999")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

func TestGraphService_OpenSnapshotMissing(t *testing.T) {
	svc, _ := newTestService(t)
	path := filepath.Join(t.TempDir(), "absent.db")

	_, err := svc.OpenSnapshot(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path, "opening does not create a database")

	_, err = svc.OpenSnapshot(t.TempDir())
	assert.Error(t, err)
}

func TestGraphService_ExtractFromSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, events := newTestService(t)
	path := exportSnapshot(t, svc)
	drain(events)

	fromDir := filepath.Join(t.TempDir(), "dir.toon")
	_, err := svc.Extract(ctx, ExtractOptions{GraphDir: newTestGraphDir(t), NodeID: "aaaaaa", Depth: 2, Output: fromDir})
	require.NoError(t, err)

	fromSnapshot := filepath.Join(t.TempDir(), "snapshot.toon")
	_, err = svc.Extract(ctx, ExtractOptions{Snapshot: path, NodeID: "aaaaaa", Depth: 2, Output: fromSnapshot})
	require.NoError(t, err)

	want, err := os.ReadFile(fromDir)
	require.NoError(t, err)
	got, err := os.ReadFile(fromSnapshot)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	loaded := drain(events)
	require.NotEmpty(t, loaded)
	assert.Equal(t, EventGraphLoaded, loaded[len(loaded)-3].Type)
	assert.Equal(t, path, loaded[len(loaded)-3].Payload["dir"])
}
