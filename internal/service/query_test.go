package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthmines/internal/domain"
)

func TestGraphService_Paths(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	dir := newTestGraphDir(t)

	paths, err := svc.Paths(ctx, PathsOptions{GraphDir: dir, From: "aaaaaa", To: "dddddd", MaxHops: 5})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"aaaaaa", "bbbbbb", "cccccc", "dddddd"}}, paths)

	paths, err = svc.Paths(ctx, PathsOptions{GraphDir: dir, From: "aaaaaa", To: "dddddd", MaxHops: 2})
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = svc.Paths(ctx, PathsOptions{GraphDir: dir, From: "dddddd", To: "aaaaaa", MaxHops: 5})
	require.NoError(t, err)
	assert.Empty(t, paths, "edges are followed forward only")

	_, err = svc.Paths(ctx, PathsOptions{GraphDir: dir, From: "aaaaaa", To: "xyz999", MaxHops: 5})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestGraphService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks every node", func(t *testing.T) {
		svc, events := newTestService(t)
		scores, err := svc.Analyze(ctx, AnalyzeOptions{GraphDir: newTestGraphDir(t)})
		require.NoError(t, err)
		require.Len(t, scores, 4)

		// attacks is not epistemic, so dddddd is a foundation of its own
		assert.Equal(t, "aaaaaa", scores[0].ID)
		assert.InDelta(t, 0.5, scores[0].Score, 1e-9)
		assert.Equal(t, []string{"bbbbbb", "cccccc"}, scores[0].Orphaned)
		assert.Equal(t, "bbbbbb", scores[1].ID)
		assert.InDelta(t, 0.25, scores[1].Score, 1e-9)
		assert.Zero(t, scores[2].Score)

		got := drain(events)
		last := got[len(got)-1]
		assert.Equal(t, EventAnalysisFinished, last.Type)
		assert.Equal(t, "2", last.Payload["foundations"])
	})

	t.Run("top", func(t *testing.T) {
		svc, _ := newTestService(t)
		scores, err := svc.Analyze(ctx, AnalyzeOptions{GraphDir: newTestGraphDir(t), Top: 2})
		require.NoError(t, err)
		assert.Len(t, scores, 2)
	})

	t.Run("single node", func(t *testing.T) {
		svc, _ := newTestService(t)
		scores, err := svc.Analyze(ctx, AnalyzeOptions{GraphDir: newTestGraphDir(t), NodeID: "bbbbbb"})
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, 2, scores[0].Descendants)
		assert.Equal(t, []string{"cccccc"}, scores[0].Orphaned)
	})

	t.Run("unknown node", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Analyze(ctx, AnalyzeOptions{GraphDir: newTestGraphDir(t), NodeID: "xyz999"})
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}
