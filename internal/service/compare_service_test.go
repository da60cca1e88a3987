package service

import (
	"context"
	"testing"
	"time"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunks(texts ...string) []entity.RetrievedChunk {
	out := make([]entity.RetrievedChunk, len(texts))
	for i, text := range texts {
		out[i] = entity.RetrievedChunk{Text: text}
	}
	return out
}

func (f *serviceFixture) storeSnapshot(t *testing.T, query, answer string, cost float64, chunkTexts ...string) uuid.UUID {
	t.Helper()
	snapshot := &entity.Snapshot{
		Id:        uuid.New(),
		Query:     query,
		Chunks:    chunks(chunkTexts...),
		Answer:    answer,
		Cost:      cost,
		Timestamp: time.Now().UTC(),
		Tags:      []string{},
	}
	require.NoError(t, f.snapshots.Create(context.Background(), snapshot))
	return snapshot.Id
}

func TestCompareRetrievalDiff(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "q", "a", 0.01, "alpha", "beta", "gamma")
	id2 := f.storeSnapshot(t, "q", "a", 0.01, "beta", "gamma", "delta")

	result, err := svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)

	assert.True(t, result.QuerySame)
	assert.ElementsMatch(t, []string{"delta"}, result.RetrievalDiff.Added)
	assert.ElementsMatch(t, []string{"alpha"}, result.RetrievalDiff.Removed)
	assert.ElementsMatch(t, []string{"beta", "gamma"}, result.RetrievalDiff.Unchanged)
	// 2 shared of 4 distinct chunks.
	assert.InDelta(t, 0.5, result.RetrievalDiff.SimilarityScore, 1e-12)
}

func TestCompareIdenticalRetrieval(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "q", "a", 0.01, "alpha", "beta")
	id2 := f.storeSnapshot(t, "q", "a", 0.01, "alpha", "beta")

	result, err := svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)

	assert.Empty(t, result.RetrievalDiff.Added)
	assert.Empty(t, result.RetrievalDiff.Removed)
	assert.InDelta(t, 1.0, result.RetrievalDiff.SimilarityScore, 1e-12)
}

func TestCompareEmptyRetrievalSets(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "q", "a", 0)
	id2 := f.storeSnapshot(t, "q", "a", 0)

	result, err := svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.RetrievalDiff.SimilarityScore, 1e-12)
}

func TestCompareAnswerDiff(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "q", "first line\nshared line", 0.01)
	id2 := f.storeSnapshot(t, "q", "shared line\nnew line", 0.01)

	result, err := svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)

	assert.Contains(t, result.AnswerDiff.DiffLines, "- first line")
	assert.Contains(t, result.AnswerDiff.DiffLines, "+ new line")
	assert.NotContains(t, result.AnswerDiff.DiffLines, "- shared line")
	assert.Equal(t, len("first line\nshared line"), result.AnswerDiff.LengthOld)
	assert.Equal(t, len("shared line\nnew line"), result.AnswerDiff.LengthNew)
	// 1 shared of 3 distinct lines.
	assert.InDelta(t, 1.0/3.0, result.AnswerDiff.SimilarityScore, 1e-12)
}

func TestCompareCostDiff(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)
	ctx := context.Background()

	t.Run("increase", func(t *testing.T) {
		id1 := f.storeSnapshot(t, "q", "a", 0.01)
		id2 := f.storeSnapshot(t, "q", "a", 0.015)

		result, err := svc.Compare(ctx, id1, id2)
		require.NoError(t, err)
		assert.InDelta(t, 0.005, result.CostDiff.Delta, 1e-12)
		assert.InDelta(t, 50, result.CostDiff.PercentChange, 1e-9)
	})

	t.Run("zero old cost", func(t *testing.T) {
		id1 := f.storeSnapshot(t, "q", "a", 0)
		id2 := f.storeSnapshot(t, "q", "a", 0.01)

		result, err := svc.Compare(ctx, id1, id2)
		require.NoError(t, err)
		assert.InDelta(t, 100, result.CostDiff.PercentChange, 1e-9)
	})

	t.Run("both zero", func(t *testing.T) {
		id1 := f.storeSnapshot(t, "q", "a", 0)
		id2 := f.storeSnapshot(t, "q", "a", 0)

		result, err := svc.Compare(ctx, id1, id2)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.CostDiff.PercentChange)
	})
}

func TestCompareDifferentQueries(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "what is go?", "a", 0.01)
	id2 := f.storeSnapshot(t, "what is rust?", "a", 0.01)

	result, err := svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)
	assert.False(t, result.QuerySame)
}

func TestCompareMissingSnapshot(t *testing.T) {
	f := newFixture(t)
	svc := NewCompareService(f.snapshots)

	id1 := f.storeSnapshot(t, "q", "a", 0.01)

	_, err := svc.Compare(context.Background(), id1, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
