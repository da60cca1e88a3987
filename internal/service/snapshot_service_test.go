package service

import (
	"context"
	"testing"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCreateDenormalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.createSession(t, "what is rust?")
	f.storeRetrieval(t, id, 0.0001, "chunk a", "chunk b")
	f.storeGeneration(t, id, 100, 50, 0.006)

	total := 0.0061
	_, err := f.session.Update(ctx, id, &dto.UpdateSessionRequest{TotalCost: &total})
	require.NoError(t, err)

	snapshot, err := f.snapshot.Create(ctx, &dto.CreateSnapshotRequest{
		SessionId: id,
		Tags:      []string{"baseline", "v1"},
	})
	require.NoError(t, err)

	require.NotNil(t, snapshot.SessionId)
	assert.Equal(t, id, *snapshot.SessionId)
	assert.Equal(t, "what is rust?", snapshot.Query)
	assert.Len(t, snapshot.Chunks, 2)
	assert.Equal(t, "answer", snapshot.Answer)
	assert.Equal(t, 0.0061, snapshot.Cost)
	assert.Equal(t, []string{"baseline", "v1"}, snapshot.Tags, "tag order is preserved")
	require.NotNil(t, snapshot.Model)
	assert.Equal(t, "gpt-4", *snapshot.Model)
}

func TestSnapshotCreateIncompleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No events, no totals: the snapshot still captures what exists.
	id := f.createSession(t, "q")

	snapshot, err := f.snapshot.Create(ctx, &dto.CreateSnapshotRequest{SessionId: id})
	require.NoError(t, err)

	assert.Empty(t, snapshot.Chunks)
	assert.Equal(t, "", snapshot.Answer)
	assert.Equal(t, 0.0, snapshot.Cost)
	assert.Empty(t, snapshot.Tags)
	assert.Nil(t, snapshot.Model)
}

func TestSnapshotCreateMissingSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.snapshot.Create(context.Background(), &dto.CreateSnapshotRequest{SessionId: uuid.New()})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSnapshotGetAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.createSession(t, "q")
	created, err := f.snapshot.Create(ctx, &dto.CreateSnapshotRequest{SessionId: id})
	require.NoError(t, err)

	found, err := f.snapshot.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)

	require.NoError(t, f.snapshot.Delete(ctx, created.Id))

	_, err = f.snapshot.Get(ctx, created.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	err = f.snapshot.Delete(ctx, created.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSnapshotList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := f.createSession(t, "q")
		_, err := f.snapshot.Create(ctx, &dto.CreateSnapshotRequest{SessionId: id})
		require.NoError(t, err)
	}

	all, err := f.snapshot.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
