package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/implementation"
	"rag-debugger-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	sessions  contract.SessionRepository
	events    contract.EventRepository
	snapshots contract.SnapshotRepository
	session   ISessionService
	snapshot  ISnapshotService
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := database.NewGormDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sessions := implementation.NewSessionRepository(db)
	events := implementation.NewEventRepository(db)
	snapshots := implementation.NewSnapshotRepository(db)

	return &serviceFixture{
		sessions:  sessions,
		events:    events,
		snapshots: snapshots,
		session:   NewSessionService(sessions, events, NoopFeedPublisher{}),
		snapshot:  NewSnapshotService(snapshots, sessions, events, NoopFeedPublisher{}),
	}
}

func (f *serviceFixture) createSession(t *testing.T, query string) uuid.UUID {
	t.Helper()
	res, err := f.session.Create(context.Background(), &dto.CreateSessionRequest{Query: query})
	require.NoError(t, err)
	return res.Id
}

func (f *serviceFixture) storeGeneration(t *testing.T, sessionId uuid.UUID, inputTokens, outputTokens int, cost float64) {
	t.Helper()
	gen := &entity.GenerationEvent{
		Id:           uuid.New(),
		SessionId:    sessionId,
		Timestamp:    time.Now().UTC(),
		Response:     "answer",
		Model:        "gpt-4",
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
	}
	stored, err := gen.ToStored()
	require.NoError(t, err)
	require.NoError(t, f.events.Create(context.Background(), stored))
}

func (f *serviceFixture) storeRetrieval(t *testing.T, sessionId uuid.UUID, embeddingCost float64, chunks ...string) {
	t.Helper()
	retrieved := make([]entity.RetrievedChunk, len(chunks))
	for i, text := range chunks {
		retrieved[i] = entity.RetrievedChunk{Text: text}
	}
	event := &entity.RetrievalEvent{
		Id:              uuid.New(),
		SessionId:       sessionId,
		Timestamp:       time.Now().UTC(),
		Chunks:          retrieved,
		EmbeddingCost:   embeddingCost,
		RetrievalMethod: "vector_search",
	}
	stored, err := event.ToStored()
	require.NoError(t, err)
	require.NoError(t, f.events.Create(context.Background(), stored))
}

func TestSessionShowNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.Show(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCostBreakdownProportionalSplit(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "q")

	f.storeRetrieval(t, id, 0.0001, "chunk")
	f.storeGeneration(t, id, 300, 100, 0.02)

	breakdown, err := f.session.CostBreakdown(context.Background(), id)
	require.NoError(t, err)

	assert.InDelta(t, 0.0001, breakdown.EmbeddingCost, 1e-12)
	assert.InDelta(t, 0.02*0.75, breakdown.InputCost, 1e-12)
	assert.InDelta(t, 0.02*0.25, breakdown.OutputCost, 1e-12)
	assert.InDelta(t, breakdown.EmbeddingCost+breakdown.InputCost+breakdown.OutputCost, breakdown.TotalCost, 1e-15)
}

func TestCostBreakdownEvenSplitWithoutTokenCounts(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "q")

	f.storeGeneration(t, id, 0, 0, 0.01)

	breakdown, err := f.session.CostBreakdown(context.Background(), id)
	require.NoError(t, err)

	assert.InDelta(t, 0.005, breakdown.InputCost, 1e-12)
	assert.InDelta(t, 0.005, breakdown.OutputCost, 1e-12)
	assert.InDelta(t, 0.01, breakdown.TotalCost, 1e-12)
}

func TestCostBreakdownEmptySession(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "q")

	breakdown, err := f.session.CostBreakdown(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, breakdown.TotalCost)
}

func TestSessionShowAssemblesPartition(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "what is rust?")

	f.storeRetrieval(t, id, 0.0001, "chunk a", "chunk b")
	f.storeGeneration(t, id, 100, 50, 0.006)

	detail, err := f.session.Show(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "what is rust?", detail.Session.Query)
	require.NotNil(t, detail.Retrieval)
	assert.Len(t, detail.Retrieval.Chunks, 2)
	assert.Nil(t, detail.Prompt)
	require.NotNil(t, detail.Generation)
	assert.Equal(t, "answer", detail.Generation.Response)
	assert.InDelta(t, 0.0001+0.006, detail.CostBreakdown.TotalCost, 1e-12)
}

func TestSessionUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "q")
	ctx := context.Background()

	total := 0.05
	res, err := f.session.Update(ctx, id, &dto.UpdateSessionRequest{TotalCost: &total})
	require.NoError(t, err)
	require.NotNil(t, res.TotalCost)
	assert.Equal(t, 0.05, *res.TotalCost)

	t.Run("empty update rejected", func(t *testing.T) {
		_, err := f.session.Update(ctx, id, &dto.UpdateSessionRequest{})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := f.session.Update(ctx, uuid.New(), &dto.UpdateSessionRequest{TotalCost: &total})
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestGetLatestId(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.GetLatestId(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	f.createSession(t, "older")
	time.Sleep(5 * time.Millisecond)
	newest := f.createSession(t, "newest")

	latest, err := f.session.GetLatestId(ctx)
	require.NoError(t, err)
	assert.Equal(t, newest, latest.SessionId)
}

func TestLogEvent(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t, "q")
	ctx := context.Background()

	payload, _ := json.Marshal(map[string]interface{}{"version": 1, "prompt": "p", "token_count": 2})
	res, err := f.session.LogEvent(ctx, id, &dto.LogEventRequest{
		EventType: "prompt",
		Data:      payload,
	})
	require.NoError(t, err)
	assert.Equal(t, id, res.SessionId)
	assert.Equal(t, "prompt", res.EventType)

	t.Run("unknown session rejected", func(t *testing.T) {
		_, err := f.session.LogEvent(ctx, uuid.New(), &dto.LogEventRequest{
			EventType: "prompt",
			Data:      payload,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestSessionDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.session.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
