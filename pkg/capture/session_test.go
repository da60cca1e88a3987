package capture

import (
	"math"
	"testing"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/pkg/cost"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(query string) *Session {
	return NewSession(uuid.New(), query, cost.NewCalculator())
}

func TestCaptureRetrievalResolvesDocuments(t *testing.T) {
	s := newTestSession("what is the capital of france?")

	page := 3
	docs := []Document{
		StructuredDoc{
			Text: "Paris is the capital of France.",
			Metadata: map[string]interface{}{
				"source": "geography.pdf",
				"page":   page,
				"score":  0.92,
				"doc_id": "doc-1",
			},
		},
		MappingDoc{Fields: map[string]interface{}{
			"page_content": "France is in Europe.",
			"metadata": map[string]interface{}{
				"similarity": 0.81,
			},
		}},
		PlainText("The Seine flows through Paris."),
	}

	event := s.CaptureRetrieval(docs, 150, "")

	require.Len(t, event.Chunks, 3)
	assert.Equal(t, "Paris is the capital of France.", event.Chunks[0].Text)
	require.NotNil(t, event.Chunks[0].Metadata.Source)
	assert.Equal(t, "geography.pdf", *event.Chunks[0].Metadata.Source)
	require.NotNil(t, event.Chunks[0].Metadata.Page)
	assert.Equal(t, 3, *event.Chunks[0].Metadata.Page)
	assert.Equal(t, 0.92, event.Chunks[0].Metadata.Score)
	require.NotNil(t, event.Chunks[0].Metadata.DocumentId)
	assert.Equal(t, "doc-1", *event.Chunks[0].Metadata.DocumentId)

	assert.Equal(t, "France is in Europe.", event.Chunks[1].Text)
	assert.Equal(t, 0.81, event.Chunks[1].Metadata.Score)

	assert.Equal(t, "The Seine flows through Paris.", event.Chunks[2].Text)
	assert.Nil(t, event.Chunks[2].Metadata.Source)
	assert.Equal(t, 0.0, event.Chunks[2].Metadata.Score)

	assert.Equal(t, int64(150), event.DurationMs)
	assert.Equal(t, "vector_search", event.RetrievalMethod)
}

func TestCaptureRetrievalMalformedMetadata(t *testing.T) {
	s := newTestSession("query")

	docs := []Document{
		StructuredDoc{
			Text: "chunk",
			Metadata: map[string]interface{}{
				"source": 42,          // wrong type
				"page":   "not a num", // wrong type
				"score":  "high",      // wrong type
			},
		},
	}

	event := s.CaptureRetrieval(docs, 0, "")
	require.Len(t, event.Chunks, 1)
	assert.Nil(t, event.Chunks[0].Metadata.Source)
	assert.Nil(t, event.Chunks[0].Metadata.Page)
	assert.Equal(t, 0.0, event.Chunks[0].Metadata.Score)
}

func TestCaptureRetrievalEmptyDocuments(t *testing.T) {
	// An empty query costs nothing regardless of tokenizer availability.
	s := newTestSession("")

	event := s.CaptureRetrieval(nil, 10, "")
	assert.Empty(t, event.Chunks)
	assert.Equal(t, 0, event.EmbeddingTokens)
	assert.Equal(t, 0.0, event.EmbeddingCost)
}

func TestCaptureOverwritesPhase(t *testing.T) {
	s := newTestSession("query")

	first := s.CapturePrompt("first prompt", "", nil)
	second := s.CapturePrompt("second prompt", "", nil)

	assert.NotEqual(t, first.Id, second.Id)
	require.NotNil(t, s.Prompt())
	assert.Equal(t, "second prompt", s.Prompt().Prompt)
}

func TestCaptureGenerationCost(t *testing.T) {
	s := newTestSession("query")

	event := s.CaptureGeneration("answer", "gpt-4", 500, 200, 2500, nil)

	// 500/1000*0.03 + 200/1000*0.06
	assert.InDelta(t, 0.027, event.Cost, 1e-12)
	assert.Equal(t, "gpt-4", event.Model)
	assert.Equal(t, int64(2500), event.DurationMs)
}

func TestTotalDuration(t *testing.T) {
	s := newTestSession("")

	assert.Nil(t, s.TotalDuration())

	s.CaptureRetrieval(nil, 150, "")
	assert.Nil(t, s.TotalDuration(), "duration is unknown until generation lands")

	s.CaptureGeneration("answer", "gpt-4", 100, 50, 2500, nil)
	d := s.TotalDuration()
	require.NotNil(t, d)
	assert.Equal(t, int64(2650), *d)
}

func TestTotalCostSumsPhases(t *testing.T) {
	s := newTestSession("")

	assert.Equal(t, 0.0, s.TotalCost())

	s.CaptureRetrieval(nil, 10, "")
	s.CaptureGeneration("answer", "gpt-4", 1000, 500, 100, nil)

	want := s.Retrieval().EmbeddingCost + s.Generation().Cost
	assert.True(t, math.Abs(s.TotalCost()-want) < 1e-12)
}

func TestFinalize(t *testing.T) {
	s := newTestSession("query")
	s.CaptureRetrieval(nil, 100, "")
	s.CaptureGeneration("answer", "gpt-3.5-turbo", 200, 100, 900, nil)

	final := s.Finalize()

	assert.Equal(t, s.SessionId, final.Id)
	assert.Equal(t, "query", final.Query)
	require.NotNil(t, final.CompletedAt)
	require.NotNil(t, final.TotalCost)
	assert.InDelta(t, s.TotalCost(), *final.TotalCost, 1e-12)
	require.NotNil(t, final.TotalDurationMs)
	assert.Equal(t, int64(1000), *final.TotalDurationMs)
	require.NotNil(t, final.Model)
	assert.Equal(t, "gpt-3.5-turbo", *final.Model)
}

func TestFinalizeWithoutGeneration(t *testing.T) {
	s := newTestSession("query")
	s.CapturePrompt("prompt", "", nil)

	final := s.Finalize()
	assert.Nil(t, final.Model)
	assert.Nil(t, final.TotalDurationMs)
	require.NotNil(t, final.TotalCost)
	assert.Equal(t, 0.0, *final.TotalCost)
}

func TestFlushEventsOrder(t *testing.T) {
	s := newTestSession("query")

	// Captured out of order on purpose.
	s.CaptureGeneration("answer", "gpt-4", 10, 5, 100, nil)
	s.CaptureRetrieval(nil, 50, "")
	s.CapturePrompt("prompt", "", nil)

	events, err := s.FlushEvents()
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, entity.EventRetrieval, events[0].EventType)
	assert.Equal(t, entity.EventPrompt, events[1].EventType)
	assert.Equal(t, entity.EventGeneration, events[2].EventType)

	for _, e := range events {
		assert.Equal(t, s.SessionId, e.SessionId)
		assert.NotEmpty(t, e.Data)
	}
}

func TestFlushEventsPartial(t *testing.T) {
	s := newTestSession("query")
	s.CapturePrompt("prompt only", "", nil)

	events, err := s.FlushEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.EventPrompt, events[0].EventType)
}
