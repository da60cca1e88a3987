package service

import (
	"context"
	"testing"

	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/memory"
	"rag-debugger-be/pkg/cost"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureService(f *serviceFixture) ICaptureService {
	return NewCaptureService(f.sessions, f.events, memory.NewCaptureRepository(), cost.NewCalculator(), NoopFeedPublisher{})
}

func TestCaptureLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := newCaptureService(f)
	ctx := context.Background()

	started, err := svc.Start(ctx, &dto.StartCaptureRequest{Query: "what is go?"})
	require.NoError(t, err)
	id := started.SessionId

	state, err := svc.CaptureRetrieval(ctx, id, &dto.CaptureRetrievalRequest{
		Documents: []dto.DocumentPayload{
			{Kind: "structured", Text: "Go is a language.", Metadata: map[string]interface{}{"score": 0.9}},
			{Kind: "text", Value: "Go compiles fast."},
		},
		DurationMs: 120,
	})
	require.NoError(t, err)
	assert.True(t, state.HasRetrieval)
	assert.False(t, state.HasGeneration)

	_, err = svc.CapturePrompt(ctx, id, &dto.CapturePromptRequest{Prompt: "Answer using context."})
	require.NoError(t, err)

	state, err = svc.CaptureGeneration(ctx, id, &dto.CaptureGenerationRequest{
		Response:     "Go is a compiled language.",
		Model:        "gpt-4",
		InputTokens:  500,
		OutputTokens: 200,
		DurationMs:   1800,
	})
	require.NoError(t, err)
	assert.True(t, state.HasGeneration)
	require.NotNil(t, state.TotalDuration)
	assert.Equal(t, int64(1920), *state.TotalDuration)

	final, err := svc.Finish(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, final.CompletedAt)
	require.NotNil(t, final.TotalCost)
	require.NotNil(t, final.Model)
	assert.Equal(t, "gpt-4", *final.Model)

	// Events landed in the store in phase order.
	detail, err := f.session.Show(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, detail.Retrieval)
	assert.Len(t, detail.Retrieval.Chunks, 2)
	require.NotNil(t, detail.Prompt)
	require.NotNil(t, detail.Generation)
	assert.Equal(t, "Go is a compiled language.", detail.Generation.Response)

	// The registry entry is gone: finishing twice is a not-found.
	_, err = svc.Finish(ctx, id)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCaptureUnknownSession(t *testing.T) {
	f := newFixture(t)
	svc := newCaptureService(f)
	ctx := context.Background()

	_, err := svc.CapturePrompt(ctx, uuid.New(), &dto.CapturePromptRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Finish(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCapturePartialFinish(t *testing.T) {
	f := newFixture(t)
	svc := newCaptureService(f)
	ctx := context.Background()

	started, err := svc.Start(ctx, &dto.StartCaptureRequest{Query: "q"})
	require.NoError(t, err)

	_, err = svc.CapturePrompt(ctx, started.SessionId, &dto.CapturePromptRequest{Prompt: "only a prompt"})
	require.NoError(t, err)

	final, err := svc.Finish(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Nil(t, final.Model)
	assert.Nil(t, final.TotalDurationMs)
	require.NotNil(t, final.TotalCost)
	assert.Equal(t, 0.0, *final.TotalCost)

	detail, err := f.session.Show(ctx, started.SessionId)
	require.NoError(t, err)
	assert.Nil(t, detail.Retrieval)
	require.NotNil(t, detail.Prompt)
	assert.Nil(t, detail.Generation)
}
