package capture

import (
	"time"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/pkg/cost"

	"github.com/google/uuid"
)

const (
	// Token counting for query/prompt text defaults to the GPT-3.5
	// tokenizer; pricing still follows the model actually named.
	DefaultTokenModel     = "gpt-3.5-turbo"
	DefaultEmbeddingModel = "text-embedding-ada-002"
)

// Session aggregates the phase events of one in-flight pipeline run. It
// holds at most one event per phase; capturing a phase twice keeps only
// the last result. The aggregator owns nothing durable and is discarded
// after its events are flushed.
type Session struct {
	SessionId uuid.UUID
	Query     string
	CreatedAt time.Time

	calc *cost.Calculator

	retrieval  *entity.RetrievalEvent
	prompt     *entity.PromptEvent
	generation *entity.GenerationEvent
}

func NewSession(sessionId uuid.UUID, query string, calc *cost.Calculator) *Session {
	return &Session{
		SessionId: sessionId,
		Query:     query,
		CreatedAt: time.Now().UTC(),
		calc:      calc,
	}
}

// CaptureRetrieval records the retrieval phase. The embedding cost is
// derived from the session's query text, not from the documents.
func (s *Session) CaptureRetrieval(documents []Document, durationMs int64, embeddingModel string) *entity.RetrievalEvent {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	chunks := make([]entity.RetrievedChunk, 0, len(documents))
	for _, doc := range documents {
		chunks = append(chunks, resolveChunk(doc))
	}

	queryTokens := s.calc.CountTokens(s.Query, DefaultTokenModel)
	embeddingCost := s.calc.EmbeddingCost(queryTokens, embeddingModel)

	s.retrieval = &entity.RetrievalEvent{
		Id:              uuid.New(),
		SessionId:       s.SessionId,
		Timestamp:       time.Now().UTC(),
		Chunks:          chunks,
		DurationMs:      durationMs,
		EmbeddingTokens: queryTokens,
		EmbeddingCost:   embeddingCost,
		RetrievalMethod: "vector_search",
	}
	return s.retrieval
}

// CapturePrompt records the assembled prompt and its token count.
func (s *Session) CapturePrompt(prompt, model string, templateName *string) *entity.PromptEvent {
	if model == "" {
		model = DefaultTokenModel
	}

	s.prompt = &entity.PromptEvent{
		Id:           uuid.New(),
		SessionId:    s.SessionId,
		Timestamp:    time.Now().UTC(),
		Prompt:       prompt,
		TokenCount:   s.calc.CountTokens(prompt, model),
		TemplateName: templateName,
	}
	return s.prompt
}

// CaptureGeneration records the LLM response; the cost is derived from
// the token counts and model through the price table.
func (s *Session) CaptureGeneration(response, model string, inputTokens, outputTokens int, durationMs int64, temperature *float64) *entity.GenerationEvent {
	_, _, totalCost := s.calc.GenerationCost(inputTokens, outputTokens, model)

	s.generation = &entity.GenerationEvent{
		Id:           uuid.New(),
		SessionId:    s.SessionId,
		Timestamp:    time.Now().UTC(),
		Response:     response,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         totalCost,
		DurationMs:   durationMs,
		Temperature:  temperature,
	}
	return s.generation
}

func (s *Session) Retrieval() *entity.RetrievalEvent   { return s.retrieval }
func (s *Session) Prompt() *entity.PromptEvent         { return s.prompt }
func (s *Session) Generation() *entity.GenerationEvent { return s.generation }

// TotalDuration sums the retrieval and generation durations. Prompt
// assembly has no duration field, so it is excluded from the definition.
// The result is unknown (nil), not zero, until both phases are present.
func (s *Session) TotalDuration() *int64 {
	if s.retrieval == nil || s.generation == nil {
		return nil
	}
	total := s.retrieval.DurationMs + s.generation.DurationMs
	return &total
}

// TotalCost sums whatever costs are captured so far. Unlike duration,
// cost has a well-defined empty value of zero.
func (s *Session) TotalCost() float64 {
	total := 0.0
	if s.retrieval != nil {
		total += s.retrieval.EmbeddingCost
	}
	if s.generation != nil {
		total += s.generation.Cost
	}
	return total
}

// Finalize produces the completed Session view for persistence.
func (s *Session) Finalize() entity.Session {
	now := time.Now().UTC()
	totalCost := s.TotalCost()

	var model *string
	if s.generation != nil {
		m := s.generation.Model
		model = &m
	}

	return entity.Session{
		Id:              s.SessionId,
		Query:           s.Query,
		CreatedAt:       s.CreatedAt,
		CompletedAt:     &now,
		TotalCost:       &totalCost,
		TotalDurationMs: s.TotalDuration(),
		Model:           model,
	}
}

// FlushEvents wraps the captured phases as stored events, always in
// retrieval, prompt, generation order regardless of capture order.
func (s *Session) FlushEvents() ([]*entity.StoredEvent, error) {
	events := make([]*entity.StoredEvent, 0, 3)

	if s.retrieval != nil {
		stored, err := s.retrieval.ToStored()
		if err != nil {
			return nil, err
		}
		events = append(events, stored)
	}
	if s.prompt != nil {
		stored, err := s.prompt.ToStored()
		if err != nil {
			return nil, err
		}
		events = append(events, stored)
	}
	if s.generation != nil {
		stored, err := s.generation.ToStored()
		if err != nil {
			return nil, err
		}
		events = append(events, stored)
	}

	return events, nil
}
