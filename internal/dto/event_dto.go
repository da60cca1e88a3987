package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChunkMetadataPayload struct {
	Source     *string `json:"source"`
	Page       *int    `json:"page"`
	Score      float64 `json:"score"`
	DocumentId *string `json:"document_id"`
}

type RetrievedChunkPayload struct {
	Text     string               `json:"text"`
	Metadata ChunkMetadataPayload `json:"metadata"`
}

type RetrievalEventResponse struct {
	Id              uuid.UUID               `json:"id"`
	SessionId       uuid.UUID               `json:"session_id"`
	Timestamp       time.Time               `json:"timestamp"`
	Chunks          []RetrievedChunkPayload `json:"chunks"`
	DurationMs      int64                   `json:"duration_ms"`
	EmbeddingTokens int                     `json:"embedding_tokens"`
	EmbeddingCost   float64                 `json:"embedding_cost"`
	RetrievalMethod string                  `json:"retrieval_method"`
}

type PromptEventResponse struct {
	Id           uuid.UUID `json:"id"`
	SessionId    uuid.UUID `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	Prompt       string    `json:"prompt"`
	TokenCount   int       `json:"token_count"`
	TemplateName *string   `json:"template_name"`
}

type GenerationEventResponse struct {
	Id           uuid.UUID `json:"id"`
	SessionId    uuid.UUID `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	Response     string    `json:"response"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	DurationMs   int64     `json:"duration_ms"`
	Temperature  *float64  `json:"temperature"`
}

// LogEventRequest carries an externally captured event in its stored,
// discriminated form. The payload is passed through as-is.
type LogEventRequest struct {
	EventType string          `json:"event_type" validate:"required,oneof=retrieval prompt generation"`
	Timestamp *time.Time      `json:"timestamp"`
	Data      json.RawMessage `json:"data" validate:"required"`
}

type StoredEventResponse struct {
	Id        uuid.UUID       `json:"id"`
	SessionId uuid.UUID       `json:"session_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}
