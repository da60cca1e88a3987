package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventRetrieval  EventType = "retrieval"
	EventPrompt     EventType = "prompt"
	EventGeneration EventType = "generation"
)

// ChunkMetadata carries the relevance metadata of one retrieved chunk.
// Everything except the score is optional; malformed upstream metadata
// degrades to zero values instead of failing capture.
type ChunkMetadata struct {
	Source     *string `json:"source"`
	Page       *int    `json:"page"`
	Score      float64 `json:"score"`
	DocumentId *string `json:"document_id"`
}

type RetrievedChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RetrievalEvent records the retrieval phase: what came back, how long it
// took, and what embedding the query cost.
type RetrievalEvent struct {
	Id              uuid.UUID
	SessionId       uuid.UUID
	Timestamp       time.Time
	Chunks          []RetrievedChunk
	DurationMs      int64
	EmbeddingTokens int
	EmbeddingCost   float64
	RetrievalMethod string
}

// PromptEvent records the assembled prompt sent to the LLM.
type PromptEvent struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	Timestamp    time.Time
	Prompt       string
	TokenCount   int
	TemplateName *string
}

// GenerationEvent records the LLM response. Cost is a cache of the Cost
// Engine derivation from (input tokens, output tokens, model); readers
// recompute rather than trust it.
type GenerationEvent struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	Timestamp    time.Time
	Response     string
	Model        string
	InputTokens  int
	OutputTokens int
	Cost         float64
	DurationMs   int64
	Temperature  *float64
}

// StoredEvent is the on-disk discriminated wrapper. The payload is the
// versioned JSON encoding of one of the three phase events; EventType is
// the discriminant.
type StoredEvent struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	EventType EventType
	Timestamp time.Time
	Data      json.RawMessage
}

// EventPartition is the fixed three-slot read shape for one session's
// events. At most one event per phase survives a read.
type EventPartition struct {
	Retrieval  *RetrievalEvent
	Prompt     *PromptEvent
	Generation *GenerationEvent
}
