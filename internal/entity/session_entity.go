package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session tracks one query through the RAG pipeline, from retrieval
// through generation. Totals stay nil until the run completes.
type Session struct {
	Id              uuid.UUID
	Query           string
	CreatedAt       time.Time
	CompletedAt     *time.Time
	TotalCost       *float64
	TotalDurationMs *int64
	Model           *string
}

// CostBreakdown decomposes a session's cost into embedding, input-token
// and output-token components. Derived on every read, never persisted.
type CostBreakdown struct {
	SessionId     uuid.UUID
	EmbeddingCost float64
	InputCost     float64
	OutputCost    float64
	TotalCost     float64
}

// SessionDetail is the full read view of one pipeline execution.
type SessionDetail struct {
	Session       Session
	Retrieval     *RetrievalEvent
	Prompt        *PromptEvent
	Generation    *GenerationEvent
	CostBreakdown CostBreakdown
}
