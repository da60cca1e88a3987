package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Query string `json:"query" validate:"required"`
}

type SessionResponse struct {
	Id              uuid.UUID  `json:"id"`
	Query           string     `json:"query"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	TotalCost       *float64   `json:"total_cost"`
	TotalDurationMs *int64     `json:"total_duration_ms"`
	Model           *string    `json:"model"`
}

type ListSessionsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// UpdateSessionRequest is the partial-update allow-list. At least one
// field must be set; the service rejects an empty update.
type UpdateSessionRequest struct {
	CompletedAt     *time.Time `json:"completed_at"`
	TotalCost       *float64   `json:"total_cost"`
	TotalDurationMs *int64     `json:"total_duration_ms"`
	Model           *string    `json:"model"`
}

type CostBreakdownResponse struct {
	SessionId     uuid.UUID `json:"session_id"`
	EmbeddingCost float64   `json:"embedding_cost"`
	InputCost     float64   `json:"input_cost"`
	OutputCost    float64   `json:"output_cost"`
	TotalCost     float64   `json:"total_cost"`
}

type SessionDetailResponse struct {
	Session       SessionResponse          `json:"session"`
	Retrieval     *RetrievalEventResponse  `json:"retrieval"`
	Prompt        *PromptEventResponse     `json:"prompt"`
	Generation    *GenerationEventResponse `json:"generation"`
	CostBreakdown CostBreakdownResponse    `json:"cost_breakdown"`
}

type LatestSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
}
