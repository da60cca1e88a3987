package dto

import (
	"github.com/google/uuid"
)

type StartCaptureRequest struct {
	Query string `json:"query" validate:"required"`
}

type StartCaptureResponse struct {
	SessionId uuid.UUID `json:"session_id"`
}

// DocumentPayload is the wire form of the closed document variant. Kind
// selects which of the remaining fields is read.
type DocumentPayload struct {
	Kind     string                 `json:"kind" validate:"required,oneof=structured mapping text"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Fields   map[string]interface{} `json:"fields"`
	Value    string                 `json:"value"`
}

type CaptureRetrievalRequest struct {
	Documents      []DocumentPayload `json:"documents"`
	DurationMs     int64             `json:"duration_ms" validate:"min=0"`
	EmbeddingModel string            `json:"embedding_model"`
}

type CapturePromptRequest struct {
	Prompt       string  `json:"prompt" validate:"required"`
	Model        string  `json:"model"`
	TemplateName *string `json:"template_name"`
}

type CaptureGenerationRequest struct {
	Response     string   `json:"response"`
	Model        string   `json:"model" validate:"required"`
	InputTokens  int      `json:"input_tokens" validate:"min=0"`
	OutputTokens int      `json:"output_tokens" validate:"min=0"`
	DurationMs   int64    `json:"duration_ms" validate:"min=0"`
	Temperature  *float64 `json:"temperature"`
}

type CaptureStateResponse struct {
	SessionId     uuid.UUID `json:"session_id"`
	Query         string    `json:"query"`
	HasRetrieval  bool      `json:"has_retrieval"`
	HasPrompt     bool      `json:"has_prompt"`
	HasGeneration bool      `json:"has_generation"`
	TotalCost     float64   `json:"total_cost"`
	TotalDuration *int64    `json:"total_duration_ms"`
}
