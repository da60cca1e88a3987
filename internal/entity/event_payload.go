package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event payloads are stored as a tagged union: the StoredEvent row carries
// the discriminant, the JSON body carries a schema version so future shape
// changes can be migrated explicitly instead of breaking deserialization.
const payloadVersion = 1

type retrievalPayload struct {
	Version         int              `json:"version"`
	Id              uuid.UUID        `json:"id"`
	SessionId       uuid.UUID        `json:"session_id"`
	Timestamp       time.Time        `json:"timestamp"`
	Chunks          []RetrievedChunk `json:"chunks"`
	DurationMs      int64            `json:"duration_ms"`
	EmbeddingTokens int              `json:"embedding_tokens"`
	EmbeddingCost   float64          `json:"embedding_cost"`
	RetrievalMethod string           `json:"retrieval_method"`
}

type promptPayload struct {
	Version      int       `json:"version"`
	Id           uuid.UUID `json:"id"`
	SessionId    uuid.UUID `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	Prompt       string    `json:"prompt"`
	TokenCount   int       `json:"token_count"`
	TemplateName *string   `json:"template_name"`
}

type generationPayload struct {
	Version      int       `json:"version"`
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

func (e *RetrievalEvent) ToStored() (*StoredEvent, error) {
	data, err := json.Marshal(retrievalPayload{
		Version:         payloadVersion,
		Id:              e.Id,
		SessionId:       e.SessionId,
		Timestamp:       e.Timestamp,
		Chunks:          e.Chunks,
		DurationMs:      e.DurationMs,
		EmbeddingTokens: e.EmbeddingTokens,
		EmbeddingCost:   e.EmbeddingCost,
		RetrievalMethod: e.RetrievalMethod,
	})
	if err != nil {
		return nil, err
	}
	return &StoredEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: EventRetrieval,
		Timestamp: e.Timestamp,
		Data:      data,
	}, nil
}

func (e *PromptEvent) ToStored() (*StoredEvent, error) {
	data, err := json.Marshal(promptPayload{
		Version:      payloadVersion,
		Id:           e.Id,
		SessionId:    e.SessionId,
		Timestamp:    e.Timestamp,
		Prompt:       e.Prompt,
		TokenCount:   e.TokenCount,
		TemplateName: e.TemplateName,
	})
	if err != nil {
		return nil, err
	}
	return &StoredEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: EventPrompt,
		Timestamp: e.Timestamp,
		Data:      data,
	}, nil
}

func (e *GenerationEvent) ToStored() (*StoredEvent, error) {
	data, err := json.Marshal(generationPayload{
		Version:      payloadVersion,
		Id:           e.Id,
		SessionId:    e.SessionId,
		Timestamp:    e.Timestamp,
		Response:     e.Response,
		Model:        e.Model,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
		Cost:         e.Cost,
		DurationMs:   e.DurationMs,
		Temperature:  e.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return &StoredEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: EventGeneration,
		Timestamp: e.Timestamp,
		Data:      data,
	}, nil
}

// DecodeRetrieval decodes a stored retrieval payload. The stored event's
// own id/session/timestamp win over the payload copy so that a row whose
// envelope was rewritten stays consistent.
func (s *StoredEvent) DecodeRetrieval() (*RetrievalEvent, error) {
	if s.EventType != EventRetrieval {
		return nil, fmt.Errorf("decode retrieval: event type is %q", s.EventType)
	}
	var p retrievalPayload
	if err := json.Unmarshal(s.Data, &p); err != nil {
		return nil, err
	}
	return &RetrievalEvent{
		Id:              s.Id,
		SessionId:       s.SessionId,
		Timestamp:       s.Timestamp,
		Chunks:          p.Chunks,
		DurationMs:      p.DurationMs,
		EmbeddingTokens: p.EmbeddingTokens,
		EmbeddingCost:   p.EmbeddingCost,
		RetrievalMethod: p.RetrievalMethod,
	}, nil
}

func (s *StoredEvent) DecodePrompt() (*PromptEvent, error) {
	if s.EventType != EventPrompt {
		return nil, fmt.Errorf("decode prompt: event type is %q", s.EventType)
	}
	var p promptPayload
	if err := json.Unmarshal(s.Data, &p); err != nil {
		return nil, err
	}
	return &PromptEvent{
		Id:           s.Id,
		SessionId:    s.SessionId,
		Timestamp:    s.Timestamp,
		Prompt:       p.Prompt,
		TokenCount:   p.TokenCount,
		TemplateName: p.TemplateName,
	}, nil
}

func (s *StoredEvent) DecodeGeneration() (*GenerationEvent, error) {
	if s.EventType != EventGeneration {
		return nil, fmt.Errorf("decode generation: event type is %q", s.EventType)
	}
	var p generationPayload
	if err := json.Unmarshal(s.Data, &p); err != nil {
		return nil, err
	}
	return &GenerationEvent{
		Id:           s.Id,
		SessionId:    s.SessionId,
		Timestamp:    s.Timestamp,
		Response:     p.Response,
		Model:        p.Model,
		InputTokens:  p.InputTokens,
		OutputTokens: p.OutputTokens,
		Cost:         p.Cost,
		DurationMs:   p.DurationMs,
		Temperature:  p.Temperature,
	}, nil
}
