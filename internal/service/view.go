package service

import (
	"rag-debugger-be/internal/dto"
	"rag-debugger-be/internal/entity"
)

// entity → dto converters shared by the session, capture and snapshot
// services.

func sessionToResponse(s *entity.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}
	return &dto.SessionResponse{
		Id:              s.Id,
		Query:           s.Query,
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
		TotalCost:       s.TotalCost,
		TotalDurationMs: s.TotalDurationMs,
		Model:           s.Model,
	}
}

func chunksToPayload(chunks []entity.RetrievedChunk) []dto.RetrievedChunkPayload {
	out := make([]dto.RetrievedChunkPayload, len(chunks))
	for i, c := range chunks {
		out[i] = dto.RetrievedChunkPayload{
			Text: c.Text,
			Metadata: dto.ChunkMetadataPayload{
				Source:     c.Metadata.Source,
				Page:       c.Metadata.Page,
				Score:      c.Metadata.Score,
				DocumentId: c.Metadata.DocumentId,
			},
		}
	}
	return out
}

func retrievalToResponse(e *entity.RetrievalEvent) *dto.RetrievalEventResponse {
	if e == nil {
		return nil
	}
	return &dto.RetrievalEventResponse{
		Id:              e.Id,
		SessionId:       e.SessionId,
		Timestamp:       e.Timestamp,
		Chunks:          chunksToPayload(e.Chunks),
		DurationMs:      e.DurationMs,
		EmbeddingTokens: e.EmbeddingTokens,
		EmbeddingCost:   e.EmbeddingCost,
		RetrievalMethod: e.RetrievalMethod,
	}
}

func promptToResponse(e *entity.PromptEvent) *dto.PromptEventResponse {
	if e == nil {
		return nil
	}
	return &dto.PromptEventResponse{
		Id:           e.Id,
		SessionId:    e.SessionId,
		Timestamp:    e.Timestamp,
		Prompt:       e.Prompt,
		TokenCount:   e.TokenCount,
		TemplateName: e.TemplateName,
	}
}

func generationToResponse(e *entity.GenerationEvent) *dto.GenerationEventResponse {
	if e == nil {
		return nil
	}
	return &dto.GenerationEventResponse{
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
	}
}

func costBreakdownToResponse(b entity.CostBreakdown) dto.CostBreakdownResponse {
	return dto.CostBreakdownResponse{
		SessionId:     b.SessionId,
		EmbeddingCost: b.EmbeddingCost,
		InputCost:     b.InputCost,
		OutputCost:    b.OutputCost,
		TotalCost:     b.TotalCost,
	}
}

func snapshotToResponse(s *entity.Snapshot) *dto.SnapshotResponse {
	if s == nil {
		return nil
	}
	return &dto.SnapshotResponse{
		Id:        s.Id,
		SessionId: s.SessionId,
		Query:     s.Query,
		Chunks:    chunksToPayload(s.Chunks),
		Answer:    s.Answer,
		Cost:      s.Cost,
		Timestamp: s.Timestamp,
		Tags:      s.Tags,
		Model:     s.Model,
	}
}
