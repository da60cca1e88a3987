package mapper

import (
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:              s.Id,
		Query:           s.Query,
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
		TotalCost:       s.TotalCost,
		TotalDurationMs: s.TotalDurationMs,
		Model:           s.Model,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:              s.Id,
		Query:           s.Query,
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
		TotalCost:       s.TotalCost,
		TotalDurationMs: s.TotalDurationMs,
		Model:           s.Model,
	}
}

func (m *SessionMapper) ToEntities(models []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(models))
	for i, s := range models {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
