package mapper

import (
	"encoding/json"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/model"

	"gorm.io/datatypes"
)

type SnapshotMapper struct{}

func NewSnapshotMapper() *SnapshotMapper {
	return &SnapshotMapper{}
}

func (m *SnapshotMapper) ToEntity(s *model.Snapshot) (*entity.Snapshot, error) {
	if s == nil {
		return nil, nil
	}

	chunks := make([]entity.RetrievedChunk, 0)
	if len(s.Chunks) > 0 {
		if err := json.Unmarshal(s.Chunks, &chunks); err != nil {
			return nil, err
		}
	}

	tags := make([]string, 0)
	if len(s.Tags) > 0 {
		if err := json.Unmarshal(s.Tags, &tags); err != nil {
			return nil, err
		}
	}

	return &entity.Snapshot{
		Id:        s.Id,
		SessionId: s.SessionId,
		Query:     s.Query,
		Chunks:    chunks,
		Answer:    s.Answer,
		Cost:      s.Cost,
		Timestamp: s.Timestamp,
		Tags:      tags,
		Model:     s.Model,
	}, nil
}

func (m *SnapshotMapper) ToModel(s *entity.Snapshot) (*model.Snapshot, error) {
	if s == nil {
		return nil, nil
	}

	chunks := s.Chunks
	if chunks == nil {
		chunks = make([]entity.RetrievedChunk, 0)
	}
	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return nil, err
	}

	tags := s.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Id:        s.Id,
		SessionId: s.SessionId,
		Query:     s.Query,
		Chunks:    datatypes.JSON(chunksJSON),
		Answer:    s.Answer,
		Cost:      s.Cost,
		Timestamp: s.Timestamp,
		Tags:      datatypes.JSON(tagsJSON),
		Model:     s.Model,
	}, nil
}
