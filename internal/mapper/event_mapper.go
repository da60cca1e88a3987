package mapper

import (
	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/model"

	"gorm.io/datatypes"
)

type EventMapper struct{}

func NewEventMapper() *EventMapper {
	return &EventMapper{}
}

func (m *EventMapper) ToEntity(e *model.Event) *entity.StoredEvent {
	if e == nil {
		return nil
	}
	return &entity.StoredEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: entity.EventType(e.EventType),
		Timestamp: e.Timestamp,
		Data:      []byte(e.Data),
	}
}

func (m *EventMapper) ToModel(e *entity.StoredEvent) *model.Event {
	if e == nil {
		return nil
	}
	return &model.Event{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: string(e.EventType),
		Timestamp: e.Timestamp,
		Data:      datatypes.JSON(e.Data),
	}
}

// ToPartition folds stored events (assumed ordered by timestamp ascending)
// into the three-slot read shape. A later row of the same type replaces an
// earlier one, so the surviving event per phase is latest-by-timestamp even
// if the one-event-per-type invariant was violated upstream. Rows whose
// payload fails to decode are skipped rather than failing the whole read.
func (m *EventMapper) ToPartition(events []*entity.StoredEvent) *entity.EventPartition {
	part := &entity.EventPartition{}
	for _, ev := range events {
		switch ev.EventType {
		case entity.EventRetrieval:
			if decoded, err := ev.DecodeRetrieval(); err == nil {
				part.Retrieval = decoded
			}
		case entity.EventPrompt:
			if decoded, err := ev.DecodePrompt(); err == nil {
				part.Prompt = decoded
			}
		case entity.EventGeneration:
			if decoded, err := ev.DecodeGeneration(); err == nil {
				part.Generation = decoded
			}
		}
	}
	return part
}
