package implementation

import (
	"context"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/mapper"
	"rag-debugger-be/internal/model"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EventMapper
}

func NewEventRepository(db *gorm.DB) contract.EventRepository {
	return &EventRepositoryImpl{
		db:     db,
		mapper: mapper.NewEventMapper(),
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entity.StoredEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Validation("event %s already exists", event.Id)
		}
		return apperror.Storage(err)
	}
	return nil
}

func (r *EventRepositoryImpl) FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.StoredEvent, error) {
	var models []*model.Event
	query := applySpecifications(r.db.WithContext(ctx),
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "timestamp", Desc: false},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.Storage(err)
	}

	events := make([]*entity.StoredEvent, len(models))
	for i, m := range models {
		events[i] = r.mapper.ToEntity(m)
	}
	return events, nil
}

func (r *EventRepositoryImpl) GetPartition(ctx context.Context, sessionId uuid.UUID) (*entity.EventPartition, error) {
	events, err := r.FindAllBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToPartition(events), nil
}
