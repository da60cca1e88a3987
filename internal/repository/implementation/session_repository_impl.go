package implementation

import (
	"context"
	"errors"
	"strings"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/mapper"
	"rag-debugger-be/internal/model"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Validation("session %s already exists", session.Id)
		}
		return apperror.Storage(err)
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Storage(err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.Session
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, id uuid.UUID, update contract.SessionUpdate) (bool, error) {
	fields := map[string]interface{}{}
	if update.CompletedAt != nil {
		fields["completed_at"] = *update.CompletedAt
	}
	if update.TotalCost != nil {
		fields["total_cost"] = *update.TotalCost
	}
	if update.TotalDurationMs != nil {
		fields["total_duration_ms"] = *update.TotalDurationMs
	}
	if update.Model != nil {
		fields["model"] = *update.Model
	}
	if len(fields) == 0 {
		return false, apperror.Validation("no fields to update")
	}

	res := r.db.WithContext(ctx).Model(&model.Session{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, apperror.Storage(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	// Events cascade and snapshots detach at the schema level, but the
	// pure-Go sqlite driver only enforces that with foreign_keys on, so
	// the child updates run explicitly in the same transaction.
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Snapshot{}).Where("session_id = ?", id).Update("session_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Session{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, apperror.Storage(err)
	}
	return deleted, nil
}
