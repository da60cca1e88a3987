package implementation

import (
	"context"
	"errors"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/mapper"
	"rag-debugger-be/internal/model"
	"rag-debugger-be/internal/pkg/apperror"
	"rag-debugger-be/internal/repository/contract"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SnapshotMapper
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &SnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewSnapshotMapper(),
	}
}

func (r *SnapshotRepositoryImpl) Create(ctx context.Context, snapshot *entity.Snapshot) error {
	m, err := r.mapper.ToModel(snapshot)
	if err != nil {
		return apperror.Storage(err)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Validation("snapshot %s already exists", snapshot.Id)
		}
		return apperror.Storage(err)
	}
	return nil
}

func (r *SnapshotRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error) {
	var m model.Snapshot
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Storage(err)
	}
	snapshot, err := r.mapper.ToEntity(&m)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return snapshot, nil
}

func (r *SnapshotRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error) {
	var models []*model.Snapshot
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.Storage(err)
	}

	snapshots := make([]*entity.Snapshot, len(models))
	for i, m := range models {
		snapshot, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		snapshots[i] = snapshot
	}
	return snapshots, nil
}

func (r *SnapshotRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Snapshot{})
	if res.Error != nil {
		return false, apperror.Storage(res.Error)
	}
	return res.RowsAffected > 0, nil
}
