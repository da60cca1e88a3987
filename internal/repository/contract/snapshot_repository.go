package contract

import (
	"context"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SnapshotRepository has no update operation: snapshots are immutable
// once created.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.Snapshot) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Snapshot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
