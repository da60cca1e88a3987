package contract

import (
	"context"
	"time"

	"rag-debugger-be/internal/entity"
	"rag-debugger-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SessionUpdate carries the partial-update allow-list. A request that sets
// none of these fields is a caller error, not a no-op.
type SessionUpdate struct {
	CompletedAt     *time.Time
	TotalCost       *float64
	TotalDurationMs *int64
	Model           *string
}

type SessionRepository interface {
	// Create rejects a duplicate id with a validation error.
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	// Update applies the non-nil fields; reports whether a row matched.
	Update(ctx context.Context, id uuid.UUID, update SessionUpdate) (bool, error)
	// Delete cascades to the session's events and detaches its snapshots.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
