package contract

import (
	"context"

	"rag-debugger-be/internal/entity"

	"github.com/google/uuid"
)

// EventRepository is insert-only: individual events are never updated or
// deleted, only removed wholesale by a session cascade.
type EventRepository interface {
	Create(ctx context.Context, event *entity.StoredEvent) error
	// FindAllBySession returns the session's raw stored events ordered by
	// timestamp ascending.
	FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.StoredEvent, error)
	// GetPartition reads the session's events into the fixed three-slot
	// shape, keeping the latest-by-timestamp entry per phase.
	GetPartition(ctx context.Context, sessionId uuid.UUID) (*entity.EventPartition, error)
}
