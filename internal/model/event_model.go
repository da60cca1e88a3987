package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is the polymorphic row backing all three phase events. EventType
// discriminates, Data holds the versioned JSON payload.
type Event struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index:idx_events_session"`
	EventType string         `gorm:"type:text;not null"`
	Timestamp time.Time      `gorm:"not null"`
	Data      datatypes.JSON `gorm:"not null"`
}

func (Event) TableName() string {
	return "events"
}
