package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Query           string     `gorm:"type:text;not null"`
	CreatedAt       time.Time  `gorm:"not null;index:idx_sessions_created,sort:desc"`
	CompletedAt     *time.Time
	TotalCost       *float64
	TotalDurationMs *int64
	Model           *string `gorm:"type:text"`

	// Cascade: deleting a session deletes its events.
	Events []Event `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "sessions"
}
