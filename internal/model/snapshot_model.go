package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Snapshot struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId *uuid.UUID     `gorm:"type:uuid;index"`
	Query     string         `gorm:"type:text;not null"`
	Chunks    datatypes.JSON `gorm:"not null"`
	Answer    string         `gorm:"type:text;not null"`
	Cost      float64        `gorm:"not null"`
	Timestamp time.Time      `gorm:"not null;index:idx_snapshots_timestamp,sort:desc"`
	Tags      datatypes.JSON
	Model     *string `gorm:"type:text"`

	// Detach, not cascade: deleting the source session nulls the reference
	// but leaves the snapshot intact.
	Session *Session `gorm:"foreignKey:SessionId;constraint:OnDelete:SET NULL"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
