package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChartRecord is a persisted generated chart. The exported chart is stored
// as its serialized wire record so a stored chart replays byte-identically.
type ChartRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Difficulty string         `gorm:"not null;index" json:"difficulty"`
	Strategy   string         `gorm:"not null" json:"strategy"`
	Tempo      float64        `json:"tempo"`
	Duration   float64        `json:"duration"`
	StepCount  int            `gorm:"not null" json:"step_count"`
	Payload    []byte         `gorm:"type:jsonb;not null" json:"-"`
}

// BeforeCreate assigns the chart its UUID
func (r *ChartRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
