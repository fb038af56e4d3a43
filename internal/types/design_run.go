package types

import (
	"time"

	"github.com/google/uuid"
)

// DesignRun statuses. PENDING and PROMPTED are transient; the other three
// are terminal.
const (
	RunPending   = "PENDING"
	RunPrompted  = "PROMPTED"
	RunGenerated = "GENERATED"
	RunSkipped   = "SKIPPED"
	RunFailed    = "FAILED"
)

// DesignRun tracks one pipeline execution from creation to a terminal
// status.
type DesignRun struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Status       string     `gorm:"column:status;not null;default:'PENDING';index" json:"status"`
	Reason       string     `gorm:"column:reason;type:text" json:"reason,omitempty"`
	JobKey       string     `gorm:"column:job_key;not null;index" json:"job_key"`
	ScheduledFor *time.Time `gorm:"column:scheduled_for" json:"scheduled_for,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (DesignRun) TableName() string { return "design_run" }
