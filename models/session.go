package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionPlanned     SessionStatus = "planned"
	SessionCompleted   SessionStatus = "completed"
	SessionMissed      SessionStatus = "missed"
	SessionRescheduled SessionStatus = "rescheduled"
)

// Session is one scheduled treatment occurrence belonging to a package.
// SessionNumber is 1-based and unique within its package.
type Session struct {
	ID                 uint `json:"id" gorm:"primaryKey"`
	TreatmentPackageID uint `json:"treatment_package_id" gorm:"not null;index:idx_sessions_package_number,priority:1"`

	// Unique per package among live rows; not a DB constraint because
	// soft-deleted rows keep their numbers and regeneration reuses them.
	SessionNumber int             `json:"session_number" gorm:"not null;index:idx_sessions_package_number,priority:2"`
	ScheduledDate datatypes.Date  `json:"scheduled_date" gorm:"not null"`
	ActualDate    *datatypes.Date `json:"actual_date"`
	Status        SessionStatus   `json:"status" gorm:"size:20;not null;default:'planned'"`

	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	UpdatedBy string    `json:"updated_by" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
