package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentTransaction is one entry in a package's payment ledger. Entries are
// append/soft-delete only; the amount may change via an explicit edit but the
// row itself is never physically removed.
type PaymentTransaction struct {
	ID                 uint `json:"id" gorm:"primaryKey"`
	TreatmentPackageID uint `json:"treatment_package_id" gorm:"not null;index"`

	Amount float64        `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date   datatypes.Date `json:"date" gorm:"not null"`
	Method string         `json:"method" gorm:"size:32"`
	Note   string         `json:"note"`

	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	UpdatedBy string    `json:"updated_by" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
