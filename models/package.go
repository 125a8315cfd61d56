package models

import (
	"time"

	"gorm.io/datatypes"
)

// TreatmentPackage is a purchased bundle of treatment sessions with a
// payment plan. PaidPayment is a materialized rollup of the non-deleted
// payment transactions; it must always be reproducible by summing them.
type TreatmentPackage struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`

	Description        string         `json:"description"`
	NoOfSessions       int            `json:"no_of_sessions" gorm:"not null"`
	GapBetweenSessions int            `json:"gap_between_sessions" gorm:"not null"`
	StartDate          datatypes.Date `json:"start_date" gorm:"not null"`

	TotalPayment   float64 `json:"total_payment" gorm:"type:numeric(12,2)"`
	AdvancePayment float64 `json:"advance_payment" gorm:"type:numeric(12,2)"`
	PaidPayment    float64 `json:"paid_payment" gorm:"type:numeric(12,2)"`

	Sessions     []Session            `json:"sessions,omitempty" gorm:"foreignKey:TreatmentPackageID"`
	Transactions []PaymentTransaction `json:"transactions,omitempty" gorm:"foreignKey:TreatmentPackageID"`

	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	UpdatedBy string    `json:"updated_by" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentCap is the maximum the paid balance may reach: the part of the
// total not already covered by the advance.
func (p *TreatmentPackage) PaymentCap() float64 {
	cap := p.TotalPayment - p.AdvancePayment
	if cap < 0 {
		return 0
	}
	return cap
}
