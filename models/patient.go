package models

import "time"

type Patient struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"not null"`
	Phone     string  `json:"phone" gorm:"not null"`
	Gender    string  `json:"gender"`
	Age       int     `json:"age"`
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	Diagnosis string  `json:"diagnosis"`
	Notes     string  `json:"notes"`

	Packages []TreatmentPackage `json:"packages,omitempty" gorm:"foreignKey:PatientID"`

	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	UpdatedBy string    `json:"updated_by" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
