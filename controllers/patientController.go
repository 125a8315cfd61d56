package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praxisplan-backend/cascade"
	"praxisplan-backend/database"
	"praxisplan-backend/middlewares"
	"praxisplan-backend/models"
	"praxisplan-backend/utils"
)

type PatientCreateDTO struct {
	Name      string  `json:"name" validate:"required,min=1"`
	Phone     string  `json:"phone" validate:"required,min=3"`
	Gender    string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Age       int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Weight    float64 `json:"weight" validate:"omitempty,gte=0"`
	Height    float64 `json:"height" validate:"omitempty,gte=0"`
	Diagnosis string  `json:"diagnosis" validate:"omitempty"`
	Notes     string  `json:"notes" validate:"omitempty"`
}

type PatientUpdateDTO struct {
	Name      *string  `json:"name" validate:"omitempty,min=1"`
	Phone     *string  `json:"phone" validate:"omitempty,min=3"`
	Gender    *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Age       *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Weight    *float64 `json:"weight" validate:"omitempty,gte=0"`
	Height    *float64 `json:"height" validate:"omitempty,gte=0"`
	Diagnosis *string  `json:"diagnosis" validate:"omitempty"`
	Notes     *string  `json:"notes" validate:"omitempty"`
}

// POST /api/patient
func CreatePatient(c *fiber.Ctx) error {
	var in PatientCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.RequestDB(c)

	patient := models.Patient{
		Name:      in.Name,
		Phone:     in.Phone,
		Gender:    in.Gender,
		Age:       in.Age,
		Weight:    in.Weight,
		Height:    in.Height,
		Diagnosis: in.Diagnosis,
		Notes:     in.Notes,
		UpdatedBy: middlewares.Actor(c),
	}
	if err := db.Create(&patient).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create patient")
	}
	return c.Status(fiber.StatusCreated).JSON(patient)
}

// GET /api/patients?limit=n
func GetPatients(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	q := db.Where("is_deleted = ?", false).Order("name")
	if limit := utils.ParseIntDefault(c.Query("limit"), 0); limit > 0 {
		q = q.Limit(limit)
	}

	var patients []models.Patient
	if err := q.Find(&patients).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"patients": patients,
		"message":  "success",
	})
}

// GET /api/patient/:id
func GetPatient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	var patient models.Patient
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	if err := db.Where("patient_id = ? AND is_deleted = ?", id, false).Find(&patient.Packages).Error; err != nil {
		return err
	}
	return c.JSON(patient)
}

// PUT /api/patient/:id
func UpdatePatient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var in PatientUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_by"] = middlewares.Actor(c)

	db := database.RequestDB(c)
	res := db.Model(&models.Patient{}).Where("id = ? AND is_deleted = ?", id, false).Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update patient")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}

	var out models.Patient
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		return err
	}
	return c.JSON(out)
}

// DELETE /api/patient/:id
//
// Soft-deletes the patient's whole subtree. Re-running on an already-deleted
// patient is a no-op, so an interrupted cascade is fixed by retrying.
func DeletePatient(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	// 404 only when the row never existed; already-deleted rows stay retryable.
	var patient models.Patient
	if err := db.First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	coordinator := cascade.New(database.NewStore(db))
	if err := coordinator.DeletePatient(id, middlewares.Actor(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "patient deleted"})
}
