package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"praxisplan-backend/cascade"
	"praxisplan-backend/database"
	"praxisplan-backend/middlewares"
	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
	"praxisplan-backend/utils"
)

type PackageCreateDTO struct {
	PatientID          uint    `json:"patient_id" validate:"required"`
	Description        string  `json:"description" validate:"omitempty"`
	NoOfSessions       int     `json:"no_of_sessions" validate:"required,min=1,max=1000"`
	GapBetweenSessions int     `json:"gap_between_sessions" validate:"required,min=1,max=365"`
	StartDate          string  `json:"start_date" validate:"required"`
	TotalPayment       float64 `json:"total_payment" validate:"required,gt=0"`
	AdvancePayment     float64 `json:"advance_payment" validate:"omitempty,gte=0"`

	// For retroactive data entry: sessions up to this number are created
	// as already completed.
	AlreadyCompleted int `json:"already_completed" validate:"omitempty,gte=0"`
}

type RegenerateDTO struct {
	StartDate          string `json:"start_date" validate:"omitempty"`
	GapBetweenSessions int    `json:"gap_between_sessions" validate:"omitempty,min=1,max=365"`
}

// PackageView is the read shape of a package. The sessions_completed and
// next_session_date facts are derived from the live session rows on every
// read; they are never read back from storage.
type PackageView struct {
	models.TreatmentPackage
	SessionsCompleted int     `json:"sessions_completed"`
	NextSessionDate   *string `json:"next_session_date"`
	RemainingPayment  float64 `json:"remaining_payment"`
}

func packageView(db *gorm.DB, pkg models.TreatmentPackage) (PackageView, error) {
	var sessions []models.Session
	if err := db.Where("treatment_package_id = ? AND is_deleted = ?", pkg.ID, false).
		Order("session_number").Find(&sessions).Error; err != nil {
		return PackageView{}, err
	}

	summary := scheduling.Summarize(sessions)

	view := PackageView{
		TreatmentPackage:  pkg,
		SessionsCompleted: summary.CompletedCount,
		RemainingPayment:  utils.Round2(pkg.PaymentCap() - pkg.PaidPayment),
	}
	if view.RemainingPayment < 0 {
		view.RemainingPayment = 0
	}
	if summary.NextSessionDate != nil {
		next := utils.FormatDate(*summary.NextSessionDate)
		view.NextSessionDate = &next
	}
	return view, nil
}

func findPackage(db *gorm.DB, id uint) (models.TreatmentPackage, error) {
	var pkg models.TreatmentPackage
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&pkg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg, models.ErrNotFound
	}
	return pkg, err
}

// POST /api/package
//
// Creates the package and expands its session calendar in one go.
func CreatePackage(c *fiber.Ctx) error {
	var in PackageCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if in.AlreadyCompleted > in.NoOfSessions {
		return fiber.NewError(fiber.StatusBadRequest, "already_completed cannot exceed no_of_sessions")
	}
	if in.AdvancePayment > in.TotalPayment {
		return fiber.NewError(fiber.StatusBadRequest, "advance_payment cannot exceed total_payment")
	}

	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	db := database.RequestDB(c)
	actor := middlewares.Actor(c)

	var patient models.Patient
	if err := db.Where("id = ? AND is_deleted = ?", in.PatientID, false).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	specs, err := scheduling.GenerateSchedule(start, in.NoOfSessions, in.GapBetweenSessions, in.AlreadyCompleted)
	if err != nil {
		return err
	}

	pkg := models.TreatmentPackage{
		PatientID:          in.PatientID,
		Description:        in.Description,
		NoOfSessions:       in.NoOfSessions,
		GapBetweenSessions: in.GapBetweenSessions,
		StartDate:          datatypes.Date(scheduling.DateOnly(start)),
		TotalPayment:       in.TotalPayment,
		AdvancePayment:     in.AdvancePayment,
		UpdatedBy:          actor,
	}
	if err := db.Create(&pkg).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create package")
	}

	sessions := make([]models.Session, 0, len(specs))
	for _, spec := range specs {
		sessions = append(sessions, models.Session{
			TreatmentPackageID: pkg.ID,
			SessionNumber:      spec.Number,
			ScheduledDate:      datatypes.Date(spec.ScheduledDate),
			Status:             spec.Status,
			UpdatedBy:          actor,
		})
	}
	if err := db.Create(&sessions).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create session batch")
	}

	pkg.Sessions = sessions
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

// GET /api/patient/:id/packages
func GetPatientPackages(c *fiber.Ctx) error {
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

	var pkgs []models.TreatmentPackage
	if err := db.Where("patient_id = ? AND is_deleted = ?", id, false).Order("id").Find(&pkgs).Error; err != nil {
		return err
	}

	views := make([]PackageView, 0, len(pkgs))
	for _, pkg := range pkgs {
		view, err := packageView(db, pkg)
		if err != nil {
			return err
		}
		views = append(views, view)
	}
	return c.JSON(fiber.Map{
		"packages": views,
		"message":  "success",
	})
}

// GET /api/package/:id
func GetPackage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	pkg, err := findPackage(db, id)
	if err != nil {
		return err
	}
	view, err := packageView(db, pkg)
	if err != nil {
		return err
	}
	if err := db.Where("treatment_package_id = ? AND is_deleted = ?", id, false).
		Order("session_number").Find(&view.Sessions).Error; err != nil {
		return err
	}
	if err := db.Where("treatment_package_id = ? AND is_deleted = ?", id, false).
		Order("date, id").Find(&view.Transactions).Error; err != nil {
		return err
	}
	return c.JSON(view)
}

// POST /api/package/:id/regenerate
//
// Re-expands the remaining calendar: soft-deletes every non-completed
// session, then inserts fresh planned rows for the numbers after the
// completed count. Completed history is never rewritten.
func RegeneratePackage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var in RegenerateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.RequestDB(c)
	actor := middlewares.Actor(c)

	pkg, err := findPackage(db, id)
	if err != nil {
		return err
	}

	start := scheduling.DateOnly(time.Time(pkg.StartDate))
	if in.StartDate != "" {
		start, err = utils.ParseDate(in.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	gap := pkg.GapBetweenSessions
	if in.GapBetweenSessions > 0 {
		gap = in.GapBetweenSessions
	}

	var live []models.Session
	if err := db.Where("treatment_package_id = ? AND is_deleted = ?", id, false).Find(&live).Error; err != nil {
		return err
	}

	// Completed rows survive under their original numbers, even when they
	// were completed out of order; the fresh batch must only fill the gaps
	// or two live rows end up sharing a number.
	completedNumbers := make(map[int]bool)
	for _, s := range live {
		if s.Status == models.SessionCompleted {
			completedNumbers[s.SessionNumber] = true
		}
	}

	specs, err := scheduling.RegeneratePlan(start, pkg.NoOfSessions, gap, completedNumbers)
	if err != nil {
		return err
	}

	if err := db.Model(&models.Session{}).
		Where("treatment_package_id = ? AND is_deleted = ? AND status <> ?", id, false, models.SessionCompleted).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error; err != nil {
		return err
	}

	fresh := make([]models.Session, 0, len(specs))
	for _, spec := range specs {
		fresh = append(fresh, models.Session{
			TreatmentPackageID: id,
			SessionNumber:      spec.Number,
			ScheduledDate:      datatypes.Date(spec.ScheduledDate),
			Status:             spec.Status,
			UpdatedBy:          actor,
		})
	}
	if len(fresh) > 0 {
		if err := db.Create(&fresh).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not create session batch")
		}
	}

	updates := map[string]any{"gap_between_sessions": gap, "start_date": datatypes.Date(start), "updated_by": actor}
	if err := db.Model(&models.TreatmentPackage{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}

	pkg, err = findPackage(db, id)
	if err != nil {
		return err
	}
	view, err := packageView(db, pkg)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// DELETE /api/package/:id
func DeletePackage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	var pkg models.TreatmentPackage
	if err := db.First(&pkg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	coordinator := cascade.New(database.NewStore(db))
	if err := coordinator.DeletePackage(id, middlewares.Actor(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "package deleted"})
}
