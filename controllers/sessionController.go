package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praxisplan-backend/database"
	"praxisplan-backend/middlewares"
	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
	"praxisplan-backend/utils"
)

type RescheduleDTO struct {
	Date string `json:"date" validate:"required"`
}

func findSession(db *gorm.DB, id uint) (models.Session, error) {
	var s models.Session
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s, models.ErrNotFound
	}
	return s, err
}

// GET /api/package/:id/sessions
func GetPackageSessions(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	if _, err := findPackage(db, id); err != nil {
		return err
	}

	var sessions []models.Session
	if err := db.Where("treatment_package_id = ? AND is_deleted = ?", id, false).
		Order("session_number").Find(&sessions).Error; err != nil {
		return err
	}

	summary := scheduling.Summarize(sessions)
	resp := fiber.Map{
		"sessions":           sessions,
		"sessions_completed": summary.CompletedCount,
		"message":            "success",
	}
	if summary.NextSessionDate != nil {
		resp["next_session_date"] = utils.FormatDate(*summary.NextSessionDate)
	} else {
		resp["next_session_date"] = nil
	}
	return c.JSON(resp)
}

// PUT /api/session/:id/reschedule
func RescheduleSession(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var in RescheduleDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	newDate, err := utils.ParseDate(in.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	db := database.RequestDB(c)

	session, err := findSession(db, id)
	if err != nil {
		return err
	}
	if err := scheduling.Reschedule(&session, newDate); err != nil {
		return err
	}
	session.UpdatedBy = middlewares.Actor(c)

	if err := db.Model(&models.Session{}).Where("id = ?", id).Updates(map[string]any{
		"scheduled_date": session.ScheduledDate,
		"status":         session.Status,
		"updated_by":     session.UpdatedBy,
	}).Error; err != nil {
		return err
	}
	return c.JSON(session)
}

// PUT /api/session/:id/complete
func CompleteSession(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	db := database.RequestDB(c)

	session, err := findSession(db, id)
	if err != nil {
		return err
	}
	if err := scheduling.Complete(&session, time.Now()); err != nil {
		return err
	}
	session.UpdatedBy = middlewares.Actor(c)

	if err := db.Model(&models.Session{}).Where("id = ?", id).Updates(map[string]any{
		"actual_date": session.ActualDate,
		"status":      session.Status,
		"updated_by":  session.UpdatedBy,
	}).Error; err != nil {
		return err
	}
	return c.JSON(session)
}
