package scheduling

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"praxisplan-backend/models"
)

// InvalidTransitionError reports an illegal session status change.
type InvalidTransitionError struct {
	SessionID uint
	From      models.SessionStatus
	To        models.SessionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("session %d: cannot move from %s to %s", e.SessionID, e.From, e.To)
}

// actionable reports whether a session may still change state.
// completed and missed are terminal.
func actionable(status models.SessionStatus) bool {
	return status == models.SessionPlanned || status == models.SessionRescheduled
}

// Reschedule rewrites the session's scheduled date (Sunday-shifted) and marks
// it rescheduled. Number and package stay untouched.
func Reschedule(s *models.Session, newDate time.Time) error {
	if !actionable(s.Status) {
		return &InvalidTransitionError{SessionID: s.ID, From: s.Status, To: models.SessionRescheduled}
	}
	s.ScheduledDate = datatypes.Date(ShiftOffSunday(DateOnly(newDate)))
	s.Status = models.SessionRescheduled
	return nil
}

// Complete marks the session done and stamps the actual treatment date.
// Completed sessions never transition again.
func Complete(s *models.Session, actualDate time.Time) error {
	if !actionable(s.Status) {
		return &InvalidTransitionError{SessionID: s.ID, From: s.Status, To: models.SessionCompleted}
	}
	stamped := datatypes.Date(DateOnly(actualDate))
	s.ActualDate = &stamped
	s.Status = models.SessionCompleted
	return nil
}

// MarkMissed is the entry point for the batch no-show sweep. There is no
// interactive route to it; it exists so the sweep shares the same transition
// rules as the user-facing paths.
func MarkMissed(s *models.Session) error {
	if !actionable(s.Status) {
		return &InvalidTransitionError{SessionID: s.ID, From: s.Status, To: models.SessionMissed}
	}
	s.Status = models.SessionMissed
	return nil
}
