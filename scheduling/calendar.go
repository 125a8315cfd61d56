package scheduling

import (
	"errors"
	"fmt"
	"time"

	"praxisplan-backend/models"
)

// Bounds for schedule generation. Callers sending anything outside these get
// ErrInvalidInput rather than a silently truncated calendar.
const (
	MinSessions = 1
	MaxSessions = 1000
	MinGapDays  = 1
	MaxGapDays  = 365
)

var ErrInvalidInput = errors.New("invalid input")

// SessionSpec is one generated calendar slot, not yet persisted.
type SessionSpec struct {
	Number        int
	ScheduledDate time.Time
	Status        models.SessionStatus
}

// DateOnly drops the clock from t. All calendar arithmetic works on these
// normalized values so a schedule never depends on the time of day it was
// generated at.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ShiftOffSunday moves a Sunday date to the following Monday. The shift is a
// single fixed correction; Monday is not re-checked.
func ShiftOffSunday(d time.Time) time.Time {
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, 1)
	}
	return d
}

// GenerateSchedule expands a package into its session calendar: session i
// (1-based) falls on start + (i-1)*gapDays calendar days, shifted off Sunday.
// Sessions numbered <= alreadyCompleted are emitted as completed, which lets
// a package be entered retroactively; validating alreadyCompleted against
// totalSessions is the caller's job.
//
// Pure function of its inputs: identical inputs yield identical output.
func GenerateSchedule(start time.Time, totalSessions, gapDays, alreadyCompleted int) ([]SessionSpec, error) {
	if totalSessions < MinSessions || totalSessions > MaxSessions {
		return nil, fmt.Errorf("%w: no_of_sessions must be between %d and %d, got %d",
			ErrInvalidInput, MinSessions, MaxSessions, totalSessions)
	}
	if gapDays < MinGapDays || gapDays > MaxGapDays {
		return nil, fmt.Errorf("%w: gap_between_sessions must be between %d and %d, got %d",
			ErrInvalidInput, MinGapDays, MaxGapDays, gapDays)
	}

	base := DateOnly(start)
	specs := make([]SessionSpec, 0, totalSessions)
	for i := 1; i <= totalSessions; i++ {
		date := ShiftOffSunday(base.AddDate(0, 0, (i-1)*gapDays))

		status := models.SessionPlanned
		if i <= alreadyCompleted {
			status = models.SessionCompleted
		}

		specs = append(specs, SessionSpec{
			Number:        i,
			ScheduledDate: date,
			Status:        status,
		})
	}
	return specs, nil
}

// RegeneratePlan re-expands a package calendar around its surviving completed
// sessions. Completed rows keep their session numbers wherever they sit, so
// the fresh planned specs cover exactly the numbers NOT in completedNumbers;
// skipping a plain 1..n prefix would collide with an out-of-order completion.
func RegeneratePlan(start time.Time, totalSessions, gapDays int, completedNumbers map[int]bool) ([]SessionSpec, error) {
	specs, err := GenerateSchedule(start, totalSessions, gapDays, 0)
	if err != nil {
		return nil, err
	}

	fresh := make([]SessionSpec, 0, len(specs))
	for _, spec := range specs {
		if completedNumbers[spec.Number] {
			continue
		}
		fresh = append(fresh, spec)
	}
	return fresh, nil
}
