package scheduling

import (
	"time"

	"praxisplan-backend/models"
)

// Summary holds the facts a package read derives from its live session rows.
// These are never trusted from storage; recompute on every read.
type Summary struct {
	CompletedCount  int
	NextSessionDate *time.Time
}

// Summarize derives the completed count and the next actionable date from a
// package's session collection. Soft-deleted rows are ignored.
//
// "Next" is anchored to the latest completed date: only planned/rescheduled
// sessions dated strictly after it qualify, and the qualifying session
// lowest in sequence order wins. Out-of-order completion (session 3 done
// before session 2) therefore never resurfaces a superseded earlier slot as
// next. With nothing completed yet, the overall earliest planned or
// rescheduled date is next.
func Summarize(sessions []models.Session) Summary {
	var (
		completed       int
		latestCompleted time.Time
		hasCompleted    bool
	)

	for _, s := range sessions {
		if s.IsDeleted || s.Status != models.SessionCompleted {
			continue
		}
		completed++
		d := DateOnly(time.Time(s.ScheduledDate))
		if !hasCompleted || d.After(latestCompleted) {
			latestCompleted = d
			hasCompleted = true
		}
	}

	var (
		next       *time.Time
		nextNumber int
	)
	for _, s := range sessions {
		if s.IsDeleted {
			continue
		}
		if s.Status != models.SessionPlanned && s.Status != models.SessionRescheduled {
			continue
		}
		d := DateOnly(time.Time(s.ScheduledDate))
		if hasCompleted && !d.After(latestCompleted) {
			continue
		}

		better := next == nil
		if !better {
			if hasCompleted {
				better = s.SessionNumber < nextNumber
			} else {
				better = d.Before(*next) || (d.Equal(*next) && s.SessionNumber < nextNumber)
			}
		}
		if better {
			candidate := d
			next = &candidate
			nextNumber = s.SessionNumber
		}
	}

	return Summary{CompletedCount: completed, NextSessionDate: next}
}
