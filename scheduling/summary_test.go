package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
)

func session(number int, status models.SessionStatus, scheduled time.Time) models.Session {
	return models.Session{
		SessionNumber: number,
		Status:        status,
		ScheduledDate: datatypes.Date(scheduled),
	}
}

func TestSummarize_NextAnchoredToLatestCompleted(t *testing.T) {
	// GIVEN: session 3 completed out of order on Jan 10, leaving session 2's
	// Jan 8 slot behind the latest completed date
	sessions := []models.Session{
		session(3, models.SessionCompleted, day(2024, time.January, 10)),
		session(2, models.SessionPlanned, day(2024, time.January, 8)),
		session(4, models.SessionPlanned, day(2024, time.January, 15)),
	}

	got := scheduling.Summarize(sessions)

	assert.Equal(t, 1, got.CompletedCount)
	require.NotNil(t, got.NextSessionDate)
	// Jan 8 precedes the latest completed date, so it must not resurface
	assert.Equal(t, day(2024, time.January, 15), *got.NextSessionDate)
}

func TestSummarize_SequenceOrderWinsAmongQualifying(t *testing.T) {
	sessions := []models.Session{
		session(1, models.SessionCompleted, day(2024, time.January, 1)),
		session(2, models.SessionPlanned, day(2024, time.January, 15)),
		session(3, models.SessionPlanned, day(2024, time.January, 8)),
	}

	got := scheduling.Summarize(sessions)

	require.NotNil(t, got.NextSessionDate)
	assert.Equal(t, day(2024, time.January, 15), *got.NextSessionDate,
		"next follows sequence order among dates past the latest completed one")
}

func TestSummarize_NoCompleted_PicksOverallEarliest(t *testing.T) {
	sessions := []models.Session{
		session(1, models.SessionPlanned, day(2024, time.February, 20)),
		session(2, models.SessionRescheduled, day(2024, time.February, 6)),
		session(3, models.SessionPlanned, day(2024, time.February, 13)),
	}

	got := scheduling.Summarize(sessions)

	assert.Equal(t, 0, got.CompletedCount)
	require.NotNil(t, got.NextSessionDate)
	assert.Equal(t, day(2024, time.February, 6), *got.NextSessionDate)
}

func TestSummarize_AllCompleted_NoNext(t *testing.T) {
	sessions := []models.Session{
		session(1, models.SessionCompleted, day(2024, time.January, 1)),
		session(2, models.SessionCompleted, day(2024, time.January, 8)),
	}

	got := scheduling.Summarize(sessions)

	assert.Equal(t, 2, got.CompletedCount)
	assert.Nil(t, got.NextSessionDate)
}

func TestSummarize_MissedNeverNext(t *testing.T) {
	sessions := []models.Session{
		session(1, models.SessionCompleted, day(2024, time.January, 1)),
		session(2, models.SessionMissed, day(2024, time.January, 8)),
	}

	got := scheduling.Summarize(sessions)

	assert.Equal(t, 1, got.CompletedCount, "missed does not count as completed")
	assert.Nil(t, got.NextSessionDate)
}

func TestSummarize_SoftDeletedRowsIgnored(t *testing.T) {
	deleted := session(2, models.SessionPlanned, day(2024, time.January, 3))
	deleted.IsDeleted = true
	deletedDone := session(3, models.SessionCompleted, day(2024, time.January, 5))
	deletedDone.IsDeleted = true

	sessions := []models.Session{
		session(1, models.SessionPlanned, day(2024, time.January, 10)),
		deleted,
		deletedDone,
	}

	got := scheduling.Summarize(sessions)

	assert.Equal(t, 0, got.CompletedCount)
	require.NotNil(t, got.NextSessionDate)
	assert.Equal(t, day(2024, time.January, 10), *got.NextSessionDate)
}

func TestSummarize_Empty(t *testing.T) {
	got := scheduling.Summarize(nil)

	assert.Equal(t, 0, got.CompletedCount)
	assert.Nil(t, got.NextSessionDate)
}
