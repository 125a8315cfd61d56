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

func TestComplete_StampsActualDate(t *testing.T) {
	s := session(1, models.SessionPlanned, day(2024, time.January, 10))

	err := scheduling.Complete(&s, day(2024, time.January, 11))
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, s.Status)
	require.NotNil(t, s.ActualDate)
	assert.Equal(t, day(2024, time.January, 11), time.Time(*s.ActualDate))
}

func TestComplete_FromRescheduled(t *testing.T) {
	s := session(1, models.SessionRescheduled, day(2024, time.January, 10))

	err := scheduling.Complete(&s, day(2024, time.January, 12))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, s.Status)
}

func TestComplete_AlreadyCompleted_Fails(t *testing.T) {
	// GIVEN: a session completed on Jan 11
	s := session(1, models.SessionCompleted, day(2024, time.January, 10))
	stamped := datatypes.Date(day(2024, time.January, 11))
	s.ActualDate = &stamped

	// WHEN: completing it again
	err := scheduling.Complete(&s, day(2024, time.February, 1))

	// THEN: InvalidTransition, actual_date untouched
	var invalid *scheduling.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.SessionCompleted, invalid.From)
	assert.Equal(t, day(2024, time.January, 11), time.Time(*s.ActualDate))
}

func TestReschedule_RewritesDateAndStatus(t *testing.T) {
	s := session(2, models.SessionPlanned, day(2024, time.January, 10))
	s.SessionNumber = 2

	err := scheduling.Reschedule(&s, day(2024, time.January, 17))
	require.NoError(t, err)

	assert.Equal(t, models.SessionRescheduled, s.Status)
	assert.Equal(t, day(2024, time.January, 17), time.Time(s.ScheduledDate))
	assert.Equal(t, 2, s.SessionNumber, "number never changes on reschedule")
}

func TestReschedule_SundayTargetShifts(t *testing.T) {
	s := session(1, models.SessionPlanned, day(2024, time.January, 10))

	err := scheduling.Reschedule(&s, day(2024, time.January, 14)) // Sunday
	require.NoError(t, err)

	assert.Equal(t, day(2024, time.January, 15), time.Time(s.ScheduledDate))
}

func TestReschedule_Repeatable(t *testing.T) {
	s := session(1, models.SessionPlanned, day(2024, time.January, 10))

	require.NoError(t, scheduling.Reschedule(&s, day(2024, time.January, 17)))
	require.NoError(t, scheduling.Reschedule(&s, day(2024, time.January, 19)))

	assert.Equal(t, models.SessionRescheduled, s.Status)
	assert.Equal(t, day(2024, time.January, 19), time.Time(s.ScheduledDate))
}

func TestReschedule_CompletedIsTerminal(t *testing.T) {
	s := session(1, models.SessionCompleted, day(2024, time.January, 10))

	err := scheduling.Reschedule(&s, day(2024, time.January, 17))

	var invalid *scheduling.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, day(2024, time.January, 10), time.Time(s.ScheduledDate), "failed transition leaves the session alone")
}

func TestMarkMissed_TerminalAfterwards(t *testing.T) {
	s := session(1, models.SessionPlanned, day(2024, time.January, 10))

	require.NoError(t, scheduling.MarkMissed(&s))
	assert.Equal(t, models.SessionMissed, s.Status)

	var invalid *scheduling.InvalidTransitionError
	assert.ErrorAs(t, scheduling.Complete(&s, day(2024, time.January, 11)), &invalid)
	assert.ErrorAs(t, scheduling.Reschedule(&s, day(2024, time.January, 12)), &invalid)
}
