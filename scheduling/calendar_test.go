package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSchedule_DateFormula(t *testing.T) {
	// GIVEN: start on a Tuesday, weekly gap
	// THEN: session i falls exactly (i-1)*gap days after start
	start := day(2024, time.January, 2)

	specs, err := scheduling.GenerateSchedule(start, 5, 7, 0)
	require.NoError(t, err)
	require.Len(t, specs, 5)

	for i, spec := range specs {
		assert.Equal(t, i+1, spec.Number)
		assert.Equal(t, start.AddDate(0, 0, i*7), spec.ScheduledDate, "session %d", i+1)
	}
}

func TestGenerateSchedule_SundayShiftsToMonday(t *testing.T) {
	// 2024-01-07 is a Sunday; with a 5-day gap session 2 lands on it
	start := day(2024, time.January, 2)

	specs, err := scheduling.GenerateSchedule(start, 3, 5, 0)
	require.NoError(t, err)

	assert.Equal(t, day(2024, time.January, 2), specs[0].ScheduledDate)
	assert.Equal(t, day(2024, time.January, 8), specs[1].ScheduledDate, "Sunday moves to the following Monday")
	assert.Equal(t, day(2024, time.January, 12), specs[2].ScheduledDate, "gap keeps counting from the raw date, not the shifted one")
}

func TestGenerateSchedule_StartOnSunday(t *testing.T) {
	start := day(2024, time.January, 7) // Sunday

	specs, err := scheduling.GenerateSchedule(start, 1, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 8), specs[0].ScheduledDate)
	assert.Equal(t, time.Monday, specs[0].ScheduledDate.Weekday())
}

func TestGenerateSchedule_SaturdayNotShifted(t *testing.T) {
	start := day(2024, time.January, 6) // Saturday

	specs, err := scheduling.GenerateSchedule(start, 1, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 6), specs[0].ScheduledDate, "only Sunday is corrected")
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	start := day(2024, time.March, 1)

	first, err := scheduling.GenerateSchedule(start, 12, 3, 4)
	require.NoError(t, err)
	second, err := scheduling.GenerateSchedule(start, 12, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second, "pure function of its inputs")
}

func TestGenerateSchedule_IgnoresClockOnStart(t *testing.T) {
	midnight := day(2024, time.March, 1)
	afternoon := time.Date(2024, time.March, 1, 15, 42, 7, 0, time.UTC)

	a, err := scheduling.GenerateSchedule(midnight, 4, 2, 0)
	require.NoError(t, err)
	b, err := scheduling.GenerateSchedule(afternoon, 4, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateSchedule_AlreadyCompletedStatuses(t *testing.T) {
	specs, err := scheduling.GenerateSchedule(day(2024, time.January, 2), 4, 7, 2)
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, specs[0].Status)
	assert.Equal(t, models.SessionCompleted, specs[1].Status)
	assert.Equal(t, models.SessionPlanned, specs[2].Status)
	assert.Equal(t, models.SessionPlanned, specs[3].Status)
}

func TestRegeneratePlan_OutOfOrderCompletionKeepsNumbersUnique(t *testing.T) {
	// GIVEN: 3 sessions where only session 2 was completed, out of order
	start := day(2024, time.January, 2)

	fresh, err := scheduling.RegeneratePlan(start, 3, 7, map[int]bool{2: true})
	require.NoError(t, err)

	// THEN: the fresh batch fills exactly the gaps around the survivor —
	// never a second row numbered 2
	require.Len(t, fresh, 2)
	assert.Equal(t, 1, fresh[0].Number)
	assert.Equal(t, 3, fresh[1].Number)
	for _, spec := range fresh {
		assert.Equal(t, models.SessionPlanned, spec.Status)
	}
	assert.Equal(t, start, fresh[0].ScheduledDate)
	assert.Equal(t, start.AddDate(0, 0, 14), fresh[1].ScheduledDate, "number 3 keeps its slot in the date formula")
}

func TestRegeneratePlan_InOrderPrefixMatchesSkip(t *testing.T) {
	start := day(2024, time.January, 2)

	fresh, err := scheduling.RegeneratePlan(start, 4, 7, map[int]bool{1: true, 2: true})
	require.NoError(t, err)

	require.Len(t, fresh, 2)
	assert.Equal(t, 3, fresh[0].Number)
	assert.Equal(t, 4, fresh[1].Number)
}

func TestRegeneratePlan_NothingCompleted(t *testing.T) {
	fresh, err := scheduling.RegeneratePlan(day(2024, time.January, 2), 3, 7, nil)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
	for i, spec := range fresh {
		assert.Equal(t, i+1, spec.Number)
	}
}

func TestGenerateSchedule_Bounds(t *testing.T) {
	start := day(2024, time.January, 2)

	cases := []struct {
		name     string
		sessions int
		gap      int
	}{
		{"zero sessions", 0, 7},
		{"too many sessions", 1001, 7},
		{"zero gap", 10, 0},
		{"gap over a year", 10, 366},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scheduling.GenerateSchedule(start, tc.sessions, tc.gap, 0)
			assert.ErrorIs(t, err, scheduling.ErrInvalidInput)
		})
	}

	// boundary values are accepted
	_, err := scheduling.GenerateSchedule(start, 1000, 365, 0)
	assert.NoError(t, err)
	_, err = scheduling.GenerateSchedule(start, 1, 1, 0)
	assert.NoError(t, err)
}
