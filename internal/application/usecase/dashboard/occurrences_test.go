package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

func window(t *testing.T, start, end string) valueobject.DayWindow {
	t.Helper()
	w, err := valueobject.NewDayWindow(start, end, time.UTC)
	require.NoError(t, err)
	return w
}

func ptr(v time.Time) *time.Time {
	return &v
}

// farEnd bounds series that outlive every window of a test.
var farEnd = ptr(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))

func TestCountOccurrences_NonRecurring(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, CountOccurrences(base, nil, entity.RecurrenceNone, window(t, "2024-01-01", "2024-01-31")))
	assert.Equal(t, 0, CountOccurrences(base, nil, entity.RecurrenceNone, window(t, "2024-02-01", "2024-02-29")))
}

func TestCountOccurrences_DailyFullWeek(t *testing.T) {
	base := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	until := base.AddDate(1, 0, 0)

	got := CountOccurrences(base, &until, entity.RecurrenceDaily, window(t, "2024-05-06", "2024-05-12"))
	assert.Equal(t, 7, got)
}

func TestCountOccurrences_WeeklyScenario(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got := CountOccurrences(base, &until, entity.RecurrenceWeekly, window(t, "2024-01-01", "2024-01-31"))
	assert.Equal(t, 5, got)
}

func TestCountOccurrences_FixedSteps(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cadence  entity.Recurrence
		until    *time.Time
		start    string
		end      string
		expected int
	}{
		{"daily window after base", entity.RecurrenceDaily, farEnd, "2024-01-10", "2024-01-19", 10},
		{"daily stops at until", entity.RecurrenceDaily, ptr(time.Date(2024, 1, 12, 9, 30, 0, 0, time.UTC)), "2024-01-10", "2024-01-19", 3},
		{"daily until just before occurrence", entity.RecurrenceDaily, ptr(time.Date(2024, 1, 12, 9, 29, 59, 0, time.UTC)), "2024-01-10", "2024-01-19", 2},
		{"weekly offset window", entity.RecurrenceWeekly, farEnd, "2024-01-02", "2024-01-31", 4},
		{"biweekly january", entity.RecurrenceBiweekly, farEnd, "2024-01-01", "2024-01-31", 3},
		{"biweekly window between occurrences", entity.RecurrenceBiweekly, farEnd, "2024-01-02", "2024-01-14", 0},
		{"window before base", entity.RecurrenceWeekly, farEnd, "2023-12-01", "2023-12-31", 0},
		{"until before base", entity.RecurrenceDaily, ptr(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)), "2023-12-01", "2024-12-31", 0},
		{"empty window", entity.RecurrenceDaily, farEnd, "2024-01-10", "2024-01-01", 0},
		{"daily without end date", entity.RecurrenceDaily, nil, "2024-01-10", "2024-01-19", 0},
		{"weekly without end date", entity.RecurrenceWeekly, nil, "2024-01-01", "2024-01-31", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountOccurrences(base, tt.until, tt.cadence, window(t, tt.start, tt.end))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCountOccurrences_LongLivedSeriesFarFromBase(t *testing.T) {
	base := time.Date(1990, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 31, CountOccurrences(base, farEnd, entity.RecurrenceDaily, window(t, "2024-01-01", "2024-01-31")))
	assert.Equal(t, 12, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, window(t, "2024-01-01", "2024-12-31")))
}

func TestCountOccurrences_MissingEndDateCountsNothing(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cadences := []entity.Recurrence{
		entity.RecurrenceDaily,
		entity.RecurrenceWeekly,
		entity.RecurrenceBiweekly,
		entity.RecurrenceMonthly,
	}

	for _, cadence := range cadences {
		t.Run(string(cadence), func(t *testing.T) {
			assert.Equal(t, 0, CountOccurrences(base, nil, cadence, window(t, "2024-01-01", "2024-12-31")))
		})
	}

	open := tx("1", entity.TransactionTypeExpense, 10, base, "Gym")
	open.IsRecurring = true
	open.Recurrence = entity.RecurrenceWeekly
	assert.Equal(t, 0, OccurrencesOf(open, window(t, "2024-01-01", "2024-01-31")))
}

func TestCountOccurrences_MonthlyClampsToMonthEnd(t *testing.T) {
	base := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	t.Run("leap february lands on the 29th", func(t *testing.T) {
		assert.Equal(t, 1, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, window(t, "2024-02-29", "2024-02-29")))
		assert.Equal(t, 0, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, window(t, "2024-03-01", "2024-03-30")))
	})

	t.Run("march returns to the 31st", func(t *testing.T) {
		assert.Equal(t, 1, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, window(t, "2024-03-31", "2024-03-31")))
	})

	t.Run("28 day february lands on the 28th", func(t *testing.T) {
		base2023 := time.Date(2023, 1, 31, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, CountOccurrences(base2023, farEnd, entity.RecurrenceMonthly, window(t, "2023-02-28", "2023-02-28")))
		assert.Equal(t, 0, CountOccurrences(base2023, farEnd, entity.RecurrenceMonthly, window(t, "2023-03-01", "2023-03-03")))
	})

	t.Run("four months", func(t *testing.T) {
		assert.Equal(t, 4, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, window(t, "2024-01-01", "2024-04-30")))
	})
}

func TestMonthlyOccurrence(t *testing.T) {
	base := time.Date(2024, 1, 31, 10, 15, 30, 250_000_000, time.UTC)

	expected := []time.Time{
		base,
		time.Date(2024, 2, 29, 10, 15, 30, 250_000_000, time.UTC),
		time.Date(2024, 3, 31, 10, 15, 30, 250_000_000, time.UTC),
		time.Date(2024, 4, 30, 10, 15, 30, 250_000_000, time.UTC),
		time.Date(2025, 2, 28, 10, 15, 30, 250_000_000, time.UTC),
	}
	ks := []int{0, 1, 2, 3, 13}

	for i, k := range ks {
		assert.Equal(t, expected[i], MonthlyOccurrence(base, k), "k=%d", k)
	}
}

func TestCountOccurrences_MonthlyUsesUTCFields(t *testing.T) {
	// 2024-01-01T03:00Z is still Dec 31 in a UTC-6 zone; occurrences stay on the 1st UTC.
	local := time.FixedZone("CST", -6*60*60)
	base := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	w, err := valueobject.NewDayWindow("2024-01-31", "2024-02-28", local)
	require.NoError(t, err)

	assert.Equal(t, 1, CountOccurrences(base, farEnd, entity.RecurrenceMonthly, w))
}

func TestCountOccurrences_MonotonicInWindowEnd(t *testing.T) {
	base := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	until := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	cadences := []entity.Recurrence{
		entity.RecurrenceDaily,
		entity.RecurrenceWeekly,
		entity.RecurrenceBiweekly,
		entity.RecurrenceMonthly,
	}

	for _, cadence := range cadences {
		t.Run(string(cadence), func(t *testing.T) {
			previous := 0
			end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 300; i++ {
				w := window(t, "2024-01-15", end.AddDate(0, 0, i).Format(valueobject.DayLayout))
				got := CountOccurrences(base, &until, cadence, w)
				require.GreaterOrEqual(t, got, previous, "day %d", i)
				previous = got
			}
		})
	}
}

func TestCountOccurrences_UnknownCadence(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, CountOccurrences(base, nil, entity.Recurrence("yearly"), window(t, "2024-01-01", "2024-12-31")))

	_, err := GetOccurrenceCounter("yearly")
	assert.Error(t, err)
}
