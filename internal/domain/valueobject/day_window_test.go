package valueobject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

var tegucigalpa = time.FixedZone("CST", -6*60*60)

func TestNewDayWindow_Bounds(t *testing.T) {
	w, err := NewDayWindow("2024-03-01", "2024-03-31", tegucigalpa)
	require.NoError(t, err)

	start, end := w.Bounds()
	assert.Equal(t, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 4, 1, 5, 59, 59, 999_000_000, time.UTC), end.UTC())
	assert.False(t, w.IsEmpty())
}

func TestDayWindow_ContainsBoundaries(t *testing.T) {
	w, err := NewDayWindow("2024-03-10", "2024-03-10", tegucigalpa)
	require.NoError(t, err)

	tests := []struct {
		name     string
		instant  time.Time
		expected bool
	}{
		{"local midnight", time.Date(2024, 3, 10, 0, 0, 0, 0, tegucigalpa), true},
		{"local end of day", time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, tegucigalpa), true},
		{"one millisecond before start", time.Date(2024, 3, 9, 23, 59, 59, 999_000_000, tegucigalpa), false},
		{"next local midnight", time.Date(2024, 3, 11, 0, 0, 0, 0, tegucigalpa), false},
		{"UTC midnight of the same date is previous local day", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"UTC early morning of next date is still local day", time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Contains(tt.instant))
		})
	}
}

func TestDayWindow_ShiftingWindowMovesBoundaryTransaction(t *testing.T) {
	instant := time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, tegucigalpa)

	assert.True(t, IsInstantInLocalWindow(instant, "2024-03-09", "2024-03-10", tegucigalpa))
	assert.False(t, IsInstantInLocalWindow(instant, "2024-03-11", "2024-03-12", tegucigalpa))
	assert.False(t, IsInstantInLocalWindow(instant, "2024-03-08", "2024-03-09", tegucigalpa))
}

func TestDayWindow_EndBeforeStartIsEmpty(t *testing.T) {
	w, err := NewDayWindow("2024-03-10", "2024-03-01", time.UTC)
	require.NoError(t, err)

	assert.True(t, w.IsEmpty())
	assert.False(t, w.Contains(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestNewDayWindow_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected domainerror.DashboardErrorCode
	}{
		{"missing start", "", "2024-01-01", domainerror.ErrCodeMissingStartDate},
		{"missing end", "2024-01-01", "", domainerror.ErrCodeMissingEndDate},
		{"bad start", "2024/01/01", "2024-01-02", domainerror.ErrCodeInvalidDateFormat},
		{"bad end", "2024-01-01", "2024-02-30", domainerror.ErrCodeInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDayWindow(tt.start, tt.end, time.UTC)
			require.Error(t, err)

			var dashErr *domainerror.DashboardError
			require.True(t, errors.As(err, &dashErr))
			assert.Equal(t, tt.expected, dashErr.Code)
		})
	}

	assert.False(t, IsInstantInLocalWindow(time.Now(), "garbage", "2024-01-01", time.UTC))
}

func TestLocalDayWindowToInstants(t *testing.T) {
	start, end, err := LocalDayWindowToInstants("2024-01-01", "2024-01-31", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestAddDaysAndFormatDay(t *testing.T) {
	day, err := AddDays("2024-03-01", -1, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", day)

	instant := time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", FormatDay(instant, tegucigalpa))
}

func TestPresetWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC) // 2024-03-14 20:00 local

	tests := []struct {
		preset RangePreset
		start  string
		end    string
	}{
		{RangeLast7Days, "2024-03-08", "2024-03-14"},
		{RangeLast30Days, "2024-02-14", "2024-03-14"},
		{RangeMonthToDate, "2024-03-01", "2024-03-14"},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			w, err := PresetWindow(tt.preset, now, tegucigalpa)
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.StartDay)
			assert.Equal(t, tt.end, w.EndDay)
		})
	}

	_, err := PresetWindow("year", now, tegucigalpa)
	assert.ErrorIs(t, err, domainerror.ErrUnknownRangePreset)
}
