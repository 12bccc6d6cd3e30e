// Package valueobject contains domain value objects for the transaction cache.
package valueobject

import (
	"fmt"
	"time"

	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// DayLayout is the layout of a local calendar day.
const DayLayout = "2006-01-02"

// endOfDayNanos places the window end at 23:59:59.999.
const endOfDayNanos = int(999 * time.Millisecond)

// DayWindow is a closed range of local calendar days translated to absolute instants.
// A window whose end day precedes its start day is empty and contains nothing.
type DayWindow struct {
	StartDay string
	EndDay   string
	start    time.Time
	end      time.Time
}

// NewDayWindow interprets startDay as local midnight and endDay as local 23:59:59.999
// in loc. A nil loc means time.Local.
func NewDayWindow(startDay, endDay string, loc *time.Location) (DayWindow, error) {
	if startDay == "" {
		return DayWindow{}, domainerror.NewDashboardError(
			domainerror.ErrCodeMissingStartDate, "start day is required", domainerror.ErrMissingStartDate)
	}
	if endDay == "" {
		return DayWindow{}, domainerror.NewDashboardError(
			domainerror.ErrCodeMissingEndDate, "end day is required", domainerror.ErrMissingEndDate)
	}

	start, err := ParseDay(startDay, loc)
	if err != nil {
		return DayWindow{}, err
	}
	endMidnight, err := ParseDay(endDay, loc)
	if err != nil {
		return DayWindow{}, err
	}

	y, m, d := endMidnight.Date()
	end := time.Date(y, m, d, 23, 59, 59, endOfDayNanos, endMidnight.Location())

	return DayWindow{
		StartDay: startDay,
		EndDay:   endDay,
		start:    start,
		end:      end,
	}, nil
}

// Bounds returns the absolute start and end instants of the window.
func (w DayWindow) Bounds() (start, end time.Time) {
	return w.start, w.end
}

// IsEmpty reports whether the window contains no instant.
func (w DayWindow) IsEmpty() bool {
	return w.end.Before(w.start)
}

// Contains reports whether start <= instant <= end.
func (w DayWindow) Contains(instant time.Time) bool {
	if w.IsEmpty() {
		return false
	}
	return !instant.Before(w.start) && !instant.After(w.end)
}

// LocalDayWindowToInstants converts a local day range to its absolute interval.
func LocalDayWindowToInstants(startDay, endDay string, loc *time.Location) (time.Time, time.Time, error) {
	w, err := NewDayWindow(startDay, endDay, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end := w.Bounds()
	return start, end, nil
}

// IsInstantInLocalWindow reports whether instant falls inside the local day range.
// Malformed days never contain anything.
func IsInstantInLocalWindow(instant time.Time, startDay, endDay string, loc *time.Location) bool {
	w, err := NewDayWindow(startDay, endDay, loc)
	if err != nil {
		return false
	}
	return w.Contains(instant)
}

// ParseDay returns local midnight of a YYYY-MM-DD day in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return time.Time{}, domainerror.NewDashboardError(
			domainerror.ErrCodeInvalidDateFormat,
			fmt.Sprintf("invalid day %q, expected YYYY-MM-DD", day),
			domainerror.ErrInvalidDateFormat,
		)
	}
	return t, nil
}

// FormatDay returns the local calendar day of t in loc.
func FormatDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// AddDays shifts a local calendar day by n days.
func AddDays(day string, n int, loc *time.Location) (string, error) {
	t, err := ParseDay(day, loc)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DayLayout), nil
}
