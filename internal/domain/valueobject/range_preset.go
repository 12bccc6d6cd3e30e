package valueobject

import (
	"time"

	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// RangePreset is a named local-day range ending today.
type RangePreset string

const (
	RangeLast7Days   RangePreset = "7d"
	RangeLast30Days  RangePreset = "30d"
	RangeMonthToDate RangePreset = "month"
)

// PresetWindow resolves a preset against now in the observer's location.
func PresetWindow(preset RangePreset, now time.Time, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var start time.Time
	switch preset {
	case RangeLast7Days:
		start = today.AddDate(0, 0, -6)
	case RangeLast30Days:
		start = today.AddDate(0, 0, -29)
	case RangeMonthToDate:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return DayWindow{}, domainerror.NewDashboardError(
			domainerror.ErrCodeUnknownRangePreset, "unknown range preset", domainerror.ErrUnknownRangePreset)
	}

	return NewDayWindow(start.Format(DayLayout), today.Format(DayLayout), loc)
}
