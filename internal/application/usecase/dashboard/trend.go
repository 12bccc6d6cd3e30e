package dashboard

import (
	"fmt"
	"time"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

// Granularity is the width of each period of a trend series.
type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

// ParseGranularity validates a granularity. Empty means monthly.
func ParseGranularity(value string) (Granularity, error) {
	switch g := Granularity(value); g {
	case "":
		return GranularityMonthly, nil
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityQuarterly:
		return g, nil
	}
	return "", domainerror.NewDashboardError(
		domainerror.ErrCodeInvalidGranularity,
		fmt.Sprintf("unknown granularity %q", value),
		domainerror.ErrInvalidGranularity,
	)
}

// monthAbbreviations maps months to Spanish abbreviations.
var monthAbbreviations = map[time.Month]string{
	time.January:   "Ene",
	time.February:  "Feb",
	time.March:     "Mar",
	time.April:     "Abr",
	time.May:       "May",
	time.June:      "Jun",
	time.July:      "Jul",
	time.August:    "Ago",
	time.September: "Sep",
	time.October:   "Oct",
	time.November:  "Nov",
	time.December:  "Dic",
}

// PeriodInfo is one period of a series, clipped to the requested range.
type PeriodInfo struct {
	StartDay string
	EndDay   string
	Label    string
}

// GeneratePeriodLabel generates a human-readable label for the period starting at date.
// Formats:
// - Weekly: "S{week} {year}" (e.g., "S12 2025")
// - Monthly: "{month_abbr} {year}" (e.g., "Mar 2025")
// - Quarterly: "T{quarter} {year}" (e.g., "T1 2025")
func GeneratePeriodLabel(date time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		year, week := date.ISOWeek()
		return fmt.Sprintf("S%d %d", week, year)
	case GranularityMonthly:
		return fmt.Sprintf("%s %d", monthAbbreviations[date.Month()], date.Year())
	case GranularityQuarterly:
		return fmt.Sprintf("T%d %d", quarterOf(date)+1, date.Year())
	default:
		return date.Format("02/01/2006")
	}
}

// GeneratePeriodSeries lists every period touching [start, end], both local midnights.
// The first and last periods are clipped so the series covers exactly the range.
func GeneratePeriodSeries(start, end time.Time, granularity Granularity) []PeriodInfo {
	periods := make([]PeriodInfo, 0)

	current := periodStart(start, granularity)
	for !current.After(end) {
		next := nextPeriod(current, granularity)

		from := current
		if from.Before(start) {
			from = start
		}
		to := next.AddDate(0, 0, -1)
		if to.After(end) {
			to = end
		}

		periods = append(periods, PeriodInfo{
			StartDay: from.Format(valueobject.DayLayout),
			EndDay:   to.Format(valueobject.DayLayout),
			Label:    GeneratePeriodLabel(current, granularity),
		})
		current = next
	}

	return periods
}

// ComputeTrend totals the transactions period by period over a local-day range.
// Recurring transactions contribute every occurrence that lands in a period.
func ComputeTrend(txs []entity.Transaction, startDay, endDay string, granularity Granularity, loc *time.Location) ([]entity.TrendPoint, error) {
	window, err := valueobject.NewDayWindow(startDay, endDay, loc)
	if err != nil {
		return nil, err
	}
	points := make([]entity.TrendPoint, 0)
	if window.IsEmpty() {
		return points, nil
	}

	start, _ := window.Bounds()
	end, err := valueobject.ParseDay(endDay, loc)
	if err != nil {
		return nil, err
	}

	for _, period := range GeneratePeriodSeries(start, end, granularity) {
		periodWindow, err := valueobject.NewDayWindow(period.StartDay, period.EndDay, loc)
		if err != nil {
			return nil, err
		}
		totals := ComputeDashboard(txs, periodWindow)
		points = append(points, entity.TrendPoint{
			StartDay: period.StartDay,
			EndDay:   period.EndDay,
			Label:    period.Label,
			Income:   totals.Income,
			Expense:  totals.Expense,
			Balance:  totals.Balance,
		})
	}

	return points, nil
}

// periodStart returns the first day of the period containing date.
// Weeks start on Monday.
func periodStart(date time.Time, granularity Granularity) time.Time {
	y, m, d := date.Date()
	loc := date.Location()

	switch granularity {
	case GranularityWeekly:
		weekday := int(date.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday is 7
		}
		return time.Date(y, m, d-(weekday-1), 0, 0, 0, 0, loc)
	case GranularityMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case GranularityQuarterly:
		return time.Date(y, time.Month(quarterOf(date)*3+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

func nextPeriod(start time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityWeekly:
		return start.AddDate(0, 0, 7)
	case GranularityMonthly:
		return start.AddDate(0, 1, 0)
	case GranularityQuarterly:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

func quarterOf(date time.Time) int {
	return (int(date.Month()) - 1) / 3
}
