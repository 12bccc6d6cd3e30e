// Package dashboard contains the aggregation use cases over the cached transactions.
package dashboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

const day = 24 * time.Hour

// OccurrenceCounter counts the occurrences of one cadence inside [from, to].
// Callers guarantee base <= from <= to.
type OccurrenceCounter interface {
	Count(base, from, to time.Time) int
}

// FixedStepCounter counts cadences with a constant step on the absolute timeline.
type FixedStepCounter struct {
	Step time.Duration
}

// Count jumps straight to the first index at or after from.
func (c FixedStepCounter) Count(base, from, to time.Time) int {
	if c.Step <= 0 || to.Before(from) {
		return 0
	}

	var k0 int64
	if from.After(base) {
		diff := from.Sub(base)
		k0 = int64((diff + c.Step - 1) / c.Step)
	}

	first := base.Add(time.Duration(k0) * c.Step)
	if first.After(to) {
		return 0
	}
	return int(to.Sub(first)/c.Step) + 1
}

// MonthlyCounter counts calendar-month steps in UTC fields.
type MonthlyCounter struct{}

// Count visits only the months between from and to.
func (MonthlyCounter) Count(base, from, to time.Time) int {
	if to.Before(from) {
		return 0
	}

	b := base.UTC()
	f := from.UTC()
	k := (f.Year()-b.Year())*12 + int(f.Month()) - int(b.Month())
	if k < 0 {
		k = 0
	}

	occ := MonthlyOccurrence(b, k)
	if occ.Before(from) {
		k++
		occ = MonthlyOccurrence(b, k)
	}

	count := 0
	for !occ.After(to) {
		count++
		k++
		occ = MonthlyOccurrence(b, k)
	}
	return count
}

// MonthlyOccurrence returns occurrence k of a monthly series starting at base.
// The day of month is clamped to the last day of shorter months, and every
// occurrence is derived from base, so Jan 31 yields Feb 29 and then Mar 31.
func MonthlyOccurrence(base time.Time, k int) time.Time {
	b := base.UTC()
	target := time.Date(b.Year(), b.Month()+time.Month(k), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	d := b.Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(target.Year(), target.Month(), d, b.Hour(), b.Minute(), b.Second(), b.Nanosecond(), time.UTC)
}

var occurrenceCounters = map[entity.Recurrence]OccurrenceCounter{
	entity.RecurrenceDaily:    FixedStepCounter{Step: day},
	entity.RecurrenceWeekly:   FixedStepCounter{Step: 7 * day},
	entity.RecurrenceBiweekly: FixedStepCounter{Step: 14 * day},
	entity.RecurrenceMonthly:  MonthlyCounter{},
}

// GetOccurrenceCounter returns the counter registered for a cadence.
func GetOccurrenceCounter(cadence entity.Recurrence) (OccurrenceCounter, error) {
	counter, ok := occurrenceCounters[cadence]
	if !ok {
		return nil, fmt.Errorf("unsupported recurrence: %q", cadence)
	}
	return counter, nil
}

// CountOccurrences returns how many occurrences of a series starting at base and
// ending at until fall inside window. A recurring series without until counts nothing.
func CountOccurrences(base time.Time, until *time.Time, cadence entity.Recurrence, window valueobject.DayWindow) int {
	if cadence == entity.RecurrenceNone {
		if window.Contains(base) {
			return 1
		}
		return 0
	}
	if window.IsEmpty() || until == nil {
		return 0
	}

	counter, err := GetOccurrenceCounter(cadence)
	if err != nil {
		slog.Debug("Skipping transaction with unknown recurrence", "recurrence", cadence)
		return 0
	}

	windowStart, windowEnd := window.Bounds()
	from := base
	if windowStart.After(from) {
		from = windowStart
	}
	to := windowEnd
	if until.Before(to) {
		to = *until
	}
	if to.Before(from) {
		return 0
	}

	return counter.Count(base, from, to)
}

// OccurrencesOf returns the number of times tx contributes to window.
func OccurrencesOf(tx entity.Transaction, window valueobject.DayWindow) int {
	if !tx.Recurs() {
		return CountOccurrences(tx.Date, nil, entity.RecurrenceNone, window)
	}
	return CountOccurrences(tx.Date, tx.EndDate, tx.Recurrence, window)
}
