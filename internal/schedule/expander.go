package schedule

import (
	"errors"
	"time"
)

// Weekday indexes used by the announcement form: Monday=0 .. Sunday=6.
// time.Weekday counts from Sunday, so the form values are remapped here.

var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrRangeTooLong   = errors.New("date range is longer than 366 days")
	ErrNoMatchingDates = errors.New("no dates match the selected weekdays")
)

const maxSpanDays = 366

// Expand returns every date in [start, end] whose weekday is in allowed,
// in ascending order. The result is what a recurring announcement turns
// into: one visit row per returned date.
func Expand(start, end time.Time, allowed []int) ([]time.Time, error) {
	start = midnight(start)
	end = midnight(end)

	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	if int(end.Sub(start).Hours())/24 > maxSpanDays {
		return nil, ErrRangeTooLong
	}

	allowedSet := make(map[int]bool, len(allowed))
	for _, d := range allowed {
		allowedSet[d] = true
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if allowedSet[mondayIndex(d)] {
			dates = append(dates, d)
		}
	}

	if len(dates) == 0 {
		return nil, ErrNoMatchingDates
	}
	return dates, nil
}

// mondayIndex maps time.Weekday (Sunday=0) to the form's Monday=0 scheme.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
