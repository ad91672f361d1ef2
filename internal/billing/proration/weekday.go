package proration

import "time"

// DateIn resolves an instant to a local calendar date in the given location.
// Billing does this once at the input boundary; everything downstream works
// on plain dates.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// CountWeekdays counts Monday-Friday days in the inclusive [start, end]
// range. Time-of-day is ignored. An inverted range yields 0 rather than an
// error; malformed periods degrade to a zero credit.
func CountWeekdays(start, end time.Time) int {
	day := truncateToDay(start)
	last := truncateToDay(end)

	count := 0
	for !day.After(last) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
