package billing

import (
	"time"

	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

const monthLayout = "2006-01"

// ParseMonth validates a "YYYY-MM" month string and returns the first day of
// that month in the provided location.
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(monthLayout, value, loc)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "month must be formatted as YYYY-MM")
	}
	return parsed, nil
}

// MonthBounds returns the half-open [start, end) interval covering the month.
func MonthBounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return start, start.AddDate(0, 1, 0)
}

// FormatMonth renders a date as its "YYYY-MM" month string.
func FormatMonth(t time.Time) string {
	return t.Format(monthLayout)
}
