package contract

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of contract dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, raw)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// monthsBetween counts whole months from start to end, dropping a trailing partial month.
func monthsBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	months := (ey-sy)*12 + int(em-sm)
	if ed < sd {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func daysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
