// Package dateutils holds the calendar-date helpers shared by the workbook
// reader, the row parsers and the installment expander. Dates are civil dates:
// they are always normalized to midnight UTC.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayoutISO is the canonical textual form of a calendar date.
const DateLayoutISO = "2006-01-02"

// ParseISODate parses a strict YYYY-MM-DD calendar date. Surrounding
// whitespace is ignored; anything else (times, other layouts, impossible dates
// such as 2024-02-30) is rejected.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(DateLayoutISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}
	return t, nil
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// DateOnly drops the clock and location of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months keeping the day of month when the
// target month has it, otherwise clamping to the target month's last day
// (2024-01-31 + 1 month = 2024-02-29). time.AddDate would overflow into the
// following month instead.
func AddMonths(t time.Time, n int) time.Time {
	t = DateOnly(t)
	total := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(floorMod(total, 12) + 1)

	day := t.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return Date(year, month, day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
