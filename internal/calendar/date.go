// Package calendar maps calendar weeks in a bounded date range to page positions.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual form used for dates in config, flags, and storage.
const DateLayout = "2006-01-02"

const (
	daysInWeek    = 7
	secondsPerDay = 24 * 60 * 60
)

var (
	// ErrInvalidRange is returned when the minimum date is after the maximum date.
	ErrInvalidRange = errors.New("invalid date range: min is after max")
	// ErrInvalidWeekday is returned for weekday names that cannot be parsed.
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// Date is a calendar date without a time component. The zero value means "no date".
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day. Out-of-range
// values are normalized the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(parsed), nil
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return d.t
}

// Year returns the year of the date.
func (d Date) Year() int { return d.t.Year() }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same date.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// MonthKey returns the month event index key of the date.
func (d Date) MonthKey() MonthKey {
	return NewMonthKey(d.Year(), d.Month())
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// DaysBetween returns the number of days from a to b; negative when b is before a.
func DaysBetween(a, b Date) int {
	return int((b.t.Unix() - a.t.Unix()) / secondsPerDay)
}

// MonthKey identifies a month as year*12 + (month-1).
type MonthKey int

// NewMonthKey returns the key for the given year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(year*12 + int(month) - 1)
}

// Year returns the year of the key.
func (k MonthKey) Year() int { return int(k) / 12 }

// Month returns the month of the key.
func (k MonthKey) Month() time.Month { return time.Month(int(k)%12 + 1) }

// MonthEvents maps months to the sorted days of month that carry events.
type MonthEvents map[MonthKey][]int

// Has reports whether the given date carries an event.
func (e MonthEvents) Has(d Date) bool {
	if d.IsZero() {
		return false
	}
	for _, day := range e[d.MonthKey()] {
		if day == d.Day() {
			return true
		}
	}
	return false
}
