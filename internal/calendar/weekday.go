package calendar

import (
	"fmt"
	"strings"
	"time"
)

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday by full or three-letter name, case-insensitively.
func ParseWeekday(value string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if day, ok := weekdaysByName[name]; ok {
		return day, nil
	}
	if len(name) == 3 {
		for full, day := range weekdaysByName {
			if strings.HasPrefix(full, name) {
				return day, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, value)
}

// NextWeekday returns the weekday after day, wrapping Saturday to Sunday.
func NextWeekday(day time.Weekday) time.Weekday {
	return (day + 1) % daysInWeek
}

// WeekStartOnOrBefore returns the latest date on or before d that falls on weekStart.
func WeekStartOnOrBefore(d Date, weekStart time.Weekday) Date {
	return d.AddDays(-weekOffset(d.Weekday(), weekStart))
}

func weekOffset(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + daysInWeek) % daysInWeek
}
