package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CountMode selects how a trailing partial week is counted.
type CountMode int

const (
	// CountTruncate divides (days+offset) by 7 with truncation, so a trailing
	// partial week is not a page.
	CountTruncate CountMode = iota
	// CountCeil counts every week touched by [Min, Max], so the week holding
	// Max is always a page.
	CountCeil
)

// ParseCountMode parses "truncate" or "ceil".
func ParseCountMode(value string) (CountMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "truncate":
		return CountTruncate, nil
	case "ceil":
		return CountCeil, nil
	default:
		return CountTruncate, fmt.Errorf("invalid page count mode %q (expected truncate or ceil)", value)
	}
}

// String returns the config name of the mode.
func (m CountMode) String() string {
	if m == CountCeil {
		return "ceil"
	}
	return "truncate"
}

// DateRange is an inclusive range of dates with Min <= Max.
type DateRange struct {
	Min Date
	Max Date
}

// NewDateRange validates and returns a range.
func NewDateRange(min, max Date) (DateRange, error) {
	if min.IsZero() || max.IsZero() {
		return DateRange{}, fmt.Errorf("%w: both bounds are required", ErrInvalidRange)
	}
	if min.After(max) {
		return DateRange{}, fmt.Errorf("%w (%s > %s)", ErrInvalidRange, min, max)
	}
	return DateRange{Min: min, Max: max}, nil
}

// Contains reports whether d lies within the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Min) && !d.After(r.Max)
}

// Mapper converts between page positions and the calendar weeks they show.
// Page 0 starts on the week-start day on or before Min.
type Mapper struct {
	rng       DateRange
	weekStart time.Weekday
	mode      CountMode

	offset       int
	alignedStart Date
	count        int
}

// NewMapper returns a mapper with no range; Count is 0 until SetRange is called.
func NewMapper(weekStart time.Weekday, mode CountMode) *Mapper {
	return &Mapper{weekStart: weekStart, mode: mode}
}

// SetRange replaces the range and recomputes offset, aligned start and count.
// An invalid range leaves the mapper unchanged.
func (m *Mapper) SetRange(min, max Date) error {
	rng, err := NewDateRange(min, max)
	if err != nil {
		return err
	}
	m.rng = rng
	m.recompute()
	return nil
}

// SetWeekStart changes the first day of the week.
func (m *Mapper) SetWeekStart(day time.Weekday) {
	m.weekStart = day
	m.recompute()
}

// SetCountMode changes how a trailing partial week is counted.
func (m *Mapper) SetCountMode(mode CountMode) {
	m.mode = mode
	m.recompute()
}

func (m *Mapper) recompute() {
	if m.rng.Min.IsZero() {
		return
	}
	m.offset = weekOffset(m.rng.Min.Weekday(), m.weekStart)
	m.alignedStart = m.rng.Min.AddDays(-m.offset)
	span := DaysBetween(m.rng.Min, m.rng.Max) + m.offset
	m.count = span / daysInWeek
	if m.mode == CountCeil {
		m.count++
	}
}

// Range returns the configured range.
func (m *Mapper) Range() DateRange { return m.rng }

// WeekStart returns the first day of the week.
func (m *Mapper) WeekStart() time.Weekday { return m.weekStart }

// CountMode returns the page count mode.
func (m *Mapper) CountMode() CountMode { return m.mode }

// Offset returns how many days Min lies after the aligned start (0-6).
func (m *Mapper) Offset() int { return m.offset }

// AlignedStart returns the first day of page 0.
func (m *Mapper) AlignedStart() Date { return m.alignedStart }

// Count returns the number of pages.
func (m *Mapper) Count() int { return m.count }

// StartOfPage returns the first day of the week shown at position. Positions
// outside [0, Count()) are not clamped.
func (m *Mapper) StartOfPage(position int) Date {
	return m.alignedStart.AddDays(daysInWeek * position)
}

// PositionOf returns the page showing d. Without clamp the raw value is
// returned, which may be negative or >= Count() for dates outside the range.
func (m *Mapper) PositionOf(d Date, clamp bool) int {
	position := (DaysBetween(m.rng.Min, d) + m.offset) / daysInWeek
	if !clamp {
		return position
	}
	return constrain(position, 0, m.count-1)
}

// constrain prefers low when high < low, so an empty mapper clamps to 0.
func constrain(value, low, high int) int {
	if value > high {
		value = high
	}
	if value < low {
		value = low
	}
	return value
}
