package calendar

import (
	"errors"
	"testing"
	"time"
)

func mustMapper(t *testing.T, min, max Date, weekStart time.Weekday, mode CountMode) *Mapper {
	t.Helper()
	m := NewMapper(weekStart, mode)
	if err := m.SetRange(min, max); err != nil {
		t.Fatalf("set range: %v", err)
	}
	return m
}

func TestMapperAlignsMondayToSunday(t *testing.T) {
	m := mustMapper(t, NewDate(2024, 1, 15), NewDate(2024, 2, 15), time.Sunday, CountTruncate)
	if m.Offset() != 1 {
		t.Fatalf("expected offset 1, got %d", m.Offset())
	}
	if got := m.AlignedStart(); !got.Equal(NewDate(2024, 1, 14)) {
		t.Fatalf("expected aligned start 2024-01-14, got %s", got)
	}
	if got := m.StartOfPage(0); !got.Equal(NewDate(2024, 1, 14)) {
		t.Fatalf("expected page 0 to start 2024-01-14, got %s", got)
	}
	if got := m.StartOfPage(2); !got.Equal(NewDate(2024, 1, 28)) {
		t.Fatalf("expected page 2 to start 2024-01-28, got %s", got)
	}
	// 31 days + offset 1 = 32, truncated to 4 pages.
	if m.Count() != 4 {
		t.Fatalf("expected 4 pages, got %d", m.Count())
	}
}

func TestMapperCountModes(t *testing.T) {
	tests := []struct {
		name string
		min  Date
		max  Date
		ws   time.Weekday
		mode CountMode
		want int
	}{
		{"single day truncate", NewDate(2024, 1, 15), NewDate(2024, 1, 15), time.Monday, CountTruncate, 0},
		{"single day ceil", NewDate(2024, 1, 15), NewDate(2024, 1, 15), time.Monday, CountCeil, 1},
		{"single day with offset truncate", NewDate(2024, 1, 15), NewDate(2024, 1, 15), time.Sunday, CountTruncate, 0},
		{"single day with offset ceil", NewDate(2024, 1, 15), NewDate(2024, 1, 15), time.Sunday, CountCeil, 1},
		{"partial trailing week truncate", NewDate(2024, 1, 15), NewDate(2024, 2, 15), time.Sunday, CountTruncate, 4},
		{"partial trailing week ceil", NewDate(2024, 1, 15), NewDate(2024, 2, 15), time.Sunday, CountCeil, 5},
		{"max on week start truncate", NewDate(2024, 1, 1), NewDate(2024, 1, 29), time.Monday, CountTruncate, 4},
		{"max on week start ceil", NewDate(2024, 1, 1), NewDate(2024, 1, 29), time.Monday, CountCeil, 5},
		{"year", NewDate(2024, 1, 1), NewDate(2024, 12, 31), time.Monday, CountTruncate, 52},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMapper(t, tt.min, tt.max, tt.ws, tt.mode)
			if got := m.Count(); got != tt.want {
				t.Fatalf("expected %d pages, got %d", tt.want, got)
			}
		})
	}
}

func TestMapperRejectsInvalidRange(t *testing.T) {
	m := mustMapper(t, NewDate(2024, 1, 1), NewDate(2024, 3, 1), time.Monday, CountTruncate)
	before := m.Count()
	err := m.SetRange(NewDate(2024, 5, 1), NewDate(2024, 4, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if m.Count() != before || !m.Range().Min.Equal(NewDate(2024, 1, 1)) {
		t.Fatalf("expected mapper to be unchanged after invalid range")
	}
}

func TestPositionOfMinIsZero(t *testing.T) {
	min := NewDate(2023, 6, 1)
	for ws := time.Sunday; ws <= time.Saturday; ws++ {
		m := mustMapper(t, min, NewDate(2023, 9, 30), ws, CountTruncate)
		if got := m.PositionOf(min, false); got != 0 {
			t.Fatalf("week start %s: expected position 0 for min, got %d", ws, got)
		}
	}
}

func TestPositionOfLandsInPageWeek(t *testing.T) {
	min := NewDate(2024, 2, 7)
	max := NewDate(2024, 5, 20)
	for ws := time.Sunday; ws <= time.Saturday; ws++ {
		m := mustMapper(t, min, max, ws, CountCeil)
		for d := min; !d.After(max); d = d.AddDays(1) {
			p := m.PositionOf(d, true)
			start := m.StartOfPage(p)
			if start.Weekday() != ws {
				t.Fatalf("week start %s: page %d starts on %s", ws, p, start.Weekday())
			}
			if d.Before(start) || d.After(start.AddDays(6)) {
				t.Fatalf("week start %s: %s not within page %d starting %s", ws, d, p, start)
			}
		}
	}
}

func TestPositionOfClamp(t *testing.T) {
	m := mustMapper(t, NewDate(2024, 1, 15), NewDate(2024, 2, 15), time.Sunday, CountTruncate)
	if got := m.PositionOf(NewDate(2024, 1, 1), false); got != -1 {
		t.Fatalf("expected raw position -1, got %d", got)
	}
	if got := m.PositionOf(NewDate(2024, 1, 1), true); got != 0 {
		t.Fatalf("expected clamped position 0, got %d", got)
	}
	if got := m.PositionOf(NewDate(2024, 6, 1), false); got <= m.Count()-1 {
		t.Fatalf("expected raw position past the last page, got %d", got)
	}
	if got := m.PositionOf(NewDate(2024, 6, 1), true); got != m.Count()-1 {
		t.Fatalf("expected clamped position %d, got %d", m.Count()-1, got)
	}
	// max falls in the trailing partial week, which truncation drops.
	if got := m.PositionOf(NewDate(2024, 2, 15), true); got != 3 {
		t.Fatalf("expected max to clamp to page 3, got %d", got)
	}
}

func TestPositionOfEmptyMapperClampsToZero(t *testing.T) {
	m := mustMapper(t, NewDate(2024, 1, 15), NewDate(2024, 1, 15), time.Monday, CountTruncate)
	if got := m.PositionOf(NewDate(2024, 3, 1), true); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestCountIndependentOfCallOrder(t *testing.T) {
	min, max := NewDate(2024, 3, 3), NewDate(2024, 7, 19)

	a := NewMapper(time.Monday, CountTruncate)
	if err := a.SetRange(min, max); err != nil {
		t.Fatalf("set range: %v", err)
	}
	a.SetWeekStart(time.Thursday)

	b := NewMapper(time.Saturday, CountTruncate)
	b.SetWeekStart(time.Thursday)
	if err := b.SetRange(NewDate(2020, 1, 1), NewDate(2020, 2, 1)); err != nil {
		t.Fatalf("set range: %v", err)
	}
	if err := b.SetRange(min, max); err != nil {
		t.Fatalf("set range: %v", err)
	}

	if a.Count() != b.Count() || a.Offset() != b.Offset() || !a.AlignedStart().Equal(b.AlignedStart()) {
		t.Fatalf("expected equal mappers, got count %d/%d offset %d/%d", a.Count(), b.Count(), a.Offset(), b.Offset())
	}
}

func TestParseCountMode(t *testing.T) {
	if mode, err := ParseCountMode("CEIL"); err != nil || mode != CountCeil {
		t.Fatalf("expected ceil, got %v %v", mode, err)
	}
	if mode, err := ParseCountMode(""); err != nil || mode != CountTruncate {
		t.Fatalf("expected truncate default, got %v %v", mode, err)
	}
	if _, err := ParseCountMode("round"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
