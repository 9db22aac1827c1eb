package weekview

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/pager"
)

func newTestView(start calendar.Date, onClick pager.DayClickFunc) *View {
	return New(pager.PageParams{
		StartOfWeek: start,
		Min:         calendar.NewDate(2024, 1, 15),
		Max:         calendar.NewDate(2024, 3, 15),
		WeekStart:   start.Weekday(),
		MonthEvents: calendar.MonthEvents{calendar.NewMonthKey(2024, time.January): {17}},
		OnDayClick:  onClick,
	})
}

func TestMonthYearLabel(t *testing.T) {
	tests := []struct {
		start calendar.Date
		want  string
	}{
		{calendar.NewDate(2024, 1, 14), "January 2024"},
		{calendar.NewDate(2024, 1, 28), "Jan - Feb 2024"},
		{calendar.NewDate(2024, 12, 29), "Dec 2024 - Jan 2025"},
	}
	for _, tt := range tests {
		v := newTestView(tt.start, nil)
		if got := v.MonthYearLabel(); got != tt.want {
			t.Fatalf("start %s: expected %q, got %q", tt.start, tt.want, got)
		}
	}
}

func TestClickSkipsDisabledDays(t *testing.T) {
	var clicked []calendar.Date
	v := newTestView(calendar.NewDate(2024, 1, 14), func(_ pager.Page, day calendar.Date) {
		clicked = append(clicked, day)
	})
	if v.Click(0) {
		t.Fatalf("expected 2024-01-14 before min to be ignored")
	}
	if !v.Click(3) {
		t.Fatalf("expected click on 2024-01-17 to be accepted")
	}
	if v.Click(7) {
		t.Fatalf("expected click outside the week to be ignored")
	}
	if len(clicked) != 1 || !clicked[0].Equal(calendar.NewDate(2024, 1, 17)) {
		t.Fatalf("unexpected clicks %v", clicked)
	}
}

func TestSetFirstDayOfWeekSnapsStart(t *testing.T) {
	v := newTestView(calendar.NewDate(2024, 1, 21), nil) // Sunday
	v.SetFirstDayOfWeek(time.Monday)
	if got := v.StartDayOfWeek(); !got.Equal(calendar.NewDate(2024, 1, 15)) {
		t.Fatalf("expected start 2024-01-15, got %s", got)
	}
	if got := v.Days()[0].Weekday(); got != time.Monday {
		t.Fatalf("expected first column Monday, got %s", got)
	}
}

func TestRenderShowsWeekdaysAndMarker(t *testing.T) {
	v := newTestView(calendar.NewDate(2024, 1, 14), nil)
	v.SetSelectedDay(calendar.NewDate(2024, 1, 16))
	out := v.Render(35)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, name := range []string{"Su", "Mo", "Sa"} {
		if !strings.Contains(lines[0], name) {
			t.Fatalf("expected weekday %s in header %q", name, lines[0])
		}
	}
	if !strings.Contains(lines[1], selectedStyle.Render(center("16", 5))) {
		t.Fatalf("expected selected style for 16")
	}
	if !strings.Contains(lines[2], eventMarker) {
		t.Fatalf("expected event marker for 2024-01-17")
	}
}

func TestCenter(t *testing.T) {
	if got := center("7", 4); got != " 7  " {
		t.Fatalf("unexpected padding %q", got)
	}
	if got := center("Wednesday", 4); got != "Wedn" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
