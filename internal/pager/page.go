package pager

import (
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
)

// Page is a live rendering handle for one calendar week.
type Page interface {
	// SetFirstDayOfWeek changes which weekday is drawn in the first column.
	SetFirstDayOfWeek(day time.Weekday)
	// SetSelectedDay highlights day; the zero date clears the highlight.
	SetSelectedDay(day calendar.Date)
	MonthYearLabel() string
	StartDayOfWeek() calendar.Date
}

// DayClickFunc is called by a page when one of its days is clicked.
type DayClickFunc func(page Page, day calendar.Date)

// PageParams carries everything a page needs to draw its week.
type PageParams struct {
	StartOfWeek calendar.Date
	SelectedDay calendar.Date
	Min         calendar.Date
	Max         calendar.Date
	WeekStart   time.Weekday
	MonthEvents calendar.MonthEvents
	OnDayClick  DayClickFunc
}

// PageFactory builds a page bound to params.
type PageFactory func(params PageParams) Page
