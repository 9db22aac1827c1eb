// Package pager keeps the materialized week pages of a paging host and the
// selected day in sync.
package pager

import (
	"slices"
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
)

// DaySelectedFunc is notified after a clicked day became the selection.
type DaySelectedFunc func(adapter *Adapter, day calendar.Date)

// Adapter maps page positions to week pages for a paging host. It is not safe
// for concurrent use; the host serializes all calls.
type Adapter struct {
	mapper  *calendar.Mapper
	factory PageFactory

	pages       map[int]Page
	selectedDay calendar.Date
	monthEvents calendar.MonthEvents

	onDaySelected DaySelectedFunc
	onChanged     func()
}

// NewAdapter returns an adapter that positions pages with mapper and builds
// them with factory.
func NewAdapter(mapper *calendar.Mapper, factory PageFactory) *Adapter {
	return &Adapter{
		mapper:      mapper,
		factory:     factory,
		pages:       map[int]Page{},
		monthEvents: calendar.MonthEvents{},
	}
}

// SetOnDaySelected registers the listener for clicked days.
func (a *Adapter) SetOnDaySelected(listener DaySelectedFunc) {
	a.onDaySelected = listener
}

// SetOnDataSetChanged registers the observer fired when all positions become
// invalid and the host must materialize its pages again.
func (a *Adapter) SetOnDataSetChanged(observer func()) {
	a.onChanged = observer
}

// Count returns the number of pages.
func (a *Adapter) Count() int {
	return a.mapper.Count()
}

// Range returns the configured date range.
func (a *Adapter) Range() calendar.DateRange {
	return a.mapper.Range()
}

// WeekStart returns the first day of the week.
func (a *Adapter) WeekStart() time.Weekday {
	return a.mapper.WeekStart()
}

// SetRange replaces the date range. Every cached page is dropped since its
// position no longer means anything; the selection is kept.
func (a *Adapter) SetRange(min, max calendar.Date) error {
	if err := a.mapper.SetRange(min, max); err != nil {
		return err
	}
	a.invalidate()
	return nil
}

// SetWeekStart changes the first day of the week and pushes it to every
// materialized page. Pages are neither released nor rebuilt.
func (a *Adapter) SetWeekStart(day time.Weekday) {
	a.mapper.SetWeekStart(day)
	for _, page := range a.pages {
		page.SetFirstDayOfWeek(day)
	}
}

// CountMode returns how a trailing partial week is counted.
func (a *Adapter) CountMode() calendar.CountMode {
	return a.mapper.CountMode()
}

// SetCountMode changes how a trailing partial week is counted. The page count
// may shrink, so every cached page is dropped.
func (a *Adapter) SetCountMode(mode calendar.CountMode) {
	a.mapper.SetCountMode(mode)
	a.invalidate()
}

// SetMonthEvents stores the event days of month and invalidates all pages.
func (a *Adapter) SetMonthEvents(month calendar.MonthKey, days []int) {
	a.monthEvents[month] = slices.Clone(days)
	a.invalidate()
}

// ReplaceMonthEvents swaps the whole event index and invalidates all pages.
func (a *Adapter) ReplaceMonthEvents(events calendar.MonthEvents) {
	a.monthEvents = calendar.MonthEvents{}
	for month, days := range events {
		a.monthEvents[month] = slices.Clone(days)
	}
	a.invalidate()
}

// MonthEvents returns the event index handed to new pages.
func (a *Adapter) MonthEvents() calendar.MonthEvents {
	return a.monthEvents
}

func (a *Adapter) invalidate() {
	clear(a.pages)
	if a.onChanged != nil {
		a.onChanged()
	}
}

// Materialize builds the page for position and caches it. Calling it twice
// for a position that was not released builds two independent pages.
func (a *Adapter) Materialize(position int) Page {
	rng := a.mapper.Range()
	page := a.factory(PageParams{
		StartOfWeek: a.mapper.StartOfPage(position),
		SelectedDay: a.selectedDay,
		Min:         rng.Min,
		Max:         rng.Max,
		WeekStart:   a.mapper.WeekStart(),
		MonthEvents: a.monthEvents,
		OnDayClick:  a.handleDayClick,
	})
	a.pages[position] = page
	return page
}

// Release forgets the page at position. Releasing an absent position is a no-op.
func (a *Adapter) Release(position int) {
	delete(a.pages, position)
}

// Page returns the materialized page at position.
func (a *Adapter) Page(position int) (Page, bool) {
	page, ok := a.pages[position]
	return page, ok
}

// Materialized returns the materialized positions in ascending order.
func (a *Adapter) Materialized() []int {
	positions := make([]int, 0, len(a.pages))
	for position := range a.pages {
		positions = append(positions, position)
	}
	slices.Sort(positions)
	return positions
}

// SelectedDay returns the selected day, or the zero date when none is selected.
func (a *Adapter) SelectedDay() calendar.Date {
	return a.selectedDay
}

// SetSelectedDay moves the selection to day; the zero date clears it. Only
// the materialized pages holding the old and new day are touched.
func (a *Adapter) SetSelectedDay(day calendar.Date) {
	oldPosition := a.PositionForDay(a.selectedDay)
	newPosition := a.PositionForDay(day)

	if oldPosition != newPosition && oldPosition >= 0 {
		if page, ok := a.pages[oldPosition]; ok {
			page.SetSelectedDay(calendar.Date{})
		}
	}
	if newPosition >= 0 {
		if page, ok := a.pages[newPosition]; ok {
			page.SetSelectedDay(day)
		}
	}
	a.selectedDay = day
}

// PageTitle returns the month/year label of the materialized page at
// position, or "" when the position is not materialized.
func (a *Adapter) PageTitle(position int) string {
	if page, ok := a.pages[position]; ok {
		return page.MonthYearLabel()
	}
	return ""
}

// StartDayOfWeek returns the first day shown by the materialized page at position.
func (a *Adapter) StartDayOfWeek(position int) (calendar.Date, bool) {
	if page, ok := a.pages[position]; ok {
		return page.StartDayOfWeek(), true
	}
	return calendar.Date{}, false
}

// PositionFromDay returns the page showing day, clamped to a valid position.
func (a *Adapter) PositionFromDay(day calendar.Date) int {
	return a.mapper.PositionOf(day, true)
}

// PositionForDay returns the raw page position of day, or -1 for the zero date.
// The result may be out of range.
func (a *Adapter) PositionForDay(day calendar.Date) int {
	if day.IsZero() {
		return -1
	}
	return a.mapper.PositionOf(day, false)
}

// Displays reports whether day lies within the range and on one of the
// Count() pages. Under CountTruncate the days of a dropped trailing week are
// in range but not displayed.
func (a *Adapter) Displays(day calendar.Date) bool {
	if day.IsZero() || !a.mapper.Range().Contains(day) {
		return false
	}
	position := a.PositionForDay(day)
	return position >= 0 && position < a.Count()
}

func (a *Adapter) handleDayClick(_ Page, day calendar.Date) {
	if day.IsZero() {
		return
	}
	a.SetSelectedDay(day)
	if a.onDaySelected != nil {
		a.onDaySelected(a, day)
	}
}
