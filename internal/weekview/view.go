// Package weekview renders one calendar week as a row of terminal cells.
package weekview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/pager"
)

const (
	daysInWeek   = 7
	minCellWidth = 4
	eventMarker  = "•"
)

var (
	weekdayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	dayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	todayStyle    = dayStyle.Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A")).Bold(true)
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// View is a pager.Page drawing seven day cells starting at its week start.
type View struct {
	start     calendar.Date
	selected  calendar.Date
	min       calendar.Date
	max       calendar.Date
	weekStart time.Weekday
	events    calendar.MonthEvents
	today     calendar.Date
	onClick   pager.DayClickFunc
}

var _ pager.Page = (*View)(nil)

// New builds a view bound to params.
func New(params pager.PageParams) *View {
	return &View{
		start:     params.StartOfWeek,
		selected:  params.SelectedDay,
		min:       params.Min,
		max:       params.Max,
		weekStart: params.WeekStart,
		events:    params.MonthEvents,
		today:     calendar.Today(),
		onClick:   params.OnDayClick,
	}
}

// Factory is a pager.PageFactory producing views.
func Factory(params pager.PageParams) pager.Page {
	return New(params)
}

// SetFirstDayOfWeek moves the first column to day. The view keeps showing the
// week that contains its previous start date.
func (v *View) SetFirstDayOfWeek(day time.Weekday) {
	v.weekStart = day
	v.start = calendar.WeekStartOnOrBefore(v.start, day)
}

// SetSelectedDay implements pager.Page.
func (v *View) SetSelectedDay(day calendar.Date) {
	v.selected = day
}

// SelectedDay returns the highlighted day.
func (v *View) SelectedDay() calendar.Date {
	return v.selected
}

// StartDayOfWeek implements pager.Page.
func (v *View) StartDayOfWeek() calendar.Date {
	return v.start
}

// Days returns the seven displayed dates.
func (v *View) Days() []calendar.Date {
	days := make([]calendar.Date, daysInWeek)
	for i := range days {
		days[i] = v.start.AddDays(i)
	}
	return days
}

// Enabled reports whether day lies within the selectable range.
func (v *View) Enabled(day calendar.Date) bool {
	return !day.Before(v.min) && !day.After(v.max)
}

// Click reports a click on column col (0-6). Clicks outside the range or the
// week are ignored.
func (v *View) Click(col int) bool {
	if col < 0 || col >= daysInWeek {
		return false
	}
	day := v.start.AddDays(col)
	if !v.Enabled(day) {
		return false
	}
	if v.onClick != nil {
		v.onClick(v, day)
	}
	return true
}

// MonthYearLabel implements pager.Page.
func (v *View) MonthYearLabel() string {
	first := v.start
	last := v.start.AddDays(daysInWeek - 1)
	switch {
	case first.Month() == last.Month() && first.Year() == last.Year():
		return fmt.Sprintf("%s %d", first.Month(), first.Year())
	case first.Year() == last.Year():
		return fmt.Sprintf("%s - %s %d", shortMonth(first.Month()), shortMonth(last.Month()), first.Year())
	default:
		return fmt.Sprintf("%s %d - %s %d", shortMonth(first.Month()), first.Year(), shortMonth(last.Month()), last.Year())
	}
}

// Render draws the week into width terminal columns.
func (v *View) Render(width int) string {
	cellWidth := width / daysInWeek
	if cellWidth < minCellWidth {
		cellWidth = minCellWidth
	}
	headers := make([]string, 0, daysInWeek)
	numbers := make([]string, 0, daysInWeek)
	markers := make([]string, 0, daysInWeek)
	for _, day := range v.Days() {
		headers = append(headers, weekdayStyle.Render(center(shortWeekday(day.Weekday()), cellWidth)))
		numbers = append(numbers, v.dayStyle(day).Render(center(fmt.Sprintf("%d", day.Day()), cellWidth)))
		marker := ""
		if v.events.Has(day) {
			marker = eventMarker
		}
		markers = append(markers, markerStyle.Render(center(marker, cellWidth)))
	}
	return strings.Join([]string{
		strings.Join(headers, ""),
		strings.Join(numbers, ""),
		strings.Join(markers, ""),
	}, "\n")
}

func (v *View) dayStyle(day calendar.Date) lipgloss.Style {
	switch {
	case !v.Enabled(day):
		return disabledStyle
	case day.Equal(v.selected):
		return selectedStyle
	case day.Equal(v.today):
		return todayStyle
	default:
		return dayStyle
	}
}

func center(value string, width int) string {
	w := runewidth.StringWidth(value)
	if w >= width {
		return runewidth.Truncate(value, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + value + strings.Repeat(" ", width-w-left)
}

func shortWeekday(day time.Weekday) string {
	return day.String()[:2]
}

func shortMonth(month time.Month) string {
	return month.String()[:3]
}
