// Package tui provides the Bubble Tea week pager.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/model"
	"github.com/verte-zerg/tuiweek/internal/pager"
	"github.com/verte-zerg/tuiweek/internal/weekview"
)

const defaultWidth = 70

type inputMode int

const (
	inputNone inputMode = iota
	inputGoTo
	inputAdd
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	weekStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// EventStore is the event persistence the pager reads and writes.
type EventStore interface {
	InsertEvent(ctx context.Context, ev model.Event) (model.Event, error)
	ListEventsOnDay(ctx context.Context, day calendar.Date) ([]model.Event, error)
	MonthEvents(ctx context.Context, rng calendar.DateRange) (calendar.MonthEvents, error)
}

// Model implements the Bubble Tea week pager. It is the paging host of a
// pager.Adapter: it keeps the current page and prefetch pages on either side
// materialized and releases pages that leave that window.
type Model struct {
	adapter  *pager.Adapter
	store    EventStore
	prefetch int

	current int
	events  []model.Event
	errMsg  string
	status  string

	mode  inputMode
	input textinput.Model
	list  viewport.Model
	help  help.Model

	width  int
	height int
}

// NewModel constructs the pager UI. The selection starts at today when one of
// the pages shows today.
func NewModel(cfg model.Config, store EventStore) (*Model, error) {
	mapper := calendar.NewMapper(cfg.WeekStart, cfg.CountMode)
	adapter := pager.NewAdapter(mapper, weekview.Factory)
	if err := adapter.SetRange(cfg.Min, cfg.Max); err != nil {
		return nil, err
	}
	return newModel(adapter, store, cfg.Prefetch, calendar.Today()), nil
}

func newModel(adapter *pager.Adapter, store EventStore, prefetch int, today calendar.Date) *Model {
	if prefetch < 0 {
		prefetch = 0
	}
	input := textinput.New()
	input.CharLimit = 120
	m := &Model{
		adapter:  adapter,
		store:    store,
		prefetch: prefetch,
		input:    input,
		list:     viewport.New(defaultWidth, 5),
		help:     help.New(),
	}
	adapter.SetOnDataSetChanged(m.handleDataSetChanged)
	adapter.SetOnDaySelected(m.handleDaySelected)

	if adapter.Displays(today) {
		adapter.SetSelectedDay(today)
	}
	m.reloadMonthEvents()
	m.current = adapter.PositionFromDay(m.anchorDay())
	m.syncWindow()
	m.loadEvents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	m.status = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Prev):
		m.movePage(-1)
	case key.Matches(msg, keys.Next):
		m.movePage(1)
	case key.Matches(msg, keys.Today):
		m.selectDay(calendar.Today())
	case key.Matches(msg, keys.Day):
		m.clickColumn(int(msg.Runes[0] - '1'))
	case key.Matches(msg, keys.WeekStart):
		m.cycleWeekStart()
	case key.Matches(msg, keys.PageCount):
		m.toggleCountMode()
	case key.Matches(msg, keys.GoTo):
		return m.startInput(inputGoTo, "Go to (YYYY-MM-DD): ")
	case key.Matches(msg, keys.Add):
		if m.adapter.SelectedDay().IsZero() {
			m.errMsg = "select a day first"
			return m, nil
		}
		return m.startInput(inputAdd, fmt.Sprintf("New event on %s: ", m.adapter.SelectedDay()))
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startInput(mode inputMode, prompt string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.endInput()
		m.submitInput(mode, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = inputNone
	m.input.Blur()
}

func (m *Model) submitInput(mode inputMode, value string) {
	switch mode {
	case inputGoTo:
		day, err := calendar.ParseDate(value)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.selectDay(day)
	case inputAdd:
		m.addEvent(value)
	}
}

func (m *Model) movePage(delta int) {
	next := m.current + delta
	if next < 0 || next >= m.adapter.Count() {
		return
	}
	m.current = next
	m.syncWindow()
}

// selectDay selects day and pages to it; days no page shows are ignored.
func (m *Model) selectDay(day calendar.Date) {
	if !m.adapter.Displays(day) {
		m.errMsg = fmt.Sprintf("%s is outside the displayed weeks", day)
		return
	}
	m.adapter.SetSelectedDay(day)
	m.current = m.adapter.PositionFromDay(day)
	m.syncWindow()
	m.loadEvents()
}

func (m *Model) clickColumn(col int) {
	page, ok := m.adapter.Page(m.current)
	if !ok {
		return
	}
	view, ok := page.(*weekview.View)
	if !ok {
		return
	}
	if !view.Click(col) {
		m.errMsg = "day is outside the calendar range"
	}
}

func (m *Model) cycleWeekStart() {
	anchor := m.anchorDay()
	next := calendar.NextWeekday(m.adapter.WeekStart())
	m.adapter.SetWeekStart(next)
	// Positions shift with the week start, so rebuild the window around the
	// same day.
	for _, position := range m.adapter.Materialized() {
		m.adapter.Release(position)
	}
	m.current = m.adapter.PositionFromDay(anchor)
	m.syncWindow()
	m.status = "week starts on " + next.String()
	log.Printf("week start changed to %s, current page %d", next, m.current)
}

func (m *Model) toggleCountMode() {
	anchor := m.anchorDay()
	mode := calendar.CountCeil
	if m.adapter.CountMode() == calendar.CountCeil {
		mode = calendar.CountTruncate
	}
	m.adapter.SetCountMode(mode)
	if selected := m.adapter.SelectedDay(); !selected.IsZero() && !m.adapter.Displays(selected) {
		m.adapter.SetSelectedDay(calendar.Date{})
		m.loadEvents()
	}
	m.current = m.adapter.PositionFromDay(anchor)
	m.syncWindow()
	m.status = "page count: " + mode.String()
	log.Printf("page count changed to %s, %d pages", mode, m.adapter.Count())
}

// anchorDay is the day the current page should keep showing: the selection,
// else the first in-range day of the current page, else the range minimum.
func (m *Model) anchorDay() calendar.Date {
	if selected := m.adapter.SelectedDay(); !selected.IsZero() {
		return selected
	}
	if start, ok := m.adapter.StartDayOfWeek(m.current); ok {
		rng := m.adapter.Range()
		if start.Before(rng.Min) {
			return rng.Min
		}
		return start
	}
	return m.adapter.Range().Min
}

// syncWindow materializes [current-prefetch, current+prefetch] and releases
// everything else.
func (m *Model) syncWindow() {
	count := m.adapter.Count()
	if count == 0 {
		for _, position := range m.adapter.Materialized() {
			m.adapter.Release(position)
		}
		return
	}
	if m.current >= count {
		m.current = count - 1
	}
	if m.current < 0 {
		m.current = 0
	}
	low, high := m.current-m.prefetch, m.current+m.prefetch
	for _, position := range m.adapter.Materialized() {
		if position < low || position > high {
			m.adapter.Release(position)
		}
	}
	for position := max(low, 0); position <= min(high, count-1); position++ {
		if _, ok := m.adapter.Page(position); !ok {
			m.adapter.Materialize(position)
		}
	}
}

func (m *Model) handleDataSetChanged() {
	log.Printf("data set changed, rebuilding pages around %d", m.current)
	m.syncWindow()
}

func (m *Model) handleDaySelected(_ *pager.Adapter, day calendar.Date) {
	log.Printf("day selected: %s", day)
	m.loadEvents()
}

func (m *Model) reloadMonthEvents() {
	if m.store == nil {
		return
	}
	index, err := m.store.MonthEvents(context.Background(), m.adapter.Range())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load events: %v", err)
		return
	}
	m.adapter.ReplaceMonthEvents(index)
}

func (m *Model) loadEvents() {
	m.events = nil
	day := m.adapter.SelectedDay()
	if m.store != nil && !day.IsZero() {
		events, err := m.store.ListEventsOnDay(context.Background(), day)
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to load events: %v", err)
		} else {
			m.events = events
		}
	}
	m.list.SetContent(m.renderEvents())
	m.list.GotoTop()
}

func (m *Model) addEvent(title string) {
	if m.store == nil {
		return
	}
	day := m.adapter.SelectedDay()
	if _, err := m.store.InsertEvent(context.Background(), model.Event{Day: day, Title: title, Source: "tuiweek"}); err != nil {
		m.errMsg = fmt.Sprintf("failed to add event: %v", err)
		return
	}
	m.reloadMonthEvents()
	m.loadEvents()
	m.status = "event added"
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.list.Width = m.width
	// title, week box (3 rows + border), day line, input/status, help
	listHeight := m.height - 10
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.Height = listHeight
	m.list.SetContent(m.renderEvents())
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	if m.adapter.Count() == 0 {
		rng := m.adapter.Range()
		return headerStyle.Render(fmt.Sprintf("No weeks between %s and %s.", rng.Min, rng.Max)) + "\n" + m.help.View(keys)
	}
	sections := []string{
		m.renderTitle(),
		m.renderWeek(width),
		m.renderDayLine(),
		m.list.View(),
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderTitle() string {
	title := m.adapter.PageTitle(m.current)
	position := fmt.Sprintf("week %d/%d", m.current+1, m.adapter.Count())
	return titleStyle.Render(title) + "  " + headerStyle.Render(position)
}

func (m *Model) renderWeek(width int) string {
	page, ok := m.adapter.Page(m.current)
	if !ok {
		return ""
	}
	view, ok := page.(*weekview.View)
	if !ok {
		return ""
	}
	inner := width - weekStyle.GetHorizontalFrameSize()
	return weekStyle.Render(view.Render(inner))
}

func (m *Model) renderDayLine() string {
	day := m.adapter.SelectedDay()
	if day.IsZero() {
		return headerStyle.Render("No day selected.")
	}
	return headerStyle.Render(fmt.Sprintf("%s, %s", day.Weekday(), day))
}

func (m *Model) renderEvents() string {
	if m.adapter.SelectedDay().IsZero() {
		return ""
	}
	if len(m.events) == 0 {
		return eventStyle.Render("  no events")
	}
	lines := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		lines = append(lines, eventStyle.Render("  • "+ev.Title))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var lines []string
	switch {
	case m.mode != inputNone:
		lines = append(lines, m.input.View())
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	case m.status != "":
		lines = append(lines, headerStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(keys))
	return strings.Join(lines, "\n")
}
