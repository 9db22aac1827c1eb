// Package listing prints the pages of a week pager as a plain-text table.
package listing

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/pager"
)

var selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// Options controls table output.
type Options struct {
	Color bool
}

// WriteWeeks writes one row per page: position, first and last day, title,
// and the event days of that week. The page holding the selected day is
// marked with "*". Each page is materialized only while its row is built.
func WriteWeeks(w io.Writer, adapter *pager.Adapter, opts Options) error {
	tbl := newTable(
		column{},
		column{title: "Page", numeric: true},
		column{title: "Start"},
		column{title: "End"},
		column{title: "Title"},
		column{title: "Events"},
	)
	selectedPosition := adapter.PositionForDay(adapter.SelectedDay())
	rng := adapter.Range()

	for position := 0; position < adapter.Count(); position++ {
		adapter.Materialize(position)
		start, _ := adapter.StartDayOfWeek(position)
		title := adapter.PageTitle(position)
		adapter.Release(position)

		marker := ""
		if position == selectedPosition {
			marker = "*"
		}
		tbl.addRow(
			marker,
			strconv.Itoa(position),
			start.String(),
			start.AddDays(6).String(),
			title,
			eventDays(adapter.MonthEvents(), rng, start),
		)
	}

	for i, line := range tbl.lines() {
		if opts.Color && i > 0 && tbl.rows[i-1][0] != "" {
			line = selectedRowStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func eventDays(events calendar.MonthEvents, rng calendar.DateRange, start calendar.Date) string {
	var parts []string
	for i := 0; i < 7; i++ {
		day := start.AddDays(i)
		if rng.Contains(day) && events.Has(day) {
			parts = append(parts, fmt.Sprintf("%s %d", day.Weekday().String()[:3], day.Day()))
		}
	}
	return strings.Join(parts, ", ")
}

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
