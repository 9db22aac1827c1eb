// Package icsimport reads iCalendar files into calendar events.
package icsimport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/model"
)

const allDayLayout = "20060102"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/verte-zerg/tuiweek/ics"))

// EventWriter persists imported events.
type EventWriter interface {
	UpsertEvents(ctx context.Context, events []model.Event) error
}

// Parse reads VEVENTs from r. Timed events are placed on their start date in
// loc; events without a summary or a readable start are skipped.
func Parse(r io.Reader, source string, loc *time.Location) ([]model.Event, int, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse calendar: %w", err)
	}
	var events []model.Event
	skipped := 0
	for _, vevent := range cal.Events() {
		ev, ok := convert(vevent, source, loc)
		if !ok {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

func convert(vevent *ics.VEvent, source string, loc *time.Location) (model.Event, bool) {
	summary := vevent.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.Event{}, false
	}
	day, ok := startDay(vevent, loc)
	if !ok {
		return model.Event{}, false
	}
	title := strings.TrimSpace(summary.Value)
	return model.Event{
		UID:    eventUID(vevent.Id(), source, day, title),
		Day:    day,
		Title:  title,
		Source: source,
	}, true
}

// eventUID keeps UIDs stable across imports of the same file. A recurring
// event's overrides share the UID, so the day is appended. Events without a
// UID get a name-based UUID of source, day and title.
func eventUID(uid, source string, day calendar.Date, title string) string {
	if uid != "" {
		return uid + "/" + day.String()
	}
	name := strings.Join([]string{source, day.String(), title}, "\x00")
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

func startDay(vevent *ics.VEvent, loc *time.Location) (calendar.Date, bool) {
	prop := vevent.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil {
		return calendar.Date{}, false
	}
	if value := strings.TrimSpace(prop.Value); len(value) == len(allDayLayout) {
		parsed, err := time.Parse(allDayLayout, value)
		if err != nil {
			return calendar.Date{}, false
		}
		return calendar.DateOf(parsed), true
	}
	start, err := vevent.GetStartAt()
	if err != nil {
		return calendar.Date{}, false
	}
	return calendar.DateOf(start.In(loc)), true
}

// ImportFile parses the iCalendar file at path and writes its events to w.
func ImportFile(ctx context.Context, w EventWriter, path string, loc *time.Location) (model.ImportStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.ImportStats{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only calendar file.
			_ = cerr
		}
	}()

	events, skipped, err := Parse(file, filepath.Base(path), loc)
	if err != nil {
		return model.ImportStats{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := w.UpsertEvents(ctx, events); err != nil {
		return model.ImportStats{}, fmt.Errorf("failed to store events: %w", err)
	}
	return model.ImportStats{Imported: len(events), Skipped: skipped}, nil
}
