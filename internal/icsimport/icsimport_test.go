package icsimport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/model"
)

const testCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//tuiweek//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:all-day@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240214\r\n" +
	"SUMMARY:Valentine\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:timed@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240301T233000Z\r\n" +
	"SUMMARY:Late call\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:untitled@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240302T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseEvents(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	events, skipped, err := Parse(strings.NewReader(testCalendar), "test.ics", loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped event, got %d", skipped)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Title != "Valentine" || !events[0].Day.Equal(calendar.NewDate(2024, 2, 14)) {
		t.Fatalf("unexpected all-day event %+v", events[0])
	}
	if events[0].UID != "all-day@test/2024-02-14" || events[0].Source != "test.ics" {
		t.Fatalf("unexpected uid/source %q %q", events[0].UID, events[0].Source)
	}
	// 23:30 UTC is already the next day at UTC+2.
	if !events[1].Day.Equal(calendar.NewDate(2024, 3, 2)) {
		t.Fatalf("expected timed event on 2024-03-02, got %s", events[1].Day)
	}
}

type recordingWriter struct {
	events []model.Event
}

func (w *recordingWriter) UpsertEvents(_ context.Context, events []model.Event) error {
	w.events = append(w.events, events...)
	return nil
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.ics")
	if err := os.WriteFile(path, []byte(testCalendar), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := &recordingWriter{}
	stats, err := ImportFile(context.Background(), w, path, time.UTC)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Imported != 2 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(w.events) != 2 || w.events[1].Source != "holidays.ics" {
		t.Fatalf("unexpected written events %+v", w.events)
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(context.Background(), &recordingWriter{}, filepath.Join(t.TempDir(), "nope.ics"), time.UTC)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

const noUIDCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//tuiweek//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240501\r\n" +
	"SUMMARY:Holiday\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240501\r\n" +
	"SUMMARY:Parade\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestEventsWithoutUIDKeepStableUID(t *testing.T) {
	first, _, err := Parse(strings.NewReader(noUIDCalendar), "holidays.ics", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, _, err := Parse(strings.NewReader(noUIDCalendar), "holidays.ics", time.UTC)
	if err != nil {
		t.Fatalf("parse again: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 events per parse, got %d and %d", len(first), len(second))
	}
	if first[0].UID == "" || first[0].UID != second[0].UID || first[1].UID != second[1].UID {
		t.Fatalf("expected stable UIDs, got %q/%q and %q/%q", first[0].UID, second[0].UID, first[1].UID, second[1].UID)
	}
	if first[0].UID == first[1].UID {
		t.Fatalf("expected distinct UIDs for distinct events")
	}

	other, _, err := Parse(strings.NewReader(noUIDCalendar), "other.ics", time.UTC)
	if err != nil {
		t.Fatalf("parse other: %v", err)
	}
	if other[0].UID == first[0].UID {
		t.Fatalf("expected UID to depend on the source file")
	}
}
