package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuiweek.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListEvents(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	day := calendar.NewDate(2024, 2, 14)

	ev, err := st.InsertEvent(ctx, model.Event{Day: day, Title: "  Dinner "})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ev.UID == "" {
		t.Fatalf("expected generated uid")
	}
	if _, err := st.InsertEvent(ctx, model.Event{Day: day, Title: "Cinema"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	events, err := st.ListEventsOnDay(ctx, day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Title != "Cinema" || events[1].Title != "Dinner" {
		t.Fatalf("unexpected order: %+v", events)
	}
	if !events[1].Day.Equal(day) {
		t.Fatalf("expected day %s, got %s", day, events[1].Day)
	}
}

func TestInsertEventValidation(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.InsertEvent(ctx, model.Event{Day: calendar.NewDate(2024, 1, 1), Title: " "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := st.InsertEvent(ctx, model.Event{Title: "x"}); !errors.Is(err, ErrMissingDay) {
		t.Fatalf("expected ErrMissingDay, got %v", err)
	}
}

func TestUpsertEventsReplacesByUID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	first := calendar.NewDate(2024, 3, 1)
	moved := calendar.NewDate(2024, 3, 2)

	if err := st.UpsertEvents(ctx, []model.Event{{UID: "a@x", Day: first, Title: "Standup", Source: "work.ics"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertEvents(ctx, []model.Event{{UID: "a@x", Day: moved, Title: "Standup", Source: "work.ics"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	events, err := st.ListEventsOnDay(ctx, first)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected event to move away from %s", first)
	}
	events, err = st.ListEventsOnDay(ctx, moved)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].Source != "work.ics" {
		t.Fatalf("unexpected events: %+v", events)
	}

	deleted, err := st.DeleteEvent(ctx, "a@x")
	if err != nil || !deleted {
		t.Fatalf("expected delete, got %v %v", deleted, err)
	}
	deleted, err = st.DeleteEvent(ctx, "a@x")
	if err != nil || deleted {
		t.Fatalf("expected second delete to be a no-op, got %v %v", deleted, err)
	}
}

func TestMonthEventsWithinRange(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	days := []calendar.Date{
		calendar.NewDate(2024, 1, 31),
		calendar.NewDate(2024, 2, 3),
		calendar.NewDate(2024, 2, 3),
		calendar.NewDate(2024, 2, 20),
		calendar.NewDate(2024, 5, 1),
	}
	for _, day := range days {
		if _, err := st.InsertEvent(ctx, model.Event{Day: day, Title: "e"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rng, err := calendar.NewDateRange(calendar.NewDate(2024, 1, 15), calendar.NewDate(2024, 3, 15))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	index, err := st.MonthEvents(ctx, rng)
	if err != nil {
		t.Fatalf("month events: %v", err)
	}
	if got := index[calendar.NewMonthKey(2024, time.January)]; !slices.Equal(got, []int{31}) {
		t.Fatalf("unexpected january days %v", got)
	}
	if got := index[calendar.NewMonthKey(2024, time.February)]; !slices.Equal(got, []int{3, 20}) {
		t.Fatalf("unexpected february days %v", got)
	}
	if _, ok := index[calendar.NewMonthKey(2024, time.May)]; ok {
		t.Fatalf("expected may to be outside the range")
	}
}
