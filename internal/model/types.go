// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/tuiweek/internal/calendar"
)

// Config defines calendar settings after flags and config file are merged.
type Config struct {
	Min       calendar.Date
	Max       calendar.Date
	WeekStart time.Weekday
	CountMode calendar.CountMode
	Prefetch  int
}

// Event is a titled entry on a single day.
type Event struct {
	UID    string
	Day    calendar.Date
	Title  string
	Source string
}

// ImportStats summarizes an iCalendar import.
type ImportStats struct {
	Imported int
	Skipped  int
}
