// Package model defines shared data structures.
package model

import "time"

// Config defines runtime settings resolved from flags and the config file.
type Config struct {
	Work      time.Duration
	Break     time.Duration
	Tick      time.Duration
	Autostart bool
	HideImage bool
	SoundFile string
	NoSound   bool
	NoNotify  bool
	NoHistory bool
}

// HistoryConfig defines filters for journal queries.
type HistoryConfig struct {
	Phase string
	Since *time.Time
	Days  int
}

// IntervalRecord is one completed interval in the journal.
type IntervalRecord struct {
	ID        int64
	Phase     string
	Planned   time.Duration
	StartedAt time.Time
	EndedAt   time.Time
}

// DaySummary aggregates completed intervals for one calendar day.
type DaySummary struct {
	Day          time.Time
	Pomodoros    int
	Breaks       int
	FocusedTotal time.Duration
}
