// Package history summarises the interval journal.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/verte-zerg/pomotui/internal/model"
	"github.com/verte-zerg/pomotui/internal/session"
)

// IntervalLister reads journal entries. *store.Store satisfies it.
type IntervalLister interface {
	ListIntervals(ctx context.Context, cfg model.HistoryConfig) ([]model.IntervalRecord, error)
}

// Report contains per-day summaries, oldest first.
type Report struct {
	Days         []model.DaySummary
	Pomodoros    int
	FocusedTotal time.Duration
}

// BuildReport loads journal entries and groups them by local calendar day.
// When cfg.Days is positive only the most recent that many days are kept.
func BuildReport(ctx context.Context, st IntervalLister, cfg model.HistoryConfig, loc *time.Location) (Report, error) {
	if loc == nil {
		loc = time.Local
	}
	records, err := st.ListIntervals(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	days := summarizeDays(records, loc)
	if cfg.Days > 0 && len(days) > cfg.Days {
		days = days[len(days)-cfg.Days:]
	}
	report := Report{Days: days}
	for _, d := range days {
		report.Pomodoros += d.Pomodoros
		report.FocusedTotal += d.FocusedTotal
	}
	return report, nil
}

func summarizeDays(records []model.IntervalRecord, loc *time.Location) []model.DaySummary {
	byDay := map[time.Time]*model.DaySummary{}
	for _, rec := range records {
		ended := rec.EndedAt.In(loc)
		day := time.Date(ended.Year(), ended.Month(), ended.Day(), 0, 0, 0, 0, loc)
		entry, ok := byDay[day]
		if !ok {
			entry = &model.DaySummary{Day: day}
			byDay[day] = entry
		}
		switch rec.Phase {
		case session.Work.String():
			entry.Pomodoros++
			entry.FocusedTotal += rec.Planned
		case session.Break.String():
			entry.Breaks++
		}
	}
	out := make([]model.DaySummary, 0, len(byDay))
	for _, entry := range byDay {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}
