package alert

import (
	"context"
	"fmt"

	"github.com/verte-zerg/pomotui/internal/model"
	"github.com/verte-zerg/pomotui/internal/session"
)

// IntervalWriter persists completed intervals. *store.Store satisfies it.
type IntervalWriter interface {
	InsertInterval(ctx context.Context, rec model.IntervalRecord) (int64, error)
}

// Journal records the interval that just finished.
type Journal struct {
	w IntervalWriter
}

// NewJournal returns a Journal sink writing to w.
func NewJournal(w IntervalWriter) *Journal {
	return &Journal{w: w}
}

// Name implements Sink.
func (j *Journal) Name() string {
	return "journal"
}

// Handle implements Sink.
func (j *Journal) Handle(ctx context.Context, t session.Transition) error {
	started := t.StartedAt
	if started.IsZero() {
		started = t.At.Add(-t.Planned)
	}
	rec := model.IntervalRecord{
		Phase:     t.From.String(),
		Planned:   t.Planned,
		StartedAt: started,
		EndedAt:   t.At,
	}
	if _, err := j.w.InsertInterval(ctx, rec); err != nil {
		return fmt.Errorf("failed to record interval: %w", err)
	}
	return nil
}
