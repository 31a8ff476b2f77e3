package alert

import (
	"context"

	"github.com/gen2brain/beeep"

	"github.com/verte-zerg/pomotui/internal/session"
)

// NotifyFunc shows a desktop notification. beeep.Notify satisfies it.
type NotifyFunc func(title, message string, icon any) error

// Desktop shows an OS notification banner on every phase switch.
type Desktop struct {
	notify NotifyFunc
	icon   any
}

// NewDesktop returns a Desktop sink using beeep.
func NewDesktop() *Desktop {
	return &Desktop{notify: beeep.Notify, icon: ""}
}

// Name implements Sink.
func (d *Desktop) Name() string {
	return "desktop"
}

// Handle implements Sink.
func (d *Desktop) Handle(ctx context.Context, t session.Transition) error {
	return runWithContext(ctx, func() error {
		return d.notify(t.Title, t.Message, d.icon)
	})
}

// runWithContext runs fn on its own goroutine and stops waiting when ctx ends.
// fn keeps running in the background in that case.
func runWithContext(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
