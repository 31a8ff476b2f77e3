// Package alert fans phase switches out to best-effort side effects.
package alert

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/pomotui/internal/session"
)

const defaultSinkTimeout = 10 * time.Second

// Sink performs one side effect for a phase switch.
type Sink interface {
	Name() string
	Handle(ctx context.Context, t session.Transition) error
}

// Hub implements session.Notifier. Each sink runs on its own goroutine so the
// caller never blocks; errors are logged and dropped.
type Hub struct {
	sinks   []Sink
	logger  *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the logger used for sink failures.
func WithLogger(l *log.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSinkTimeout bounds how long a single sink may run.
func WithSinkTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHub returns a Hub delivering to sinks. Nil sinks are skipped.
func NewHub(sinks []Sink, opts ...HubOption) *Hub {
	h := &Hub{
		logger:  log.New(io.Discard),
		timeout: defaultSinkTimeout,
	}
	for _, s := range sinks {
		if s != nil {
			h.sinks = append(h.sinks, s)
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PhaseChanged implements session.Notifier.
func (h *Hub) PhaseChanged(t session.Transition) {
	h.logger.Info("phase switched", "from", t.From, "to", t.To)
	for _, s := range h.sinks {
		h.wg.Add(1)
		go func(s Sink) {
			defer h.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
			defer cancel()
			if err := s.Handle(ctx, t); err != nil {
				h.logger.Warn("alert failed", "sink", s.Name(), "to", t.To, "err", err)
			}
		}(s)
	}
}

// Wait blocks until in-flight sinks finish or d elapses. It reports whether they finished.
func (h *Hub) Wait(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
