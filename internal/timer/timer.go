// Package timer tracks running time for a single interval.
package timer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/pomotui/internal/clock"
)

// Timer accumulates running time across pauses for a fixed duration.
type Timer struct {
	clock        clock.Clock
	duration     time.Duration
	accumulated  time.Duration
	runningSince time.Time
	running      bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// New returns a stopped timer with zero elapsed time. Negative durations are treated as zero.
func New(d time.Duration, opts ...Option) *Timer {
	if d < 0 {
		d = 0
	}
	t := &Timer{clock: clock.Real{}, duration: d}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartOrPause toggles the running state.
func (t *Timer) StartOrPause() {
	if t.running {
		t.accumulated += t.segment()
		t.runningSince = time.Time{}
		t.running = false
		return
	}
	t.runningSince = t.clock.Now()
	t.running = true
}

// Reset stops the timer and clears elapsed time.
func (t *Timer) Reset() {
	t.accumulated = 0
	t.runningSince = time.Time{}
	t.running = false
}

// Elapsed returns the time spent running, excluding paused spans.
func (t *Timer) Elapsed() time.Duration {
	if !t.running {
		return t.accumulated
	}
	return t.accumulated + t.segment()
}

// Remaining returns duration minus elapsed, floored at zero.
func (t *Timer) Remaining() time.Duration {
	elapsed := t.Elapsed()
	if elapsed >= t.duration {
		return 0
	}
	return t.duration - elapsed
}

// IsRunning reports whether the timer is counting.
func (t *Timer) IsRunning() bool {
	return t.running
}

// Duration returns the configured interval length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Format renders the remaining time as MM:SS.
func (t *Timer) Format() string {
	return FormatClock(t.Remaining())
}

// String implements fmt.Stringer.
func (t *Timer) String() string {
	return t.Format()
}

func (t *Timer) segment() time.Duration {
	d := t.clock.Now().Sub(t.runningSince)
	if d < 0 {
		return 0
	}
	return d
}

// FormatClock renders whole seconds of d as zero-padded MM:SS. Minutes do not roll over into hours.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseClock parses a MM:SS string produced by FormatClock.
func ParseClock(s string) (int, int, error) {
	minStr, secStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid clock %q: missing ':'", s)
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil || minutes < 0 {
		return 0, 0, fmt.Errorf("invalid clock minutes %q", minStr)
	}
	seconds, err := strconv.Atoi(secStr)
	if err != nil || seconds < 0 || seconds >= 60 || len(secStr) != 2 {
		return 0, 0, fmt.Errorf("invalid clock seconds %q", secStr)
	}
	return minutes, seconds, nil
}
