// Package session implements the work/break state machine.
package session

import (
	"time"

	"github.com/verte-zerg/pomotui/internal/clock"
	"github.com/verte-zerg/pomotui/internal/timer"
)

// Phase identifies the active interval.
type Phase uint8

const (
	Work Phase = iota
	Break
)

type phaseSpec struct {
	name    string
	next    Phase
	title   string
	message string
}

var phaseTable = [...]phaseSpec{
	Work:  {name: "Work", next: Break, title: "Pomodoro Timer", message: "Time for a break!"},
	Break: {name: "Break", next: Work, title: "Pomodoro Timer", message: "Back to work!"},
}

func (p Phase) spec() phaseSpec {
	if int(p) >= len(phaseTable) {
		return phaseTable[Work]
	}
	return phaseTable[p]
}

// String returns the display name of the phase.
func (p Phase) String() string {
	return p.spec().name
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	return p.spec().next
}

// Transition describes an automatic phase switch.
type Transition struct {
	From    Phase
	To      Phase
	Title   string
	Message string
	// Planned is the configured duration of the interval that just finished.
	Planned time.Duration
	// StartedAt is when the finished interval first started running. It is zero
	// when the interval never ran (a zero-length phase).
	StartedAt time.Time
	At        time.Time
}

// Notifier receives phase switches. Implementations must not block.
type Notifier interface {
	PhaseChanged(Transition)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Transition)

// PhaseChanged implements Notifier.
func (f NotifierFunc) PhaseChanged(t Transition) {
	f(t)
}

// View is the read-only surface of a phase timer.
type View interface {
	Remaining() time.Duration
	Elapsed() time.Duration
	Duration() time.Duration
	IsRunning() bool
	Format() string
}

// Config holds the interval lengths.
type Config struct {
	Work  time.Duration
	Break time.Duration
}

// Option configures a Machine.
type Option func(*Machine)

// WithNotifier sets the receiver of phase switches.
func WithNotifier(n Notifier) Option {
	return func(m *Machine) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithClock overrides the time source for both timers.
func WithClock(c clock.Clock) Option {
	return func(m *Machine) {
		if c != nil {
			m.clock = c
		}
	}
}

// Machine owns the work and break timers. It is not safe for concurrent use.
type Machine struct {
	clock     clock.Clock
	notifier  Notifier
	timers    [2]*timer.Timer
	startedAt [2]time.Time
	phase     Phase
	completed int
}

// New returns a machine in the Work phase with both timers stopped.
func New(cfg Config, opts ...Option) *Machine {
	m := &Machine{
		clock:    clock.Real{},
		notifier: NotifierFunc(func(Transition) {}),
		phase:    Work,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.timers[Work] = timer.New(cfg.Work, timer.WithClock(m.clock))
	m.timers[Break] = timer.New(cfg.Break, timer.WithClock(m.clock))
	return m
}

// Phase returns the active phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Timer returns a read-only view of the timer for p.
func (m *Machine) Timer(p Phase) View {
	return m.timer(p)
}

// IsRunning reports whether the active phase's timer is running.
func (m *Machine) IsRunning() bool {
	return m.active().IsRunning()
}

// Completed returns the number of work intervals finished since start.
func (m *Machine) Completed() int {
	return m.completed
}

// Progress returns the consumed fraction of the active interval in [0, 1].
func (m *Machine) Progress() float64 {
	t := m.active()
	if t.Duration() <= 0 {
		return 1
	}
	p := float64(t.Elapsed()) / float64(t.Duration())
	if p > 1 {
		return 1
	}
	return p
}

// StartOrPause toggles the active phase's timer.
func (m *Machine) StartOrPause() {
	t := m.active()
	if !t.IsRunning() && m.startedAt[m.phase].IsZero() {
		m.startedAt[m.phase] = m.clock.Now()
	}
	t.StartOrPause()
}

// Reset stops both timers and returns to the Work phase.
func (m *Machine) Reset() {
	m.timers[Work].Reset()
	m.timers[Break].Reset()
	m.startedAt = [2]time.Time{}
	m.phase = Work
}

// CheckAndSwitch moves to the next phase once the active timer has no time left.
// It reports whether a switch happened.
func (m *Machine) CheckAndSwitch() bool {
	current := m.active()
	if current.Remaining() != 0 {
		return false
	}
	from := m.phase
	spec := from.spec()
	now := m.clock.Now()
	startedAt := m.startedAt[from]

	current.Reset()
	m.startedAt[from] = time.Time{}
	m.timer(spec.next).Reset()
	m.timer(spec.next).StartOrPause()
	m.startedAt[spec.next] = now
	m.phase = spec.next
	if from == Work {
		m.completed++
	}

	m.notifier.PhaseChanged(Transition{
		From:      from,
		To:        spec.next,
		Title:     spec.title,
		Message:   spec.message,
		Planned:   current.Duration(),
		StartedAt: startedAt,
		At:        now,
	})
	return true
}

func (m *Machine) active() *timer.Timer {
	return m.timer(m.phase)
}

func (m *Machine) timer(p Phase) *timer.Timer {
	if int(p) >= len(m.timers) {
		return m.timers[Work]
	}
	return m.timers[p]
}
