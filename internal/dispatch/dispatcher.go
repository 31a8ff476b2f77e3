package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/pomotui/internal/clock"
)

// DefaultCadence is the tick interval used when none is configured.
const DefaultCadence = 200 * time.Millisecond

// KeySource delivers raw key presses.
type KeySource interface {
	// Poll waits at most timeout for a key. ok is false when none arrived.
	Poll(timeout time.Duration) (key Key, ok bool, err error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCadence sets the tick interval. Non-positive values are ignored.
func WithCadence(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.cadence = d
		}
	}
}

// WithClock overrides the time source used for tick scheduling and event stamps.
func WithClock(c clock.Clock) Option {
	return func(disp *Dispatcher) {
		if c != nil {
			disp.clock = c
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(disp *Dispatcher) {
		if l != nil {
			disp.logger = l
		}
	}
}

// Dispatcher runs one producer goroutine that polls a KeySource and emits
// ticks at a fixed cadence into a Queue read by a single consumer.
type Dispatcher struct {
	src     KeySource
	cadence time.Duration
	clock   clock.Clock
	logger  *log.Logger
	queue   *Queue

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a Dispatcher reading keys from src.
func New(src KeySource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		src:     src,
		cadence: DefaultCadence,
		clock:   clock.Real{},
		logger:  log.New(io.Discard),
		queue:   NewQueue(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cadence returns the tick interval.
func (d *Dispatcher) Cadence() time.Duration {
	return d.cadence
}

// Start launches the producer. Calling Start more than once has no effect.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		return
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go d.produce(ctx, d.done)
}

// Stop cancels the producer and waits for it to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Next blocks until the next event is available. After the producer exits
// with an input error, Next returns that error once pending events are drained.
func (d *Dispatcher) Next(ctx context.Context) (Event, error) {
	return d.queue.Pop(ctx)
}

func (d *Dispatcher) produce(ctx context.Context, done chan struct{}) {
	defer close(done)
	lastTick := d.clock.Now()
	for {
		if ctx.Err() != nil {
			d.queue.Close()
			return
		}
		key, ok, err := d.src.Poll(PollTimeout(d.cadence, d.clock.Now().Sub(lastTick)))
		if err != nil {
			d.logger.Error("input poll failed", "err", err)
			d.queue.CloseWithError(fmt.Errorf("failed to read input: %w", err))
			return
		}
		now := d.clock.Now()
		if ok {
			d.queue.Push(Event{Kind: KeyPress, Key: key, At: now})
		}
		if now.Sub(lastTick) >= d.cadence {
			d.queue.Push(Event{Kind: Tick, At: now})
			lastTick = now
		}
	}
}

// PollTimeout returns how long to wait for input before the next tick is due.
func PollTimeout(cadence, sinceLastTick time.Duration) time.Duration {
	if sinceLastTick >= cadence {
		return 0
	}
	return cadence - sinceLastTick
}
