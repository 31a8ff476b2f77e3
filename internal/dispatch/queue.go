package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Pop after Close once the queue is drained.
var ErrQueueClosed = errors.New("event queue closed")

// Queue is an unbounded FIFO with non-blocking Push and blocking Pop.
// Any number of goroutines may Push; a single consumer is expected to Pop.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	ready  chan struct{}
	closed bool
	err    error
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends ev. It reports false if the queue is closed.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
	return true
}

// Pop removes the oldest event, waiting until one is available.
// Pending events are delivered before the close error.
func (q *Queue) Pop(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items[0] = Event{}
			q.items = q.items[1:]
			if len(q.items) > 0 {
				q.signal()
			}
			q.mu.Unlock()
			return ev, nil
		}
		if q.closed {
			err := q.err
			q.mu.Unlock()
			return Event{}, err
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting events.
func (q *Queue) Close() {
	q.CloseWithError(nil)
}

// CloseWithError stops accepting events; Pop returns err (or ErrQueueClosed) once drained.
func (q *Queue) CloseWithError(err error) {
	if err == nil {
		err = ErrQueueClosed
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.err = err
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
