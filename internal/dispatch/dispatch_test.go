package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pomotui/internal/clock"
)

type chanSource struct {
	keys chan Key
	errs chan error
}

func newChanSource() *chanSource {
	return &chanSource{keys: make(chan Key, 16), errs: make(chan error, 1)}
}

func (s *chanSource) Poll(timeout time.Duration) (Key, bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case err := <-s.errs:
		return Key{}, false, err
	case k := <-s.keys:
		return k, true, nil
	case <-t.C:
		return Key{}, false, nil
	}
}

func TestPollTimeout(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, PollTimeout(200*time.Millisecond, 0))
	assert.Equal(t, 50*time.Millisecond, PollTimeout(200*time.Millisecond, 150*time.Millisecond))
	assert.Zero(t, PollTimeout(200*time.Millisecond, 200*time.Millisecond))
	assert.Zero(t, PollTimeout(200*time.Millisecond, time.Second))
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 100; i++ {
		require.True(t, q.Push(Event{Kind: KeyPress, Key: RuneKey(rune('a' + i%26))}))
	}
	assert.Equal(t, 100, q.Len())
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		ev, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, rune('a'+i%26), ev.Key.Rune)
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := NewQueue()
	got := make(chan Event, 1)
	go func() {
		ev, err := q.Pop(context.Background())
		if err == nil {
			got <- ev
		}
	}()
	select {
	case <-got:
		t.Fatalf("pop returned before push")
	case <-time.After(20 * time.Millisecond):
	}
	q.Push(Event{Kind: Tick})
	select {
	case ev := <-got:
		assert.Equal(t, Tick, ev.Kind)
	case <-time.After(time.Second):
		t.Fatalf("pop did not wake up")
	}
}

func TestQueuePopHonoursContext(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueDrainsBeforeCloseError(t *testing.T) {
	q := NewQueue()
	boom := errors.New("boom")
	q.Push(Event{Kind: Tick})
	q.CloseWithError(boom)
	assert.False(t, q.Push(Event{Kind: Tick}))

	ev, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Tick, ev.Kind)
	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestQueueConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	q := NewQueue()
	const producers, perProducer = 4, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{Kind: KeyPress, Key: Key{Code: KeyRune, Rune: rune(p*1000 + i)}})
			}
		}(p)
	}
	wg.Wait()
	q.Close()

	last := map[int]int{}
	count := 0
	for {
		ev, err := q.Pop(context.Background())
		if errors.Is(err, ErrQueueClosed) {
			break
		}
		require.NoError(t, err)
		p, i := int(ev.Key.Rune)/1000, int(ev.Key.Rune)%1000
		if prev, ok := last[p]; ok {
			assert.Greater(t, i, prev)
		}
		last[p] = i
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestDispatcherEmitsTicksAtCadence(t *testing.T) {
	src := newChanSource()
	d := New(src, WithCadence(10*time.Millisecond))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	start := time.Now()
	for i := 0; i < 5; i++ {
		ev, err := d.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, Tick, ev.Kind)
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDispatcherTicksFollowInjectedClock(t *testing.T) {
	fc := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	src := newChanSource()
	d := New(src, WithCadence(5*time.Millisecond), WithClock(fc))
	d.Start(context.Background())
	defer d.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, d.queue.Len(), "no tick before the clock advances")

	fc.Advance(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := d.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Tick, ev.Kind)
	assert.Equal(t, fc.Now(), ev.At)

	src.keys <- RuneKey('s')
	ev, err = d.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, KeyPress, ev.Kind)
	assert.Equal(t, fc.Now(), ev.At)
}

func TestDispatcherDeliversKeysInOrder(t *testing.T) {
	src := newChanSource()
	d := New(src, WithCadence(5*time.Millisecond))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	want := []Key{RuneKey('s'), RuneKey('r'), {Code: KeyEsc}}
	for _, k := range want {
		src.keys <- k
	}

	var got []Key
	deadline := time.After(2 * time.Second)
	for len(got) < len(want) {
		select {
		case <-deadline:
			t.Fatalf("timed out, got %v", got)
		default:
		}
		ev, err := d.Next(ctx)
		require.NoError(t, err)
		if ev.Kind == KeyPress {
			got = append(got, ev.Key)
		}
	}
	assert.Equal(t, want, got)
}

func TestDispatcherPropagatesInputError(t *testing.T) {
	src := newChanSource()
	d := New(src, WithCadence(time.Hour))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	src.keys <- RuneKey('q')
	time.Sleep(20 * time.Millisecond)
	src.errs <- errors.New("tty gone")

	ev, err := d.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q", ev.Key.String())

	_, err = d.Next(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestDispatcherStopClosesQueue(t *testing.T) {
	src := newChanSource()
	d := New(src, WithCadence(5*time.Millisecond))
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	for {
		_, err := d.Next(context.Background())
		if err != nil {
			assert.ErrorIs(t, err, ErrQueueClosed)
			return
		}
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "s", RuneKey('s').String())
	assert.Equal(t, "esc", Key{Code: KeyEsc}.String())
	assert.Equal(t, "ctrl+c", Key{Code: KeyCtrlC}.String())
	assert.Equal(t, "enter", Key{Code: KeyEnter}.String())
	assert.Equal(t, "unknown", Key{}.String())
	assert.Equal(t, DefaultCadence, New(newChanSource()).Cadence())
}
