// Package terminal reads key presses from a raw-mode TTY.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/pomotui/internal/dispatch"
)

const readBufSize = 64

type readResult struct {
	keys []dispatch.Key
	err  error
}

// Input is a dispatch.KeySource backed by a file in raw mode.
// A background goroutine blocks in Read; Poll waits on it with a timeout.
type Input struct {
	file    *os.File
	state   *term.State
	results chan readResult
	pending []dispatch.Key
	err     error

	closeOnce sync.Once
}

// Open switches f into raw mode and starts reading from it.
func Open(f *os.File) (*Input, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	in := newInput(f)
	in.file = f
	in.state = state
	return in, nil
}

func newInput(r io.Reader) *Input {
	in := &Input{results: make(chan readResult, 16)}
	go in.readLoop(r)
	return in
}

// Poll implements dispatch.KeySource.
func (in *Input) Poll(timeout time.Duration) (dispatch.Key, bool, error) {
	if k, ok := in.shift(); ok {
		return k, true, nil
	}
	if in.err != nil {
		return dispatch.Key{}, false, in.err
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		select {
		case res := <-in.results:
			in.pending = append(in.pending, res.keys...)
			if res.err != nil {
				in.err = res.err
			}
			if k, ok := in.shift(); ok {
				return k, true, nil
			}
			if in.err != nil {
				return dispatch.Key{}, false, in.err
			}
		case <-t.C:
			return dispatch.Key{}, false, nil
		}
	}
}

// Close restores the terminal state. The read goroutine stays blocked until the process exits.
func (in *Input) Close() error {
	var err error
	in.closeOnce.Do(func() {
		if in.state != nil && in.file != nil {
			err = term.Restore(int(in.file.Fd()), in.state)
		}
	})
	return err
}

func (in *Input) shift() (dispatch.Key, bool) {
	if len(in.pending) == 0 {
		return dispatch.Key{}, false
	}
	k := in.pending[0]
	in.pending = in.pending[1:]
	return k, true
}

func (in *Input) readLoop(r io.Reader) {
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		var keys []dispatch.Key
		if n > 0 {
			keys = DecodeKeys(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			in.results <- readResult{keys: keys, err: err}
			return
		}
		if len(keys) > 0 {
			in.results <- readResult{keys: keys}
		}
	}
}
