// Package tui provides the Bubble Tea Pomodoro interface.
package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/pomotui/internal/dispatch"
	"github.com/verte-zerg/pomotui/internal/session"
)

// EventSource yields dispatcher events one at a time. *dispatch.Dispatcher satisfies it.
type EventSource interface {
	Next(ctx context.Context) (dispatch.Event, error)
}

type eventMsg struct {
	ev dispatch.Event
}

type sourceErrMsg struct {
	err error
}

// Model implements the Bubble Tea timer UI. It is the only owner of the session:
// every mutation happens inside Update.
type Model struct {
	session   *session.Machine
	events    EventSource
	logger    *log.Logger
	hideImage bool

	keys     keyMap
	progress progress.Model

	width  int
	height int

	quitting bool
	err      error
}

// Options configures NewModel.
type Options struct {
	HideImage bool
	Logger    *log.Logger
}

// NewModel constructs the timer UI around an existing session and event source.
func NewModel(s *session.Machine, events EventSource, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Model{
		session:   s,
		events:    events,
		logger:    logger,
		hideImage: opts.HideImage,
		keys:      defaultKeyMap(),
		progress:  progress.New(progress.WithSolidFill(workColor), progress.WithoutPercentage()),
	}
}

// Err returns the input error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the dispatcher queue. Only one is outstanding at a time,
// so events are handled strictly in arrival order.
func waitForEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		ev, err := src.Next(context.Background())
		if err != nil {
			return sourceErrMsg{err: err}
		}
		return eventMsg{ev: ev}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case eventMsg:
		m.handleEvent(msg.ev)
		if m.quitting {
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)
	case sourceErrMsg:
		m.quitting = true
		if !errors.Is(msg.err, dispatch.ErrQueueClosed) {
			m.err = msg.err
			m.logger.Error("input stopped", "err", msg.err)
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) handleEvent(ev dispatch.Event) {
	switch ev.Kind {
	case dispatch.Tick:
		m.session.CheckAndSwitch()
	case dispatch.KeyPress:
		m.handleKey(ev.Key)
	}
}

func (m *Model) handleKey(k dispatch.Key) {
	switch {
	case key.Matches(k, m.keys.Start):
		m.session.StartOrPause()
		m.logger.Debug("start/pause", "phase", m.session.Phase(), "running", m.session.IsRunning())
	case key.Matches(k, m.keys.Reset):
		m.session.Reset()
		m.logger.Debug("reset")
	case key.Matches(k, m.keys.Quit):
		m.quitting = true
	}
}
