// Package dispatch merges keyboard input and periodic ticks into one ordered event stream.
package dispatch

import (
	"time"
)

// KeyCode classifies a key press.
type KeyCode uint8

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyEsc
	KeyEnter
	KeyCtrlC
)

// Key is a decoded key press.
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey returns a printable key.
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// String names the key the way Bubble Tea does ("s", "esc", "ctrl+c").
func (k Key) String() string {
	switch k.Code {
	case KeyRune:
		return string(k.Rune)
	case KeyEsc:
		return "esc"
	case KeyEnter:
		return "enter"
	case KeyCtrlC:
		return "ctrl+c"
	default:
		return "unknown"
	}
}

// Kind tags an Event.
type Kind uint8

const (
	KeyPress Kind = iota + 1
	Tick
)

func (k Kind) String() string {
	switch k {
	case KeyPress:
		return "key"
	case Tick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is a single unit of work for the consumer.
type Event struct {
	Kind Kind
	Key  Key
	At   time.Time
}
