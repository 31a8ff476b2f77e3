package terminal

import (
	"unicode/utf8"

	"github.com/verte-zerg/pomotui/internal/dispatch"
)

const (
	byteCtrlC = 0x03
	byteCR    = '\r'
	byteLF    = '\n'
	byteEsc   = 0x1b
)

// DecodeKeys turns one raw read into key presses. An ESC that does not open a
// CSI (ESC [) or SS3 (ESC O) sequence is the Esc key; a recognised sequence
// (arrows, function keys) is reported as a single KeyUnknown and decoding continues after it.
func DecodeKeys(b []byte) []dispatch.Key {
	if len(b) == 0 {
		return nil
	}
	keys := make([]dispatch.Key, 0, len(b))
	for len(b) > 0 {
		switch b[0] {
		case byteCtrlC:
			keys = append(keys, dispatch.Key{Code: dispatch.KeyCtrlC})
			b = b[1:]
			continue
		case byteCR, byteLF:
			keys = append(keys, dispatch.Key{Code: dispatch.KeyEnter})
			b = b[1:]
			continue
		case byteEsc:
			n := escapeSequenceLen(b)
			if n == 0 {
				keys = append(keys, dispatch.Key{Code: dispatch.KeyEsc})
				b = b[1:]
			} else {
				keys = append(keys, dispatch.Key{Code: dispatch.KeyUnknown})
				b = b[n:]
			}
			continue
		}
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == utf8.RuneError || r < 0x20 || r == 0x7f {
			keys = append(keys, dispatch.Key{Code: dispatch.KeyUnknown})
			continue
		}
		keys = append(keys, dispatch.RuneKey(r))
	}
	return keys
}

// escapeSequenceLen returns the length of the CSI or SS3 sequence at the start
// of b, or 0 when b[0] is a bare ESC. An unterminated CSI spans the rest of b.
func escapeSequenceLen(b []byte) int {
	if len(b) < 2 {
		return 0
	}
	switch b[1] {
	case '[':
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return i + 1
			}
			if b[i] < 0x20 || b[i] > 0x3f {
				// Not a parameter or intermediate byte.
				return i
			}
		}
		return len(b)
	case 'O':
		if len(b) < 3 {
			return 2
		}
		return 3
	default:
		return 0
	}
}
