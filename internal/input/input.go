// Package input turns raw key identifiers from terminals and browsers into key events.
package input

import (
	"bufio"
	"slices"
	"time"
)

// DefaultHoldDuration is how long a terminal key counts as held after its last byte.
// Terminals only report presses (and auto-repeat), never releases.
const DefaultHoldDuration = 30 * time.Millisecond

// Key is a logical key the game understands.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyEnter
	KeyQuit
)

// String returns a readable key name.
func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyFire:
		return "fire"
	case KeyEnter:
		return "enter"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}

// Event is a single key press or release.
type Event struct {
	Key  Key
	Down bool
}

// Down returns a key press event.
func Down(k Key) Event { return Event{Key: k, Down: true} }

// Up returns a key release event.
func Up(k Key) Event { return Event{Key: k} }

// Held tracks which keys are currently down.
type Held map[Key]bool

// Apply records a press or release.
func (h Held) Apply(ev Event) {
	if ev.Down {
		h[ev.Key] = true
		return
	}
	delete(h, ev.Key)
}

// Keys returns the held keys in ascending order.
func (h Held) Keys() []Key {
	keys := make([]Key, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FromBrowserCode maps a KeyboardEvent.code value to a Key.
func FromBrowserCode(code string) Key {
	switch code {
	case "ArrowLeft", "KeyA":
		return KeyLeft
	case "ArrowRight", "KeyD":
		return KeyRight
	case "Space":
		return KeyFire
	case "Enter", "NumpadEnter":
		return KeyEnter
	case "KeyQ", "Escape":
		return KeyQuit
	default:
		return KeyNone
	}
}

// FromKeyCode maps a legacy KeyboardEvent.keyCode value to a Key.
func FromKeyCode(code int) Key {
	switch code {
	case 37:
		return KeyLeft
	case 39:
		return KeyRight
	case 32:
		return KeyFire
	case 13:
		return KeyEnter
	default:
		return KeyNone
	}
}

// Stream reads terminal bytes in the background and converts them to key events.
type Stream struct {
	ch   chan byte
	hold time.Duration
	seen map[Key]time.Time // Keys currently held and when they were last seen
	eof  bool

	pending []byte // Incomplete escape sequence carried into the next apply
}

// Closed reports whether the underlying reader is exhausted and every byte was polled.
func (s *Stream) Closed() bool {
	return s.eof
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream(DefaultHoldDuration)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(hold time.Duration) *Stream {
	return &Stream{
		ch:   make(chan byte, 128),
		hold: hold,
		seen: make(map[Key]time.Time),
	}
}

// Poll drains all available bytes without blocking and returns the resulting events:
// a press for every key that was not already held, and a release for every held key
// that has not been seen within the hold window.
func (s *Stream) Poll(now time.Time) []Event {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.eof = true
				return s.apply(buf, now)
			}
			buf = append(buf, b)
		default:
			return s.apply(buf, now)
		}
	}
}

// apply parses buf and updates held keys at time now.
func (s *Stream) apply(buf []byte, now time.Time) []Event {
	if len(s.pending) > 0 {
		buf = append(s.pending, buf...)
		s.pending = nil
	}

	var events []Event
	press := func(k Key) {
		if k == KeyNone {
			return
		}
		if _, held := s.seen[k]; !held {
			events = append(events, Down(k))
		}
		s.seen[k] = now
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>, possibly split across reads.
		if b == '\x1b' && (i+1 == len(buf) || (i+2 == len(buf) && buf[i+1] == '[')) {
			s.pending = append([]byte(nil), buf[i:]...)
			break
		}
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				press(KeyRight)
				i += 2
				continue
			case 'D':
				press(KeyLeft)
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}
		press(keyForByte(b))
	}

	for k, last := range s.seen {
		if now.Sub(last) >= s.hold {
			delete(s.seen, k)
			events = append(events, Up(k))
		}
	}
	return events
}

// keyForByte maps a single terminal byte to a Key.
func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', '\x03':
		return KeyQuit
	case 'a', 'A', 'j', 'J', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case ' ', 'w', 'W', 'k', 'K':
		return KeyFire
	case '\n', '\r':
		return KeyEnter
	default:
		return KeyNone
	}
}
