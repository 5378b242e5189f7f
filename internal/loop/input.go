package loop

import "github.com/tomz197/invaders/internal/input"

// OnKeyDown records a held key. Only left, right and fire are recognized;
// holding left and right together applies both in the same step.
func (s *State) OnKeyDown(k input.Key) {
	s.setKey(k, true)
}

// OnKeyUp records a released key.
func (s *State) OnKeyUp(k input.Key) {
	s.setKey(k, false)
}

// Apply routes a key event to OnKeyDown or OnKeyUp.
func (s *State) Apply(ev input.Event) {
	s.setKey(ev.Key, ev.Down)
}

func (s *State) setKey(k input.Key, down bool) {
	switch k {
	case input.KeyLeft:
		s.LeftPressed = down
	case input.KeyRight:
		s.RightPressed = down
	case input.KeyFire:
		s.FirePressed = down
	}
}

// HeldKeys returns the movement and fire keys currently held.
func (s *State) HeldKeys() []input.Key {
	var keys []input.Key
	if s.LeftPressed {
		keys = append(keys, input.KeyLeft)
	}
	if s.RightPressed {
		keys = append(keys, input.KeyRight)
	}
	if s.FirePressed {
		keys = append(keys, input.KeyFire)
	}
	return keys
}

// WithHeldKeys starts a session with keys already held, such as keys kept
// down while the previous session ended.
func WithHeldKeys(keys ...input.Key) Option {
	return func(s *State) {
		for _, k := range keys {
			s.OnKeyDown(k)
		}
	}
}
