package loop

import (
	"testing"

	"github.com/tomz197/invaders/internal/input"
)

func TestKeyEvents(t *testing.T) {
	s, _ := newTestState(t, smallConfig())

	s.OnKeyDown(input.KeyLeft)
	s.OnKeyDown(input.KeyRight)
	s.OnKeyDown(input.KeyFire)
	if !s.LeftPressed || !s.RightPressed || !s.FirePressed {
		t.Fatalf("pressed = %v %v %v, want all held", s.LeftPressed, s.RightPressed, s.FirePressed)
	}

	s.OnKeyUp(input.KeyRight)
	if !s.LeftPressed || s.RightPressed {
		t.Errorf("after releasing right: left=%v right=%v", s.LeftPressed, s.RightPressed)
	}

	s.Apply(input.Up(input.KeyFire))
	if s.FirePressed {
		t.Error("fire still held after release event")
	}
	s.Apply(input.Down(input.KeyRight))
	if !s.RightPressed {
		t.Error("right not held after press event")
	}
}

func TestKeyEventsIgnoreOtherKeys(t *testing.T) {
	s, _ := newTestState(t, smallConfig())

	for _, k := range []input.Key{input.KeyNone, input.KeyEnter, input.KeyQuit} {
		s.OnKeyDown(k)
	}
	if s.LeftPressed || s.RightPressed || s.FirePressed {
		t.Error("unrelated keys changed the held flags")
	}
}

func TestHeldKeysCarryIntoNewSession(t *testing.T) {
	prev, _ := newTestState(t, smallConfig())
	prev.OnKeyDown(input.KeyLeft)
	prev.OnKeyDown(input.KeyFire)

	held := prev.HeldKeys()
	if len(held) != 2 || held[0] != input.KeyLeft || held[1] != input.KeyFire {
		t.Fatalf("HeldKeys = %v, want [left fire]", held)
	}

	next, _ := newTestState(t, smallConfig(), WithHeldKeys(append(held, input.KeyEnter)...))
	if !next.LeftPressed || next.RightPressed || !next.FirePressed {
		t.Errorf("pressed = %v %v %v, want left and fire held", next.LeftPressed, next.RightPressed, next.FirePressed)
	}
}
