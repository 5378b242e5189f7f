package loop

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := t0
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newTestDriver(s *State, events <-chan input.Event, frame FrameFunc) *Driver {
	d := NewDriver(s, events, frame)
	d.Clock = fakeClock(10 * time.Millisecond)
	d.FrameTime = 0
	return d
}

func TestDriverStopsOnVictory(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	s.Enemies = nil

	frames := 0
	d := newTestDriver(s, nil, func(*State, Status) error {
		frames++
		return nil
	})

	status, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusVictory {
		t.Errorf("status = %v, want victory", status)
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestDriverStopsOnGameOver(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	quietEnemies(s)
	s.EnemyLasers = append(s.EnemyLasers, object.NewEnemyLaser(99, 600, 500))

	var last Status
	d := newTestDriver(s, nil, func(_ *State, st Status) error {
		last = st
		return nil
	})

	status, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusGameOver || last != StatusGameOver {
		t.Errorf("status = %v, last frame = %v, want game over", status, last)
	}
}

func TestDriverAppliesEventsBeforeStep(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	quietEnemies(s)
	events := make(chan input.Event, 1)
	events <- input.Down(input.KeyLeft)

	errStop := errors.New("stop")
	d := newTestDriver(s, events, func(s *State, _ Status) error {
		if !s.LeftPressed {
			t.Error("left not held during the first frame")
		}
		if s.Player.X >= 600 {
			t.Errorf("x = %v, want the player moved left", s.Player.X)
		}
		return errStop
	})

	if _, err := d.Run(context.Background()); !errors.Is(err, errStop) {
		t.Fatalf("err = %v, want the frame error", err)
	}
}

func TestDriverQuitKey(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	events := make(chan input.Event, 1)
	events <- input.Down(input.KeyQuit)

	frames := 0
	d := newTestDriver(s, events, func(*State, Status) error {
		frames++
		return nil
	})

	if _, err := d.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("err = %v, want ErrQuit", err)
	}
	if frames != 0 {
		t.Errorf("frames = %d, want 0", frames)
	}
}

func TestDriverClosedEventsKeepRunning(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	quietEnemies(s)
	events := make(chan input.Event)
	close(events)

	frames := 0
	errStop := errors.New("stop")
	d := newTestDriver(s, events, func(*State, Status) error {
		frames++
		if frames == 3 {
			return errStop
		}
		return nil
	})

	if _, err := d.Run(context.Background()); !errors.Is(err, errStop) {
		t.Fatalf("err = %v, want the frame error", err)
	}
}

func TestDriverContextCancelled(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newTestDriver(s, nil, nil)
	status, err := d.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if status != StatusRunning {
		t.Errorf("status = %v, want running", status)
	}
}

func TestDriverCancelDuringPacing(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	quietEnemies(s)
	ctx, cancel := context.WithCancel(context.Background())

	d := NewDriver(s, nil, func(*State, Status) error {
		cancel()
		return nil
	})
	d.Clock = fakeClock(10 * time.Millisecond)
	d.FrameTime = time.Hour

	done := make(chan error, 1)
	go func() {
		_, err := d.Run(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("driver kept sleeping after cancel")
	}
}

func TestDriverMaxDelta(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	quietEnemies(s)
	s.LeftPressed = true

	errStop := errors.New("stop")
	d := newTestDriver(s, nil, func(*State, Status) error { return errStop })
	d.Clock = fakeClock(10 * time.Second)
	d.MaxDelta = 100 * time.Millisecond

	if _, err := d.Run(context.Background()); !errors.Is(err, errStop) {
		t.Fatalf("err = %v, want the frame error", err)
	}
	if math.Abs(s.Player.X-530) > 1e-9 {
		t.Errorf("x = %v, want 530 after one capped step", s.Player.X)
	}
	if want := t0.Add(10 * time.Second); !s.LastTime.Equal(want) {
		t.Errorf("LastTime = %v, want %v", s.LastTime, want)
	}
}
