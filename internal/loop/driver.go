package loop

import (
	"context"
	"errors"
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
)

// ErrQuit is returned by Driver.Run when the player asks to quit.
var ErrQuit = errors.New("player quit")

// FrameFunc is called after every step, typically to render the state.
type FrameFunc func(s *State, status Status) error

// Driver runs one session: it applies pending input, steps the simulation by the
// wall-clock time since the last step, and calls Frame, once per frame, until the
// session ends.
type Driver struct {
	State  *State
	Events <-chan input.Event // Key events applied between steps
	Frame  FrameFunc

	Clock     func() time.Time // Defaults to time.Now
	FrameTime time.Duration    // Minimum frame duration; 0 disables pacing

	// MaxDelta caps the step delta after a stall. 0 keeps the raw wall-clock delta,
	// so a long pause produces one large step in which lasers can pass through targets.
	MaxDelta time.Duration
}

// NewDriver returns a driver paced at the target frame rate.
func NewDriver(s *State, events <-chan input.Event, frame FrameFunc) *Driver {
	return &Driver{
		State:     s,
		Events:    events,
		Frame:     frame,
		Clock:     time.Now,
		FrameTime: config.TargetFrameTime,
	}
}

// Run steps the session until it reaches a terminal status, the context is
// cancelled, Frame fails, or a quit key arrives.
func (d *Driver) Run(ctx context.Context) (Status, error) {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}
	events := d.Events

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return d.State.Status(), ctx.Err()
		default:
		}

		frameStart := time.Now()

		// ===== INPUT PHASE =====
		var quit bool
		events, quit = d.applyEvents(events)
		if quit {
			return d.State.Status(), ErrQuit
		}

		// ===== UPDATE PHASE =====
		now := clock()
		delta := now.Sub(d.State.LastTime)
		if d.MaxDelta > 0 && delta > d.MaxDelta {
			d.State.LastTime = now.Add(-d.MaxDelta)
			delta = d.MaxDelta
		}
		status := d.State.Step(delta.Seconds())

		// ===== DRAW PHASE =====
		if d.Frame != nil {
			if err := d.Frame(d.State, status); err != nil {
				return status, err
			}
		}
		if status.Terminal() {
			return status, nil
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed >= d.FrameTime {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(d.FrameTime - elapsed)
		} else {
			timer.Reset(d.FrameTime - elapsed)
		}
		select {
		case <-ctx.Done():
			return d.State.Status(), ctx.Err()
		case <-timer.C:
		}
	}
}

// applyEvents drains pending events without blocking. It returns the channel to
// keep reading (nil once closed) and whether a quit key was pressed.
func (d *Driver) applyEvents(events <-chan input.Event) (<-chan input.Event, bool) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, false
			}
			if ev.Key == input.KeyQuit && ev.Down {
				return events, true
			}
			d.State.Apply(ev)
		default:
			return events, false
		}
	}
}
