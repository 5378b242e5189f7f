// Package loop runs invaders sessions: the authoritative game state, the
// per-frame simulation step, the frame driver and the terminal front end.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/render"
)

// inputPollInterval is how often terminal input is turned into key events.
const inputPollInterval = 5 * time.Millisecond

// Options configures a terminal game.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // Defaults to the size of os.Stdout
	Logger       *log.Logger       // Defaults to log.Default()
	Strict       bool              // Panic on invariant violations
	MaxDelta     time.Duration     // See Driver.MaxDelta
	Config       *Config           // Defaults to DefaultConfig()
}

// Run plays sessions on a raw-mode terminal until the player quits or r is exhausted.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return RunContext(context.Background(), r, w, opts)
}

// RunContext is Run with cancellation, used when the terminal is a network session.
func RunContext(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan input.Event, 64)
	go pumpEvents(ctx, input.StartStream(r), events)

	draw.HideCursor(w)
	painter := render.NewTerminal(w, opts.TermSizeFunc, cfg.FieldWidth, cfg.FieldHeight,
		config.MaxRenderCols, config.MaxRenderRows)
	defer painter.Close()
	table := render.NewTable()

	g := &terminalGame{
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		events:  events,
		painter: painter,
		table:   table,
		held:    input.Held{},
	}
	return g.run(ctx)
}

// terminalGame moves between the title screen, sessions and result screens.
type terminalGame struct {
	cfg     Config
	opts    Options
	logger  *log.Logger
	events  chan input.Event
	painter *render.Terminal
	table   *render.Table
	held    input.Held      // Keys held between sessions
	sprites []object.Sprite // Reused per frame
}

func (g *terminalGame) run(ctx context.Context) error {
	start, err := g.waitForKey(ctx, titleScreen()...)
	if err != nil || !start {
		return ignoreQuit(err)
	}

	for {
		status, err := g.play(ctx)
		if err != nil {
			return ignoreQuit(err)
		}
		g.logger.Debug("session ended", "status", status)

		again, err := g.waitForKey(ctx, resultScreen(status)...)
		if err != nil || !again {
			return ignoreQuit(err)
		}
	}
}

// play runs one session to its end. Keys still held from the previous
// session stay held.
func (g *terminalGame) play(ctx context.Context) (Status, error) {
	g.table.Reset()
	state, err := NewSession(g.cfg,
		WithSink(g.table),
		WithLogger(g.logger),
		WithStrictInvariants(g.opts.Strict),
		WithHeldKeys(g.held.Keys()...),
	)
	if err != nil {
		return StatusRunning, fmt.Errorf("start session: %w", err)
	}

	d := NewDriver(state, g.events, g.frame)
	d.MaxDelta = g.opts.MaxDelta
	status, err := d.Run(ctx)

	clear(g.held)
	for _, k := range state.HeldKeys() {
		g.held[k] = true
	}
	return status, err
}

// frame syncs positions into the table and paints it.
func (g *terminalGame) frame(s *State, status Status) error {
	g.sprites = s.Sprites(g.sprites[:0])
	g.table.Move(g.sprites)
	return g.painter.Draw(g.table)
}

// waitForKey shows a screen until SPACE/ENTER (true) or Q (false) is pressed.
func (g *terminalGame) waitForKey(ctx context.Context, lines ...string) (bool, error) {
	ticker := time.NewTicker(config.TargetFrameTime)
	defer ticker.Stop()

	for {
		if err := g.painter.Draw(g.table, lines...); err != nil {
			return false, err
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case ev, ok := <-g.events:
			if !ok {
				return false, nil
			}
			if ev.Down {
				switch ev.Key {
				case input.KeyFire, input.KeyEnter:
					return true, nil
				case input.KeyQuit:
					return false, nil
				}
			}
			g.held.Apply(ev)
		case <-ticker.C:
		}
	}
}

// pumpEvents polls the terminal stream and forwards key events until ctx is done.
// The events channel is closed once the stream's reader is exhausted.
func pumpEvents(ctx context.Context, stream *input.Stream, events chan<- input.Event) {
	ticker := time.NewTicker(inputPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, ev := range stream.Poll(now) {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
			if stream.Closed() {
				close(events)
				return
			}
		}
	}
}

// ignoreQuit treats leaving the game as a normal exit.
func ignoreQuit(err error) error {
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
