// Package web serves the browser client and plays one session per WebSocket connection.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/render"
)

//go:embed index.html
var indexHTML []byte

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Options configures browser sessions.
type Options struct {
	Logger   *log.Logger   // Defaults to log.Default()
	Strict   bool          // Panic on invariant violations
	MaxDelta time.Duration // See loop.Driver.MaxDelta
	Config   *loop.Config  // Defaults to loop.DefaultConfig()
}

// inboundMessage is a message sent by the browser.
type inboundMessage struct {
	Type    string `json:"type"` // "keydown", "keyup" or "start"
	Code    string `json:"code"`
	KeyCode int    `json:"keyCode"`
}

// Handler returns the HTTP handler serving the page at / and sessions at /ws.
func Handler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := loop.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(w, r, cfg, opts)
	})
	return mux
}

// client is one browser connection. Only the session goroutine writes to conn.
type client struct {
	conn    *websocket.Conn
	cfg     loop.Config
	opts    Options
	logger  *log.Logger
	events  chan input.Event
	held    input.Held // Keys held between sessions
	table   *render.Table
	sprites []object.Sprite
}

func serveWS(w http.ResponseWriter, r *http.Request, cfg loop.Config, opts Options) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		opts.Logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	c := &client{
		conn:   conn,
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger.With("remote", r.RemoteAddr),
		events: make(chan input.Event, 64),
		held:   input.Held{},
		table:  render.NewTable(),
	}
	c.logger.Info("browser connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader
	go func() {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m inboundMessage
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			c.handle(ctx, m)
		}
	}()

	if err := c.run(ctx); err != nil {
		c.logger.Warn("session stopped", "err", err)
	}
	c.logger.Info("browser disconnected")
}

// handle turns a browser message into a key event. A "start" request is an
// ENTER press, so it keeps its order relative to the keys around it and is
// ignored while a session is running.
func (c *client) handle(ctx context.Context, m inboundMessage) {
	var ev input.Event
	switch m.Type {
	case "keydown", "keyup":
		key := input.FromBrowserCode(m.Code)
		if key == input.KeyNone {
			key = input.FromKeyCode(m.KeyCode)
		}
		if key == input.KeyNone {
			return
		}
		ev = input.Event{Key: key, Down: m.Type == "keydown"}
	case "start":
		ev = input.Down(input.KeyEnter)
	default:
		return
	}
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

// run plays sessions back to back, waiting for a restart between them.
func (c *client) run(ctx context.Context) error {
	for {
		status, err := c.play(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return nil
		case errors.Is(err, loop.ErrQuit):
		case err != nil:
			return err
		}
		c.logger.Debug("session ended", "status", status)

		if !c.waitForRestart(ctx) {
			return nil
		}
	}
}

// play runs one session. Keys still held from the previous session stay held.
func (c *client) play(ctx context.Context) (loop.Status, error) {
	c.table.Reset()

	state, err := loop.NewSession(c.cfg,
		loop.WithSink(c.table),
		loop.WithLogger(c.logger),
		loop.WithStrictInvariants(c.opts.Strict),
		loop.WithHeldKeys(c.held.Keys()...),
	)
	if err != nil {
		return loop.StatusRunning, fmt.Errorf("start session: %w", err)
	}

	d := loop.NewDriver(state, c.events, c.frame)
	d.MaxDelta = c.opts.MaxDelta
	status, err := d.Run(ctx)

	clear(c.held)
	for _, k := range state.HeldKeys() {
		c.held[k] = true
	}
	return status, err
}

// frame sends the current sprite table to the browser.
func (c *client) frame(s *loop.State, status loop.Status) error {
	c.sprites = s.Sprites(c.sprites[:0])
	c.table.Move(c.sprites)

	f := render.BuildFrame(c.table, s.Config.FieldWidth, s.Config.FieldHeight, s.GameOver, s.Victory)
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// waitForRestart blocks until a "start" message or an ENTER/SPACE press,
// tracking the other keys so they stay held in the next session.
// It returns false when the connection is gone.
func (c *client) waitForRestart(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev := <-c.events:
			if ev.Down && (ev.Key == input.KeyEnter || ev.Key == input.KeyFire) {
				return true
			}
			c.held.Apply(ev)
		}
	}
}
