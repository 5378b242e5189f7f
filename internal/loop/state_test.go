package loop

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/object"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recordingSink remembers every notification.
type recordingSink struct {
	spawned   []object.Sprite
	destroyed []object.ID
}

func (r *recordingSink) Spawned(s object.Sprite) { r.spawned = append(r.spawned, s) }
func (r *recordingSink) Destroyed(id object.ID)  { r.destroyed = append(r.destroyed, id) }

func (r *recordingSink) wasDestroyed(id object.ID) bool {
	for _, d := range r.destroyed {
		if d == id {
			return true
		}
	}
	return false
}

// newTestState creates a deterministic strict session.
func newTestState(t *testing.T, cfg Config, opts ...Option) (*State, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(t0),
		WithSink(sink),
		WithLogger(log.New(io.Discard)),
		WithStrictInvariants(true),
	}
	s, err := NewSession(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, sink
}

// quietEnemies stops every enemy from firing during a test.
func quietEnemies(s *State) {
	for _, e := range s.Enemies {
		e.Cooldown = math.MaxFloat64
	}
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Rows = 1
	cfg.PerRow = 2
	return cfg
}

func TestNewSessionLayout(t *testing.T) {
	s, _ := newTestState(t, DefaultConfig())

	if s.Player.X != 600 || s.Player.Y != 510 {
		t.Errorf("player at (%v, %v), want (600, 510)", s.Player.X, s.Player.Y)
	}
	if len(s.Enemies) != 24 {
		t.Fatalf("enemies = %d, want 24", len(s.Enemies))
	}
	if len(s.Lasers) != 0 || len(s.EnemyLasers) != 0 {
		t.Error("new session has lasers")
	}
	if s.Status() != StatusRunning {
		t.Errorf("status = %v, want running", s.Status())
	}

	first, last := s.Enemies[0], s.Enemies[7]
	if first.X != 80 || first.Y != 70 {
		t.Errorf("first enemy at (%v, %v), want (80, 70)", first.X, first.Y)
	}
	if math.Abs(last.X-1120) > 1e-9 || last.Y != 70 {
		t.Errorf("last enemy of row 0 at (%v, %v), want (1120, 70)", last.X, last.Y)
	}
	if y := s.Enemies[16].Y; y != 230 {
		t.Errorf("row 2 y = %v, want 230", y)
	}

	for i, e := range s.Enemies {
		if e.Cooldown < 0.5 || e.Cooldown > 4.0 {
			t.Errorf("enemy %d cooldown = %v, want within [0.5, 4]", i, e.Cooldown)
		}
	}
}

func TestNewSessionTwoPerRow(t *testing.T) {
	s, _ := newTestState(t, smallConfig())

	if len(s.Enemies) != 2 {
		t.Fatalf("enemies = %d, want 2", len(s.Enemies))
	}
	if s.Enemies[0].X != 80 || s.Enemies[1].X != 1120 {
		t.Errorf("enemy xs = %v, %v, want 80, 1120", s.Enemies[0].X, s.Enemies[1].X)
	}
}

func TestNewSessionNotifiesSink(t *testing.T) {
	s, sink := newTestState(t, DefaultConfig())

	if len(sink.spawned) != 25 {
		t.Fatalf("spawned = %d, want 25", len(sink.spawned))
	}
	if sink.spawned[0].Kind != object.KindPlayer || sink.spawned[0].ID != s.Player.ID {
		t.Errorf("first spawn = %+v, want the player", sink.spawned[0])
	}

	seen := make(map[object.ID]bool)
	for _, sp := range sink.spawned {
		if seen[sp.ID] {
			t.Errorf("duplicate id %d", sp.ID)
		}
		seen[sp.ID] = true
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"one per row", func(c *Config) { c.PerRow = 1 }, "PerRow"},
		{"no rows", func(c *Config) { c.Rows = 0 }, "Rows"},
		{"nan width", func(c *Config) { c.FieldWidth = math.NaN() }, "FieldWidth"},
		{"zero laser speed", func(c *Config) { c.LaserMaxSpeed = 0 }, "LaserMaxSpeed"},
		{"padding fills field", func(c *Config) { c.HorizontalPadding = 600 }, "HorizontalPadding"},
		{"negative spacing", func(c *Config) { c.VerticalSpacing = -1 }, "VerticalSpacing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			s, err := NewSession(cfg)
			if s != nil {
				t.Error("got a session for an invalid config")
			}
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *ConfigurationError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestSpritesAppliesDrift(t *testing.T) {
	s, _ := newTestState(t, smallConfig())
	s.DriftX, s.DriftY = 10, -5

	sprites := s.Sprites(nil)
	if len(sprites) != 3 {
		t.Fatalf("sprites = %d, want 3", len(sprites))
	}
	if sprites[1].X != 90 || sprites[1].Y != 65 {
		t.Errorf("enemy sprite at (%v, %v), want (90, 65)", sprites[1].X, sprites[1].Y)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusRunning:  "running",
		StatusGameOver: "game over",
		StatusVictory:  "victory",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(st), got, want)
		}
		if st.Terminal() != (st != StatusRunning) {
			t.Errorf("%v.Terminal() = %v", st, st.Terminal())
		}
	}
}
