package loop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// Status is the outcome of a simulation step.
type Status int

const (
	StatusRunning  Status = iota // Keep scheduling steps
	StatusGameOver               // Player was hit
	StatusVictory                // Every enemy is gone
)

// Terminal reports whether the session has ended.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game over"
	case StatusVictory:
		return "victory"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Config is the layout and tuning of one session.
type Config struct {
	FieldWidth, FieldHeight float64

	PlayerHalfWidth    float64
	PlayerBottomOffset float64
	PlayerMaxSpeed     float64
	LaserMaxSpeed      float64
	LaserCooldown      float64

	Rows                    int
	PerRow                  int
	HorizontalPadding       float64
	VerticalPadding         float64
	VerticalSpacing         float64
	EnemyCooldown           float64
	EnemyInitialCooldownMin float64
}

// DefaultConfig returns the standard game layout.
func DefaultConfig() Config {
	return Config{
		FieldWidth:              config.FieldWidth,
		FieldHeight:             config.FieldHeight,
		PlayerHalfWidth:         config.PlayerHalfWidth,
		PlayerBottomOffset:      config.PlayerBottomOffset,
		PlayerMaxSpeed:          config.PlayerMaxSpeed,
		LaserMaxSpeed:           config.LaserMaxSpeed,
		LaserCooldown:           config.LaserCooldown,
		Rows:                    config.EnemyRows,
		PerRow:                  config.EnemiesPerRow,
		HorizontalPadding:       config.EnemyHorizontalPadding,
		VerticalPadding:         config.EnemyVerticalPadding,
		VerticalSpacing:         config.EnemyVerticalSpacing,
		EnemyCooldown:           config.EnemyCooldown,
		EnemyInitialCooldownMin: config.EnemyInitialCooldownMin,
	}
}

// ConfigurationError reports an unusable session layout.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Validate checks that a session can be laid out with this configuration.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"FieldWidth", c.FieldWidth},
		{"FieldHeight", c.FieldHeight},
		{"PlayerMaxSpeed", c.PlayerMaxSpeed},
		{"LaserMaxSpeed", c.LaserMaxSpeed},
		{"LaserCooldown", c.LaserCooldown},
		{"EnemyCooldown", c.EnemyCooldown},
	}
	for _, p := range positive {
		if !physics.Finite(p.value) || p.value <= 0 {
			return &ConfigurationError{Field: p.name, Reason: fmt.Sprintf("must be a positive number, got %v", p.value)}
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"PlayerHalfWidth", c.PlayerHalfWidth},
		{"PlayerBottomOffset", c.PlayerBottomOffset},
		{"HorizontalPadding", c.HorizontalPadding},
		{"VerticalPadding", c.VerticalPadding},
		{"VerticalSpacing", c.VerticalSpacing},
		{"EnemyInitialCooldownMin", c.EnemyInitialCooldownMin},
	}
	for _, p := range nonNegative {
		if !physics.Finite(p.value) || p.value < 0 {
			return &ConfigurationError{Field: p.name, Reason: fmt.Sprintf("must be zero or positive, got %v", p.value)}
		}
	}

	switch {
	case c.PerRow < 2:
		return &ConfigurationError{Field: "PerRow", Reason: fmt.Sprintf("must be at least 2, got %d", c.PerRow)}
	case c.Rows < 1:
		return &ConfigurationError{Field: "Rows", Reason: fmt.Sprintf("must be at least 1, got %d", c.Rows)}
	case 2*c.HorizontalPadding >= c.FieldWidth:
		return &ConfigurationError{Field: "HorizontalPadding", Reason: "leaves no room for enemies"}
	case 2*c.PlayerHalfWidth >= c.FieldWidth:
		return &ConfigurationError{Field: "PlayerHalfWidth", Reason: "leaves no room to move"}
	case c.PlayerBottomOffset > c.FieldHeight:
		return &ConfigurationError{Field: "PlayerBottomOffset", Reason: "places the player above the field"}
	case c.EnemyInitialCooldownMin >= c.EnemyCooldown:
		return &ConfigurationError{Field: "EnemyInitialCooldownMin", Reason: "must be below EnemyCooldown"}
	}
	return nil
}

// enemySpacing is the horizontal distance between neighbouring enemies of a row.
func (c Config) enemySpacing() float64 {
	return (c.FieldWidth - c.HorizontalPadding*2) / float64(c.PerRow-1)
}

// State is the authoritative state of one game session.
// It is owned by a single goroutine; nothing in it is safe for concurrent use.
type State struct {
	Config Config

	Started  time.Time // Session start, origin of the enemy drift
	LastTime time.Time // Time of the last processed step

	LeftPressed  bool
	RightPressed bool
	FirePressed  bool

	Player      object.Player
	Lasers      []*object.Laser
	Enemies     []*object.Enemy
	EnemyLasers []*object.Laser

	// Shared display offset of every enemy, recomputed each step.
	DriftX, DriftY float64

	GameOver bool
	Victory  bool

	ids    object.IDSource
	rng    *rand.Rand
	sink   object.Sink
	logger *log.Logger
	strict bool
}

// Option customizes a new session.
type Option func(*State)

// WithRand sets the random source for enemy cooldowns.
func WithRand(rng *rand.Rand) Option {
	return func(s *State) { s.rng = rng }
}

// WithSink sets the receiver of spawn and destroy notifications.
func WithSink(sink object.Sink) Option {
	return func(s *State) { s.sink = sink }
}

// WithLogger sets the logger used to report invariant violations.
func WithLogger(logger *log.Logger) Option {
	return func(s *State) { s.logger = logger }
}

// WithClock sets the session start time.
func WithClock(start time.Time) Option {
	return func(s *State) {
		s.Started = start
		s.LastTime = start
	}
}

// WithStrictInvariants makes invariant violations panic instead of being logged and repaired.
func WithStrictInvariants(strict bool) Option {
	return func(s *State) { s.strict = strict }
}

// NewSession lays out a fresh session: the player centred near the bottom and a
// grid of enemies, each with a random initial fire cooldown.
func NewSession(cfg Config, opts ...Option) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	s := &State{
		Config:   cfg,
		Started:  now,
		LastTime: now,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(now.UnixNano()))
	}

	s.Player = object.Player{
		ID: s.ids.Next(),
		X:  cfg.FieldWidth / 2,
		Y:  cfg.FieldHeight - cfg.PlayerBottomOffset,
	}
	s.spawned(s.Player.Sprite())

	spacing := cfg.enemySpacing()
	s.Enemies = make([]*object.Enemy, 0, cfg.Rows*cfg.PerRow)
	for row := 0; row < cfg.Rows; row++ {
		y := cfg.VerticalPadding + float64(row)*cfg.VerticalSpacing
		for col := 0; col < cfg.PerRow; col++ {
			x := float64(col)*spacing + cfg.HorizontalPadding
			cooldown := physics.RandRange(s.rng, cfg.EnemyInitialCooldownMin, cfg.EnemyCooldown)
			e := object.NewEnemy(s.ids.Next(), x, y, cooldown)
			s.Enemies = append(s.Enemies, e)
			s.spawned(e.Sprite(0, 0))
		}
	}

	return s, nil
}

// Status returns the session's current terminal state, if any.
func (s *State) Status() Status {
	switch {
	case s.GameOver:
		return StatusGameOver
	case s.Victory:
		return StatusVictory
	default:
		return StatusRunning
	}
}

// Sprites appends the render view of every live entity to buf and returns it.
func (s *State) Sprites(buf []object.Sprite) []object.Sprite {
	if !s.Player.Dead {
		buf = append(buf, s.Player.Sprite())
	}
	for _, l := range s.Lasers {
		buf = append(buf, l.Sprite())
	}
	for _, e := range s.Enemies {
		buf = append(buf, e.Sprite(s.DriftX, s.DriftY))
	}
	for _, l := range s.EnemyLasers {
		buf = append(buf, l.Sprite())
	}
	return buf
}

// spawned notifies the sink of a new entity.
func (s *State) spawned(sp object.Sprite) {
	if s.sink != nil {
		s.sink.Spawned(sp)
	}
}

// destroyed notifies the sink that an entity is gone.
func (s *State) destroyed(id object.ID) {
	if s.sink != nil {
		s.sink.Destroyed(id)
	}
}
