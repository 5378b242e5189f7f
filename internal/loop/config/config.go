// Package config centralizes all tunable game parameters.
package config

import "time"

// Field dimensions in logical units.
const (
	FieldWidth  = 1200
	FieldHeight = 560
)

// Player
const (
	PlayerHalfWidth    = 10.0  // X is clamped to [PlayerHalfWidth, FieldWidth-PlayerHalfWidth]
	PlayerBottomOffset = 50.0  // Distance from the bottom edge to the player's Y
	PlayerMaxSpeed     = 700.0 // Units per second
	LaserMaxSpeed      = 400.0 // Units per second, both directions
	LaserCooldown      = 0.4   // Seconds between player shots
)

// Enemy grid
const (
	EnemyRows               = 3
	EnemiesPerRow           = 8
	EnemyHorizontalPadding  = 80.0
	EnemyVerticalPadding    = 70.0
	EnemyVerticalSpacing    = 80.0
	EnemyCooldown           = 4.0 // Seconds between enemy shots
	EnemyInitialCooldownMin = 0.5 // Initial cooldown is drawn from [min, EnemyCooldown)
)

// Enemy drift: every enemy is offset by (sin(t)*X, cos(t)*Y), t in seconds.
const (
	EnemyDriftX = 40.0
	EnemyDriftY = 20.0
)

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal rendering: the visible canvas never exceeds this many cells.
const (
	MaxRenderCols = 160
	MaxRenderRows = 50
)
