package object

import "github.com/tomz197/invaders/internal/physics"

// Enemy is one ship of the grid. X and Y are its base position; the shared
// drift offset is added only when drawing, firing and hit testing.
type Enemy struct {
	ID       ID
	X, Y     float64
	Cooldown float64 // Seconds until this enemy fires
	Dead     bool
}

// NewEnemy creates an enemy at its base position with an initial fire cooldown.
func NewEnemy(id ID, x, y, cooldown float64) *Enemy {
	return &Enemy{ID: id, X: x, Y: y, Cooldown: cooldown}
}

// Tick counts the fire cooldown down and reports whether the enemy fires this frame.
// Firing restarts the cooldown at reset.
func (e *Enemy) Tick(dt, reset float64) bool {
	e.Cooldown -= dt
	if e.Cooldown <= 0 {
		e.Cooldown = reset
		return true
	}
	return false
}

// Position returns the display position for the given drift offset.
func (e *Enemy) Position(dx, dy float64) (x, y float64) {
	return e.X + dx, e.Y + dy
}

// Bounds returns the enemy's hitbox at the given drift offset.
func (e *Enemy) Bounds(dx, dy float64) physics.Rect {
	x, y := e.Position(dx, dy)
	return physics.BoxAt(x, y, EnemyWidth, EnemyHeight)
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.Dead = true
}

// IsDestroyed returns true if the enemy is marked for removal.
func (e *Enemy) IsDestroyed() bool {
	return e.Dead
}

// Sprite returns the enemy's render view at the given drift offset.
func (e *Enemy) Sprite(dx, dy float64) Sprite {
	x, y := e.Position(dx, dy)
	return Sprite{ID: e.ID, Kind: KindEnemy, X: x, Y: y}
}

// Compile-time checks that entities can be tombstoned.
var (
	_ Destructible = (*Player)(nil)
	_ Destructible = (*Laser)(nil)
	_ Destructible = (*Enemy)(nil)
)
