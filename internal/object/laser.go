package object

import "github.com/tomz197/invaders/internal/physics"

// Laser is a projectile. Player lasers travel up, enemy lasers travel down.
type Laser struct {
	ID   ID
	Kind Kind // KindLaser or KindEnemyLaser
	X, Y float64
	Dead bool
}

// NewLaser creates a player laser at (x, y).
func NewLaser(id ID, x, y float64) *Laser {
	return &Laser{ID: id, Kind: KindLaser, X: x, Y: y}
}

// NewEnemyLaser creates an enemy laser at (x, y).
func NewEnemyLaser(id ID, x, y float64) *Laser {
	return &Laser{ID: id, Kind: KindEnemyLaser, X: x, Y: y}
}

// Advance moves the laser along its travel direction.
func (l *Laser) Advance(dt, speed float64) {
	if l.Kind == KindEnemyLaser {
		l.Y += dt * speed
		return
	}
	l.Y -= dt * speed
}

// OutOfField reports whether the laser has left a field of the given height.
func (l *Laser) OutOfField(height float64) bool {
	if l.Kind == KindEnemyLaser {
		return l.Y > height
	}
	return l.Y < 0
}

// Bounds returns the laser's hitbox.
func (l *Laser) Bounds() physics.Rect {
	if l.Kind == KindEnemyLaser {
		return physics.BoxAt(l.X, l.Y, EnemyLaserWidth, EnemyLaserHeight)
	}
	return physics.BoxAt(l.X, l.Y, LaserWidth, LaserHeight)
}

// MarkDestroyed marks the laser for removal.
func (l *Laser) MarkDestroyed() {
	l.Dead = true
}

// IsDestroyed returns true if the laser is marked for removal.
func (l *Laser) IsDestroyed() bool {
	return l.Dead
}

// Sprite returns the laser's render view.
func (l *Laser) Sprite() Sprite {
	return Sprite{ID: l.ID, Kind: l.Kind, X: l.X, Y: l.Y}
}
