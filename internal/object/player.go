package object

import "github.com/tomz197/invaders/internal/physics"

// Player is the ship at the bottom of the field.
type Player struct {
	ID       ID
	X, Y     float64
	Cooldown float64 // Seconds until the next shot is allowed; may be negative
	Dead     bool
}

// Move applies horizontal movement for the held directions and clamps X to [minX, maxX].
// Both directions held apply together and cancel out.
func (p *Player) Move(dt, speed float64, left, right bool, minX, maxX float64) {
	if left {
		p.X -= dt * speed
	}
	if right {
		p.X += dt * speed
	}
	p.X = physics.Clamp(p.X, minX, maxX)
}

// TryFire reports whether a shot is allowed now and, if so, restarts the cooldown.
func (p *Player) TryFire(cooldown float64) bool {
	if p.Cooldown > 0 {
		return false
	}
	p.Cooldown = cooldown
	return true
}

// Bounds returns the player's hitbox.
func (p *Player) Bounds() physics.Rect {
	return physics.BoxAt(p.X, p.Y, PlayerWidth, PlayerHeight)
}

// MarkDestroyed marks the player as hit.
func (p *Player) MarkDestroyed() {
	p.Dead = true
}

// IsDestroyed returns true once the player has been hit.
func (p *Player) IsDestroyed() bool {
	return p.Dead
}

// Sprite returns the player's render view.
func (p *Player) Sprite() Sprite {
	return Sprite{ID: p.ID, Kind: KindPlayer, X: p.X, Y: p.Y}
}
