package loop

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// laserHitsEnemy returns the first live enemy, in grid order, whose box overlaps
// the laser at the current drift offset. A laser destroys at most one enemy.
func (s *State) laserHitsEnemy(l *object.Laser) *object.Enemy {
	box := l.Bounds()
	for _, e := range s.Enemies {
		if e.IsDestroyed() {
			continue
		}
		if physics.Intersects(box, e.Bounds(s.DriftX, s.DriftY)) {
			return e
		}
	}
	return nil
}

// laserHitsPlayer reports whether an enemy laser overlaps the live player.
func (s *State) laserHitsPlayer(l *object.Laser) bool {
	if s.Player.IsDestroyed() {
		return false
	}
	return physics.Intersects(l.Bounds(), s.Player.Bounds())
}
