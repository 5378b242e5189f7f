package loop

import (
	"math"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Step advances the session by dt seconds. It must not be called concurrently
// or re-entered. Phases run in a fixed order: later phases see the entity
// sets already compacted by earlier ones.
//
// Once the session is terminal, Step only reports the terminal status.
func (s *State) Step(dt float64) Status {
	if s.GameOver {
		return StatusGameOver
	}
	if len(s.Enemies) == 0 {
		s.Victory = true
		return StatusVictory
	}

	dt = s.checkDelta(dt)
	s.checkEntities()

	s.updatePlayer(dt)
	s.updateLasers(dt)
	s.updateEnemies(dt)
	s.updateEnemyLasers(dt)

	if s.GameOver {
		return StatusGameOver
	}
	s.LastTime = s.LastTime.Add(time.Duration(dt * float64(time.Second)))
	return StatusRunning
}

// updatePlayer moves the player and fires when allowed.
func (s *State) updatePlayer(dt float64) {
	cfg := s.Config
	p := &s.Player
	p.Move(dt, cfg.PlayerMaxSpeed, s.LeftPressed, s.RightPressed,
		cfg.PlayerHalfWidth, cfg.FieldWidth-cfg.PlayerHalfWidth)

	if s.FirePressed && p.TryFire(cfg.LaserCooldown) {
		l := object.NewLaser(s.ids.Next(), p.X, p.Y)
		s.Lasers = append(s.Lasers, l)
		s.spawned(l.Sprite())
	}
	p.Cooldown -= dt
}

// updateLasers moves player lasers up and resolves hits on enemies.
func (s *State) updateLasers(dt float64) {
	for _, l := range s.Lasers {
		l.Advance(dt, s.Config.LaserMaxSpeed)
		if l.OutOfField(s.Config.FieldHeight) {
			l.MarkDestroyed()
			continue
		}
		if e := s.laserHitsEnemy(l); e != nil {
			e.MarkDestroyed()
			l.MarkDestroyed()
		}
	}
	s.Lasers = s.compactLasers(s.Lasers)
	s.compactEnemies()
}

// updateEnemies recomputes the shared drift and lets each enemy fire.
func (s *State) updateEnemies(dt float64) {
	s.DriftX, s.DriftY = Drift(s.LastTime.Sub(s.Started))

	for _, e := range s.Enemies {
		if !e.Tick(dt, s.Config.EnemyCooldown) {
			continue
		}
		x, y := e.Position(s.DriftX, s.DriftY)
		l := object.NewEnemyLaser(s.ids.Next(), x, y)
		s.EnemyLasers = append(s.EnemyLasers, l)
		s.spawned(l.Sprite())
	}
}

// updateEnemyLasers moves enemy lasers down and resolves a hit on the player.
// Processing stops at the first hit.
func (s *State) updateEnemyLasers(dt float64) {
	for _, l := range s.EnemyLasers {
		l.Advance(dt, s.Config.LaserMaxSpeed)
		if l.OutOfField(s.Config.FieldHeight) {
			l.MarkDestroyed()
			continue
		}
		if s.laserHitsPlayer(l) {
			s.killPlayer()
			break
		}
	}
	s.EnemyLasers = s.compactLasers(s.EnemyLasers)
}

// killPlayer tombstones the player and ends the session.
func (s *State) killPlayer() {
	s.Player.MarkDestroyed()
	s.GameOver = true
	s.destroyed(s.Player.ID)
}

// Drift returns the display offset shared by all enemies after elapsed session time.
func Drift(elapsed time.Duration) (dx, dy float64) {
	t := elapsed.Seconds()
	return math.Sin(t) * config.EnemyDriftX, math.Cos(t) * config.EnemyDriftY
}

// compactLasers removes tombstoned lasers in place.
func (s *State) compactLasers(lasers []*object.Laser) []*object.Laser {
	kept := lasers[:0] // reuse backing array
	for _, l := range lasers {
		if l.IsDestroyed() {
			s.destroyed(l.ID)
			continue
		}
		kept = append(kept, l)
	}
	clear(lasers[len(kept):])
	return kept
}

// compactEnemies removes tombstoned enemies in place.
func (s *State) compactEnemies() {
	kept := s.Enemies[:0]
	for _, e := range s.Enemies {
		if e.IsDestroyed() {
			s.destroyed(e.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(s.Enemies[len(kept):])
	s.Enemies = kept
}
