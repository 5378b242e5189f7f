package loop

import (
	"fmt"
	"math"

	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// InvariantViolation describes simulation state that can only come from a bug.
type InvariantViolation struct {
	Entity string // "player", "laser 12", "dt", ...
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s: %s", e.Entity, e.Detail)
}

// violation panics in strict mode; otherwise it logs and lets the caller repair.
func (s *State) violation(entity, detail string) {
	v := &InvariantViolation{Entity: entity, Detail: detail}
	if s.strict {
		panic(v)
	}
	if s.logger != nil {
		s.logger.Warn("invariant violation", "entity", entity, "detail", detail)
	}
}

// checkDelta validates a step delta, returning the delta to use.
func (s *State) checkDelta(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		s.violation("dt", fmt.Sprintf("got %v, want a finite value >= 0", dt))
		return 0
	}
	return dt
}

// checkEntities verifies the collections before a step: no tombstoned entity and
// no non-finite position. Offending entities are dropped in lenient mode.
func (s *State) checkEntities() {
	if !physics.Finite(s.Player.X, s.Player.Y, s.Player.Cooldown) {
		s.violation("player", fmt.Sprintf("non-finite state x=%v y=%v cooldown=%v", s.Player.X, s.Player.Y, s.Player.Cooldown))
		s.Player.X = physics.Clamp(s.Config.FieldWidth/2, s.Config.PlayerHalfWidth, s.Config.FieldWidth-s.Config.PlayerHalfWidth)
		s.Player.Y = s.Config.FieldHeight - s.Config.PlayerBottomOffset
		s.Player.Cooldown = 0
	}

	s.Lasers = s.checkLasers(s.Lasers)
	s.EnemyLasers = s.checkLasers(s.EnemyLasers)

	kept := s.Enemies[:0]
	for _, e := range s.Enemies {
		name := fmt.Sprintf("enemy %d", e.ID)
		switch {
		case e.Dead:
			s.violation(name, "tombstoned enemy survived compaction")
		case !physics.Finite(e.X, e.Y, e.Cooldown):
			s.violation(name, fmt.Sprintf("non-finite state x=%v y=%v cooldown=%v", e.X, e.Y, e.Cooldown))
		default:
			kept = append(kept, e)
			continue
		}
		s.destroyed(e.ID)
	}
	s.Enemies = kept
}

func (s *State) checkLasers(lasers []*object.Laser) []*object.Laser {
	kept := lasers[:0]
	for _, l := range lasers {
		name := fmt.Sprintf("%s %d", l.Kind, l.ID)
		switch {
		case l.Dead:
			s.violation(name, "tombstoned laser survived compaction")
		case !physics.Finite(l.X, l.Y):
			s.violation(name, fmt.Sprintf("non-finite position x=%v y=%v", l.X, l.Y))
		default:
			kept = append(kept, l)
			continue
		}
		s.destroyed(l.ID)
	}
	return kept
}
