// Package object defines the simulation entities of a session.
// Entities are plain data: rendering code tracks them by ID through a Sink.
package object

// ID identifies an entity within a session. IDs are never reused.
type ID uint64

// Kind identifies what an entity is, for renderers and hit tests.
type Kind uint8

const (
	KindPlayer     Kind = iota // The player's ship
	KindLaser                  // Player projectile travelling up
	KindEnemy                  // Enemy in the grid
	KindEnemyLaser             // Enemy projectile travelling down
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindLaser:
		return "laser"
	case KindEnemy:
		return "enemy"
	case KindEnemyLaser:
		return "enemy-laser"
	default:
		return "unknown"
	}
}

// Sprite is the renderer's view of a live entity: what it is and where to draw it.
type Sprite struct {
	ID   ID
	Kind Kind
	X, Y float64
}

// Sink receives entity lifecycle notifications from the simulation.
type Sink interface {
	// Spawned is called once when an entity is created.
	Spawned(s Sprite)
	// Destroyed is called once when an entity is removed from the session.
	Destroyed(id ID)
}

// Destructible is implemented by entities that are tombstoned before removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the current phase.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
}

// Hitbox sizes in field units. Boxes are centred horizontally on the entity's X
// and extend downward from its Y.
const (
	PlayerWidth      = 20.0
	PlayerHeight     = 20.0
	LaserWidth       = 4.0
	LaserHeight      = 16.0
	EnemyWidth       = 40.0
	EnemyHeight      = 30.0
	EnemyLaserWidth  = 4.0
	EnemyLaserHeight = 16.0
)

// IDSource hands out increasing entity IDs for one session.
type IDSource struct {
	last ID
}

// Next returns a fresh ID. The first ID is 1 so the zero ID means "none".
func (s *IDSource) Next() ID {
	s.last++
	return s.last
}
