// Package render keeps a renderer-side view of a session: a table of sprites keyed
// by entity ID, fed by spawn/destroy notifications and per-frame positions.
package render

import (
	"sort"

	"github.com/tomz197/invaders/internal/object"
)

// Table tracks the sprites a renderer is currently showing.
// It implements object.Sink.
type Table struct {
	sprites map[object.ID]object.Sprite
	order   []object.Sprite // Reused by Sprites
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{sprites: make(map[object.ID]object.Sprite)}
}

// Spawned adds a sprite.
func (t *Table) Spawned(s object.Sprite) {
	t.sprites[s.ID] = s
}

// Destroyed removes a sprite. Unknown IDs are ignored.
func (t *Table) Destroyed(id object.ID) {
	delete(t.sprites, id)
}

// Move updates positions of known sprites. Sprites the table never saw spawn are ignored.
func (t *Table) Move(sprites []object.Sprite) {
	for _, s := range sprites {
		if _, ok := t.sprites[s.ID]; ok {
			t.sprites[s.ID] = s
		}
	}
}

// Reset forgets every sprite, e.g. when a new session starts.
func (t *Table) Reset() {
	clear(t.sprites)
}

// Len returns the number of tracked sprites.
func (t *Table) Len() int {
	return len(t.sprites)
}

// Get returns the sprite with the given ID.
func (t *Table) Get(id object.ID) (object.Sprite, bool) {
	s, ok := t.sprites[id]
	return s, ok
}

// Sprites returns all sprites ordered by ID. The slice is reused by the next call.
func (t *Table) Sprites() []object.Sprite {
	t.order = t.order[:0]
	for _, s := range t.sprites {
		t.order = append(t.order, s)
	}
	sort.Slice(t.order, func(i, j int) bool { return t.order[i].ID < t.order[j].ID })
	return t.order
}

// Compile-time check that Table receives simulation notifications.
var _ object.Sink = (*Table)(nil)
