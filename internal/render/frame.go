package render

import "github.com/tomz197/invaders/internal/object"

// SpriteDTO is the wire form of a sprite.
type SpriteDTO struct {
	ID   uint64  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Frame is one rendered frame for remote clients.
type Frame struct {
	Type     string      `json:"type"` // "frame"
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Sprites  []SpriteDTO `json:"sprites"`
	GameOver bool        `json:"gameOver"`
	Victory  bool        `json:"victory"`
}

// BuildFrame converts the table contents into a wire frame.
func BuildFrame(t *Table, width, height float64, gameOver, victory bool) Frame {
	sprites := t.Sprites()
	f := Frame{
		Type:     "frame",
		Width:    width,
		Height:   height,
		Sprites:  make([]SpriteDTO, 0, len(sprites)),
		GameOver: gameOver,
		Victory:  victory,
	}
	for _, s := range sprites {
		f.Sprites = append(f.Sprites, toDTO(s))
	}
	return f
}

func toDTO(s object.Sprite) SpriteDTO {
	return SpriteDTO{ID: uint64(s.ID), Kind: s.Kind.String(), X: s.X, Y: s.Y}
}
