package render

import (
	"io"
	"slices"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// Terminal paints a sprite table onto an ANSI terminal, scaled to fit.
type Terminal struct {
	w        io.Writer
	sizeFunc draw.TermSizeFunc
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	maxCols  int
	maxRows  int
	overlay  []string // Overlay drawn last frame; a change forces a full redraw
}

// NewTerminal creates a painter for a fieldWidth x fieldHeight field. The drawing
// area follows the terminal size reported by sizeFunc, capped at maxCols x maxRows.
func NewTerminal(w io.Writer, sizeFunc draw.TermSizeFunc, fieldWidth, fieldHeight float64, maxCols, maxRows int) *Terminal {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}
	t := &Terminal{
		w:        w,
		sizeFunc: sizeFunc,
		maxCols:  maxCols,
		maxRows:  maxRows,
		canvas:   draw.NewScaledCanvas(maxCols, maxRows, fieldWidth, fieldHeight),
		cw:       draw.NewChunkWriter(w, 0, 0),
	}
	t.fit()
	return t
}

// fit resizes the canvas to the terminal. It reports whether the layout changed.
func (t *Terminal) fit() bool {
	termWidth, termHeight, err := t.sizeFunc()
	if err != nil {
		return false
	}
	width, height, offsetCol, offsetRow := draw.FitArea(termWidth, termHeight, t.maxCols, t.maxRows)
	if width == t.canvas.TerminalWidth() && height == t.canvas.TerminalHeight() &&
		offsetCol == t.canvas.OffsetCol() && offsetRow == t.canvas.OffsetRow() {
		return false
	}
	t.canvas.Resize(width, height)
	t.canvas.SetOffset(offsetCol, offsetRow)
	t.cw.SetOffset(offsetCol, offsetRow)
	return true
}

// Draw paints every sprite of the table, then the overlay lines centred on screen.
func (t *Terminal) Draw(table *Table, overlay ...string) error {
	// A resize or an overlay change leaves stale text behind: start from a clean screen.
	if t.fit() || !slices.Equal(overlay, t.overlay) {
		t.cw.WriteString("\033[H\033[2J")
		t.canvas.ForceRedraw()
		t.overlay = slices.Clone(overlay)
	}

	t.canvas.Clear()
	for _, s := range table.Sprites() {
		t.paint(s)
	}

	if err := t.canvas.Render(t.cw); err != nil {
		return err
	}
	if err := t.canvas.RenderBorder(t.cw); err != nil {
		return err
	}

	centerCol := t.canvas.TerminalWidth() / 2
	row := t.canvas.TerminalHeight()/2 - len(overlay)
	for _, line := range overlay {
		t.cw.WriteCentered(centerCol, row, line)
		row += 2
	}

	return t.cw.Flush()
}

// paint draws one sprite as its hitbox: enemies outlined, everything else filled.
func (t *Terminal) paint(s object.Sprite) {
	var r physics.Rect
	switch s.Kind {
	case object.KindPlayer:
		r = physics.BoxAt(s.X, s.Y, object.PlayerWidth, object.PlayerHeight)
	case object.KindEnemy:
		r = physics.BoxAt(s.X, s.Y, object.EnemyWidth, object.EnemyHeight)
		t.canvas.StrokeRect(r.Left, r.Top, r.Right, r.Bottom)
		return
	case object.KindLaser:
		r = physics.BoxAt(s.X, s.Y, object.LaserWidth, object.LaserHeight)
	case object.KindEnemyLaser:
		r = physics.BoxAt(s.X, s.Y, object.EnemyLaserWidth, object.EnemyLaserHeight)
	default:
		return
	}
	t.canvas.FillRect(r.Left, r.Top, r.Right, r.Bottom)
}

// Close clears the screen and shows the cursor again.
func (t *Terminal) Close() {
	draw.ClearScreen(t.w)
	draw.ShowCursor(t.w)
}
