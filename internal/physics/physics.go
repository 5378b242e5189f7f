// Package physics provides clamping, random ranges and box collision utilities.
package physics

import (
	"math"
	"math/rand"
)

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// RandRange returns a uniformly distributed value in [min, max).
// A nil source falls back to the global math/rand source.
func RandRange(rng *rand.Rand, min, max float64) float64 {
	if rng == nil {
		return min + rand.Float64()*(max-min)
	}
	return min + rng.Float64()*(max-min)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Rect is an axis-aligned box in field coordinates (Y grows downward).
type Rect struct {
	Left, Top, Right, Bottom float64
}

// BoxAt returns the box of a sprite anchored at (x, y): centred horizontally
// on x, extending height units down from y.
func BoxAt(x, y, width, height float64) Rect {
	half := width / 2
	return Rect{
		Left:   x - half,
		Top:    y,
		Right:  x + half,
		Bottom: y + height,
	}
}

// Intersects reports whether two boxes overlap.
// Boxes that only share an edge do not intersect.
func Intersects(a, b Rect) bool {
	return !(b.Left >= a.Right ||
		b.Right <= a.Left ||
		b.Top >= a.Bottom ||
		b.Bottom <= a.Top)
}
