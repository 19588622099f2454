// Package palette holds the RGBA colours pawns, kings and obstacles carry and
// the blend used to fade a dying pawn out.
package palette

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Color is a straight-alpha RGBA colour with components in [0, 1].
type Color struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
	A float32 `json:"a" yaml:"a"`
}

var (
	Black   = Color{0.1, 0.1, 0.1, 1}
	Red     = Color{0.9, 0.1, 0.1, 1}
	Yellow  = Color{0.9, 0.9, 0.1, 1}
	Green   = Color{0.1, 0.9, 0.1, 1}
	Cyan    = Color{0.1, 0.9, 0.9, 1}
	Blue    = Color{0.1, 0.1, 0.9, 1}
	Magenta = Color{0.9, 0.1, 0.9, 1}
	White   = Color{0.9, 0.9, 0.9, 1}
	Gray    = Color{0.5, 0.5, 0.5, 0}
	// Vanish is the target a dying pawn fades toward.
	Vanish = Color{0.1, 0.1, 0.1, 0}
)

// Equal reports whether every component of a and b differs by less than margin.
func Equal(a, b Color, margin float32) bool {
	return math32.Abs(a.R-b.R) < margin &&
		math32.Abs(a.G-b.G) < margin &&
		math32.Abs(a.B-b.B) < margin &&
		math32.Abs(a.A-b.A) < margin
}

// Blend moves c toward target by ratio of the remaining difference.
func (c *Color) Blend(target Color, ratio float32) {
	c.R += (target.R - c.R) * ratio
	c.G += (target.G - c.G) * ratio
	c.B += (target.B - c.B) * ratio
	c.A += (target.A - c.A) * ratio
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}
