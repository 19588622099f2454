package physics

import (
	"github.com/google/uuid"

	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/palette"
)

// Pawn is a circular projectile. Its ID is a stable handle that survives
// reordering of whatever collection holds it.
type Pawn struct {
	ID    uuid.UUID
	Shape geometry.Circle
	Color palette.Color
}

// NewPawn places a pawn with a fresh handle.
func NewPawn(center geometry.Vector, radius float32, color palette.Color) *Pawn {
	return &Pawn{
		ID:    uuid.New(),
		Shape: geometry.Disc(center, radius),
		Color: color,
	}
}

func (p *Pawn) Center() geometry.Vector { return p.Shape.Center }

// Contain reports whether point lies on or inside the pawn.
func (p *Pawn) Contain(point geometry.Vector) bool {
	return p.Shape.Contain(point)
}

// Move advances the pawn by one step of shot. It returns false once the
// shot's budget is spent.
func (p *Pawn) Move(shot *Shot) bool {
	d, ok := shot.Advance()
	if !ok {
		return false
	}
	p.Shape.Translate(d)
	return true
}

// Retreat undoes fraction of the last step.
func (p *Pawn) Retreat(shot *Shot, fraction float32) {
	p.Shape.Translate(shot.Translation().Mul(-fraction))
}

// LastTranslation is the segment the centre covered during the last step.
func (p *Pawn) LastTranslation(shot *Shot) geometry.Line {
	return geometry.Seg(p.Shape.Center.Sub(shot.Translation()), p.Shape.Center)
}

// Fade blends the colour toward target.
func (p *Pawn) Fade(target palette.Color, ratio float32) {
	p.Color.Blend(target, ratio)
}

// Faded reports whether the colour is within tolerance of target.
func (p *Pawn) Faded(target palette.Color, tolerance float32) bool {
	return palette.Equal(p.Color, target, tolerance)
}
