package duel

import (
	"github.com/zeusync/duel/internal/core/geometry"
)

const sqrt3 = 1.73205080756887729352

// Aim is the launch preview: the centre a pawn is released from, where it is
// headed and the arrowhead drawn in front of the centre.
type Aim struct {
	Center      geometry.Vector
	Destination geometry.Vector
	Sign        geometry.Triangle

	aimed bool
}

// Aimed reports whether a direction has been set since the centre was chosen.
func (a *Aim) Aimed() bool { return a.aimed }

// center moves the aim and forgets the previous direction.
func (a *Aim) center(p geometry.Vector) {
	a.Center = p
	a.aimed = false
}

// update points the shot away from cursor: the pawn travels reach away from
// the centre on the opposite side, like pulling back a sling.
func (a *Aim) update(cursor geometry.Vector, reach, unit float32) error {
	pull := cursor.Sub(a.Center)
	if pull.Magsq() == 0 {
		return ErrZeroAim
	}
	dir := pull.Unit()

	a.Destination = a.Center.Sub(dir.Mul(reach))

	tip := a.Center.Add(dir.Mul(unit))
	base := tip.Add(dir.Mul(unit))
	wing := dir.Mul(unit / sqrt3)
	a.Sign = geometry.Triangle{
		A: tip,
		B: base.Add(geometry.RotateCCW.Apply(wing)),
		C: base.Add(geometry.RotateCW.Apply(wing)),
	}
	a.aimed = true
	return nil
}

func (a *Aim) reset() { *a = Aim{} }
