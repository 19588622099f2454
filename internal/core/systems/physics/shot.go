// Package physics holds the motion state of a launched pawn.
//
// A Shot is created when a pawn is released and owns the per-step
// translation, the step counter and the vanish-immediately flag. Exactly one
// Shot is in flight per engine; separate engines never share one.
package physics

import (
	"github.com/zeusync/duel/internal/core/geometry"
)

// Shot is the per-launch motion state.
type Shot struct {
	translation geometry.Vector
	spawn       geometry.Vector
	step        int
	steps       int
	vanish      bool
}

// NewShot prepares a launch from origin toward destination. The pawn advances
// (destination-origin)/unitLength per step, for steps steps.
func NewShot(origin, destination geometry.Vector, unitLength float32, steps int) *Shot {
	return &Shot{
		translation: destination.Sub(origin).Div(unitLength),
		spawn:       origin,
		steps:       steps,
	}
}

// Translation is the displacement applied by every step.
func (s *Shot) Translation() geometry.Vector { return s.translation }

// Spawn is where the pawn was released.
func (s *Shot) Spawn() geometry.Vector { return s.spawn }

func (s *Shot) Step() int  { return s.step }
func (s *Shot) Steps() int { return s.steps }

// Stop exhausts the step budget; further Move calls are no-ops.
func (s *Shot) Stop() {
	s.step = s.steps
}

// Finished reports whether the step budget is exhausted.
func (s *Shot) Finished() bool {
	return s.step >= s.steps
}

// MarkVanish flags the moving pawn for removal once it finishes moving.
func (s *Shot) MarkVanish() {
	s.vanish = true
}

// VanishImmediately reports whether the moving pawn is doomed.
func (s *Shot) VanishImmediately() bool {
	return s.vanish
}

// Advance consumes one step and returns the translation to apply, or false
// when the budget is already spent.
func (s *Shot) Advance() (geometry.Vector, bool) {
	if s.Finished() {
		return geometry.Vector{}, false
	}
	s.step++
	return s.translation, true
}
