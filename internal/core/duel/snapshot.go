package duel

import (
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/palette"
	"github.com/zeusync/duel/internal/core/systems/physics"
)

// Snapshot is a read-only view of the engine after a tick.
type Snapshot struct {
	Tick   uint64     `json:"tick"`
	State  string     `json:"state"`
	Active string     `json:"active"`
	Winner string     `json:"winner,omitempty"`
	Lives  [2]int     `json:"lives"`
	Pawns  []PawnView `json:"pawns"`
	Moving string     `json:"moving,omitempty"`
	Step   int        `json:"step"`
	Steps  int        `json:"steps"`
	Vanish bool       `json:"vanish"`
}

type PawnView struct {
	ID     string        `json:"id"`
	Side   string        `json:"side"`
	X      float32       `json:"x"`
	Y      float32       `json:"y"`
	Radius float32       `json:"radius"`
	Color  palette.Color `json:"color"`
	Dying  bool          `json:"dying,omitempty"`
}

// Snapshot captures the current state. Pawns are listed magenta first, each
// side in placement order.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   e.tick,
		State:  e.state.String(),
		Active: e.active.String(),
		Pawns:  make([]PawnView, 0, e.rosters[arena.Magenta].len()+e.rosters[arena.Cyan].len()),
	}
	if e.state == Over {
		s.Winner = e.winner.String()
	}
	for _, side := range []arena.Side{arena.Magenta, arena.Cyan} {
		s.Lives[side] = e.arena.King(side).Life()
		e.rosters[side].each(func(p *physics.Pawn) {
			s.Pawns = append(s.Pawns, PawnView{
				ID:     p.ID.String(),
				Side:   side.String(),
				X:      p.Center().X,
				Y:      p.Center().Y,
				Radius: p.Shape.Radius,
				Color:  p.Color,
				Dying:  e.dying.contains(p.ID),
			})
		})
	}
	if e.moving != nil {
		s.Moving = e.moving.ID.String()
	}
	if e.shot != nil {
		s.Step = e.shot.Step()
		s.Steps = e.shot.Steps()
		s.Vanish = e.shot.VanishImmediately()
	}
	return s
}
