package duel

import (
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/systems/physics"
)

// roster holds one side's pawns by handle, in placement order.
type roster struct {
	order []uuid.UUID
	pawns map[uuid.UUID]*physics.Pawn
}

func newRoster() *roster {
	return &roster{pawns: make(map[uuid.UUID]*physics.Pawn)}
}

func (r *roster) add(p *physics.Pawn) {
	r.order = append(r.order, p.ID)
	r.pawns[p.ID] = p
}

func (r *roster) get(id uuid.UUID) *physics.Pawn { return r.pawns[id] }

func (r *roster) remove(id uuid.UUID) bool {
	if _, ok := r.pawns[id]; !ok {
		return false
	}
	delete(r.pawns, id)
	r.order = slices.DeleteFunc(r.order, func(o uuid.UUID) bool { return o == id })
	return true
}

func (r *roster) len() int { return len(r.order) }

// each visits pawns in placement order.
func (r *roster) each(fn func(p *physics.Pawn)) {
	for _, id := range r.order {
		fn(r.pawns[id])
	}
}

// at returns the last placed pawn containing point.
func (r *roster) at(point geometry.Vector) *physics.Pawn {
	for i := len(r.order) - 1; i >= 0; i-- {
		if p := r.pawns[r.order[i]]; p.Contain(point) {
			return p
		}
	}
	return nil
}

func (r *roster) clear() {
	r.order = r.order[:0]
	clear(r.pawns)
}

// dyingSet is the ordered set of pawns fading out.
type dyingSet struct {
	entries []dyingEntry
}

type dyingEntry struct {
	id   uuid.UUID
	side arena.Side
}

// add reports whether id was not already dying.
func (d *dyingSet) add(id uuid.UUID, side arena.Side) bool {
	if d.contains(id) {
		return false
	}
	d.entries = append(d.entries, dyingEntry{id: id, side: side})
	return true
}

func (d *dyingSet) contains(id uuid.UUID) bool {
	return slices.ContainsFunc(d.entries, func(e dyingEntry) bool { return e.id == id })
}

func (d *dyingSet) remove(id uuid.UUID) {
	d.entries = slices.DeleteFunc(d.entries, func(e dyingEntry) bool { return e.id == id })
}

func (d *dyingSet) len() int { return len(d.entries) }

func (d *dyingSet) clear() { d.entries = d.entries[:0] }
