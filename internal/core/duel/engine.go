// Package duel runs the turn-based duel: it owns the pawns of both sides,
// launches one shot at a time and resolves every step of that shot against
// the arena.
//
// An engine is single-threaded. Callers that drive it from several
// goroutines must serialise access themselves.
package duel

import (
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/collision"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/observability/log"
	"github.com/zeusync/duel/internal/core/palette"
	"github.com/zeusync/duel/internal/core/systems/physics"
)

// State is the turn phase.
type State uint8

const (
	// Choose waits for the active side to pick a launch centre.
	Choose State = iota
	// Aiming has a centre and waits for a direction and the release.
	Aiming
	// Shooting has a pawn in flight; Tick advances it.
	Shooting
	// Over has a winner; only Reset leaves it.
	Over
)

func (s State) String() string {
	switch s {
	case Choose:
		return "choose"
	case Aiming:
		return "aim"
	case Shooting:
		return "shoot"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

type Option func(*Engine)

func WithLogger(l log.Log) Option {
	return func(e *Engine) { e.log = l }
}

func WithBus(b bus.EventBus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithName sets the source recorded on published events.
func WithName(name string) Option {
	return func(e *Engine) { e.name = name }
}

type Engine struct {
	params config.Params
	arena  *arena.Arena
	log    log.Log
	bus    bus.EventBus
	name   string

	state   State
	active  arena.Side
	winner  arena.Side
	rosters [2]*roster
	dying   dyingSet
	aim     Aim
	tick    uint64

	shot   *physics.Shot
	moving *physics.Pawn
}

// New starts a match on a with magenta to play.
func New(p config.Params, a *arena.Arena, opts ...Option) *Engine {
	e := &Engine{
		params:  p,
		arena:   a,
		name:    "duel",
		state:   Choose,
		active:  arena.Magenta,
		rosters: [2]*roster{newRoster(), newRoster()},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = log.Nop()
	}
	e.log = e.log.With(log.String("component", "duel"))
	if e.bus != nil {
		if err := e.bus.CreateTopic(Topic, bus.TopicConfig{Description: TopicDescription}); err != nil {
			e.log.Warn("Failed to declare event topic", log.String("topic", Topic), log.Error(err))
		}
	}
	return e
}

func (e *Engine) State() State                  { return e.state }
func (e *Engine) Active() arena.Side            { return e.active }
func (e *Engine) Arena() *arena.Arena           { return e.arena }
func (e *Engine) Aim() Aim                      { return e.aim }
func (e *Engine) Ticks() uint64                 { return e.tick }
func (e *Engine) Pawns(side arena.Side) int     { return e.rosters[side].len() }
func (e *Engine) Dying() int                    { return e.dying.len() }
func (e *Engine) Busy() bool                    { return e.state == Shooting }
func (e *Engine) Shot() *physics.Shot           { return e.shot }
func (e *Engine) Params() config.Params         { return e.params }
func (e *Engine) Moving() *physics.Pawn         { return e.moving }
func (e *Engine) King(s arena.Side) *arena.King { return e.arena.King(s) }

// Winner is meaningful only in the Over state.
func (e *Engine) Winner() (arena.Side, bool) {
	return e.winner, e.state == Over
}

// Pawn looks a pawn up by handle on either side.
func (e *Engine) Pawn(id uuid.UUID) (*physics.Pawn, arena.Side, bool) {
	for _, side := range []arena.Side{arena.Magenta, arena.Cyan} {
		if p := e.rosters[side].get(id); p != nil {
			return p, side, true
		}
	}
	return nil, 0, false
}

func (e *Engine) ready() error {
	switch e.state {
	case Shooting:
		return ErrShotInFlight
	case Over:
		return ErrGameOver
	default:
		return nil
	}
}

// origin finds the launch centre under point: the active king first, then
// the active side's pawns.
func (e *Engine) origin(point geometry.Vector) (geometry.Vector, bool) {
	if king := e.arena.King(e.active); king.Contain(point) {
		return king.Center(), true
	}
	if p := e.rosters[e.active].at(point); p != nil {
		return p.Center(), true
	}
	return geometry.Vector{}, false
}

// SelectOrigin picks the launch centre under point.
func (e *Engine) SelectOrigin(point geometry.Vector) error {
	if err := e.ready(); err != nil {
		return err
	}
	center, ok := e.origin(point)
	if !ok {
		return ErrNoOrigin
	}
	e.aim.center(center)
	e.state = Aiming
	return nil
}

// AimAt points the shot away from cursor. A cursor over another valid
// origin moves the centre there first.
func (e *Engine) AimAt(cursor geometry.Vector) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.state != Aiming {
		return ErrNoOrigin
	}
	if center, ok := e.origin(cursor); ok {
		e.aim.center(center)
	}
	return e.aim.update(cursor, e.params.ReachRadius, e.params.UnitLength)
}

// Shoot releases a pawn of the active side from the aim centre and returns
// its handle.
func (e *Engine) Shoot() (uuid.UUID, error) {
	if err := e.ready(); err != nil {
		return uuid.Nil, err
	}
	if e.state != Aiming {
		return uuid.Nil, ErrNoOrigin
	}
	if !e.aim.Aimed() {
		return uuid.Nil, ErrNotAimed
	}

	p := physics.NewPawn(e.aim.Center, e.params.PawnRadius(), e.active.Color())
	e.rosters[e.active].add(p)
	e.moving = p
	e.shot = physics.NewShot(e.aim.Center, e.aim.Destination, e.params.UnitLength, e.params.TranslationSteps)
	e.state = Shooting

	e.log.Debug("Shot fired",
		log.String("side", e.active.String()),
		log.String("pawn", p.ID.String()),
		log.Float32("dx", e.shot.Translation().X),
		log.Float32("dy", e.shot.Translation().Y),
	)
	e.publish(EventShotFired, ShotFired{
		Pawn:        p.ID,
		Side:        e.active,
		Origin:      e.aim.Center,
		Destination: e.aim.Destination,
	})
	e.aim.reset()
	return p.ID, nil
}

// Fire selects origin, aims away from cursor and shoots in one call.
func (e *Engine) Fire(origin, cursor geometry.Vector) (uuid.UUID, error) {
	if err := e.SelectOrigin(origin); err != nil {
		return uuid.Nil, err
	}
	if err := e.AimAt(cursor); err != nil {
		return uuid.Nil, err
	}
	return e.Shoot()
}

// Tick advances the shot in flight by one step and cleans up after it. It
// does nothing outside the Shooting state.
func (e *Engine) Tick() {
	if e.state != Shooting {
		return
	}
	e.tick++
	e.step()
	e.clean()
}

// step moves the pawn one increment and resolves it against, in order: the
// opposing pawns, the own throne, the opposing king, then the arena
// obstacles. The first blocking response ends the step's motion; later
// blocking or destroying hits in the same step are ignored.
func (e *Engine) step() {
	p := e.moving
	if p == nil || !p.Move(e.shot) {
		return
	}

	e.killPassive(p)
	blocked := e.stopAtOwnThrone(p)
	e.hurtPassiveKing(p)

	for _, o := range e.arena.Obstacles() {
		t := o.Sweep(p.Shape, p.LastTranslation(e.shot))
		if !collision.Hit(t) {
			continue
		}

		switch o.Response() {
		case arena.Block:
			if blocked {
				continue
			}
			e.retreat(p, t)
			blocked = true
		case arena.Destroy:
			if blocked || e.shot.VanishImmediately() {
				continue
			}
			e.retreat(p, t)
			blocked = true
			e.markDying(p.ID, e.active, o.Kind())
		case arena.Vanish:
			e.shot.MarkVanish()
		}
	}
}

func (e *Engine) retreat(p *physics.Pawn, t float32) {
	p.Retreat(e.shot, 1-t)
	e.shot.Stop()
}

func (e *Engine) killPassive(p *physics.Pawn) {
	passive := e.active.Other()
	last := p.LastTranslation(e.shot)
	e.rosters[passive].each(func(other *physics.Pawn) {
		if collision.Hit(collision.CircleVsCircle(p.Shape, other.Shape, last)) {
			e.markDying(other.ID, passive, "pawn")
		}
	})
}

// stopAtOwnThrone blocks the pawn at its own throne unless it was launched
// from inside the king.
func (e *Engine) stopAtOwnThrone(p *physics.Pawn) bool {
	king := e.arena.King(e.active)
	t := king.SweepThrone(p.Shape, p.LastTranslation(e.shot))
	if !collision.Hit(t) || king.Contain(e.shot.Spawn()) {
		return false
	}
	e.retreat(p, t)
	return true
}

// hurtPassiveKing dooms a pawn entering the opposing throne and marks the
// king for damage when the body is touched.
func (e *Engine) hurtPassiveKing(p *physics.Pawn) {
	king := e.arena.King(e.active.Other())
	last := p.LastTranslation(e.shot)

	if collision.Hit(king.SweepThrone(p.Shape, last)) {
		e.shot.MarkVanish()
	}
	if t := king.SweepBody(p.Shape, last); t <= 1 && king.MarkDamaged() {
		e.log.Debug("King hit", log.String("side", king.Side.String()))
		e.publish(EventKingDamaged, KingDamaged{Side: king.Side})
	}
}

func (e *Engine) markDying(id uuid.UUID, side arena.Side, cause string) {
	if !e.dying.add(id, side) {
		return
	}
	e.publish(EventPawnDying, PawnDying{Pawn: id, Side: side, Cause: cause})
}

// clean removes a vanished moving pawn, fades the dying ones and completes
// the turn once the shot is over and nothing is left fading.
func (e *Engine) clean() {
	if e.shot.VanishImmediately() && e.shot.Finished() && e.moving != nil {
		e.dying.remove(e.moving.ID)
		e.removePawn(e.moving.ID, e.active, true)
	}

	for _, d := range slices.Clone(e.dying.entries) {
		p := e.rosters[d.side].get(d.id)
		if p == nil {
			e.dying.remove(d.id)
			continue
		}
		if !p.Faded(palette.Vanish, e.params.VanishTolerance) {
			p.Fade(palette.Vanish, e.params.BlendRatio)
			continue
		}
		if p == e.moving && !e.shot.Finished() {
			continue
		}
		e.dying.remove(d.id)
		e.removePawn(d.id, d.side, false)
	}

	if e.shot.Finished() && e.dying.len() == 0 {
		e.completeTurn()
	}
}

func (e *Engine) removePawn(id uuid.UUID, side arena.Side, vanished bool) {
	if !e.rosters[side].remove(id) {
		return
	}
	if e.moving != nil && e.moving.ID == id {
		e.moving = nil
	}
	e.log.Info("Pawn removed",
		log.String("side", side.String()),
		log.String("pawn", id.String()),
		log.Bool("vanished", vanished),
	)
	e.publish(EventPawnRemoved, PawnRemoved{Pawn: id, Side: side, Vanished: vanished})
}

func (e *Engine) completeTurn() {
	passive := e.arena.King(e.active.Other())
	if passive.ApplyDamage() {
		e.log.Info("King damaged",
			log.String("side", passive.Side.String()),
			log.Int("life", passive.Life()),
		)
		e.publish(EventKingLife, KingLife{Side: passive.Side, Life: passive.Life()})
	}

	e.shot = nil
	e.moving = nil

	if passive.Dead() {
		e.state = Over
		e.winner = e.active
		e.log.Info("Game over", log.String("winner", e.winner.String()))
		e.publish(EventGameOver, GameOver{Winner: e.winner})
		return
	}

	next := e.active.Other()
	e.publish(EventTurnCompleted, TurnCompleted{Side: e.active, Next: next})
	e.active = next
	e.state = Choose
}

// Reset starts a new match on the same arena. A shot in flight always runs
// to completion, so Reset fails with ErrShotInFlight while one is moving.
func (e *Engine) Reset() error {
	if e.state == Shooting {
		return ErrShotInFlight
	}

	e.rosters[arena.Magenta].clear()
	e.rosters[arena.Cyan].clear()
	e.dying.clear()
	e.arena.ResetLives()
	e.aim.reset()
	e.shot = nil
	e.moving = nil
	e.active = arena.Magenta
	e.winner = arena.Magenta
	e.state = Choose
	e.tick = 0

	e.log.Info("Game reset")
	e.publish(EventGameReset, nil)
	return nil
}
