package duel

import (
	"github.com/google/uuid"

	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/observability/log"
)

// Topic is the bus topic every engine event is published to.
const Topic = "duel"

// TopicDescription is declared with Topic when an engine is built on a bus.
const TopicDescription = "duel engine events"

const (
	EventShotFired     = "shot.fired"
	EventPawnDying     = "pawn.dying"
	EventPawnRemoved   = "pawn.removed"
	EventKingDamaged   = "king.damaged"
	EventKingLife      = "king.life"
	EventTurnCompleted = "turn.completed"
	EventGameOver      = "game.over"
	EventGameReset     = "game.reset"
)

type ShotFired struct {
	Pawn        uuid.UUID       `json:"pawn"`
	Side        arena.Side      `json:"side"`
	Origin      geometry.Vector `json:"origin"`
	Destination geometry.Vector `json:"destination"`
}

// PawnDying reports a pawn entering the dying set. Cause is the obstacle
// kind that killed it, or "pawn" when it was hit by the moving pawn.
type PawnDying struct {
	Pawn  uuid.UUID  `json:"pawn"`
	Side  arena.Side `json:"side"`
	Cause string     `json:"cause"`
}

// PawnRemoved reports a pawn leaving the board. Vanished is set for the
// moving pawn removed after passing a window or a throne.
type PawnRemoved struct {
	Pawn     uuid.UUID  `json:"pawn"`
	Side     arena.Side `json:"side"`
	Vanished bool       `json:"vanished"`
}

// KingDamaged is published when a decrement is first marked during a shot.
type KingDamaged struct {
	Side arena.Side `json:"side"`
}

// KingLife is published when a marked decrement is applied.
type KingLife struct {
	Side arena.Side `json:"side"`
	Life int        `json:"life"`
}

type TurnCompleted struct {
	Side arena.Side `json:"side"`
	Next arena.Side `json:"next"`
}

type GameOver struct {
	Winner arena.Side `json:"winner"`
}

func (e *Engine) publish(eventType string, data any) {
	if e.bus == nil {
		return
	}
	if err := e.bus.PublishToTopic(Topic, bus.NewEvent(eventType, e.name, data, nil)); err != nil {
		e.log.Warn("Event handler failed",
			log.String("event", eventType),
			log.Error(err),
		)
	}
}
