package server

import (
	"encoding/json"
	"fmt"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/duel"
)

const (
	ActionShoot = "shoot"
	ActionReset = "reset"
)

// Command is what a client sends.
type Command struct {
	Action string        `json:"action"`
	Origin *config.Point `json:"origin,omitempty"`
	Cursor *config.Point `json:"cursor,omitempty"`
}

func (c Command) validate() error {
	switch c.Action {
	case ActionShoot:
		if c.Origin == nil || c.Cursor == nil {
			return fmt.Errorf("%w: shoot needs origin and cursor", ErrInvalidMessage)
		}
		return nil
	case ActionReset:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
}

const (
	MessageSnapshot = "snapshot"
	MessageEvent    = "event"
	MessageError    = "error"
)

// Message is what the server sends. Exactly one of Snapshot, Event or Error
// is set, matching Type.
type Message struct {
	Type     string          `json:"type"`
	Snapshot *duel.Snapshot  `json:"snapshot,omitempty"`
	Event    string          `json:"event,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Type, err)
	}
	return b, nil
}
