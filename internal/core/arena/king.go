package arena

import (
	"github.com/zeusync/duel/internal/core/collision"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/palette"
)

// Side identifies a player.
type Side uint8

const (
	Magenta Side = iota
	Cyan
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Magenta {
		return Cyan
	}
	return Magenta
}

func (s Side) String() string {
	if s == Magenta {
		return "magenta"
	}
	return "cyan"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Color is the side's pawn and king colour.
func (s Side) Color() palette.Color {
	if s == Magenta {
		return palette.Magenta
	}
	return palette.Cyan
}

// ParseSide is the inverse of Side.String.
func ParseSide(name string) (Side, bool) {
	switch name {
	case "magenta":
		return Magenta, true
	case "cyan":
		return Cyan, true
	default:
		return 0, false
	}
}

// King is a side's target: a body circle sitting in a throne box. Damage
// is marked during a shot and applied once when the turn completes.
type King struct {
	Side   Side
	Body   geometry.Circle
	Throne geometry.Rectangle

	life    int
	maxLife int
	damaged bool
}

func NewKing(side Side, body geometry.Circle, throne geometry.Rectangle, life int) *King {
	return &King{
		Side:    side,
		Body:    body,
		Throne:  throne,
		life:    life,
		maxLife: life,
	}
}

func (k *King) Center() geometry.Vector { return k.Body.Center }
func (k *King) Color() palette.Color    { return k.Side.Color() }
func (k *King) Life() int               { return k.life }

// Contain reports whether p lies on or inside the body.
func (k *King) Contain(p geometry.Vector) bool {
	return k.Body.Contain(p)
}

// SweepThrone is the time of impact of moving against the throne box.
func (k *King) SweepThrone(moving geometry.Circle, velocity geometry.Line) float32 {
	return collision.CircleVsRectangle(moving, k.Throne, velocity)
}

// SweepBody is the time of impact of moving against the body.
func (k *King) SweepBody(moving geometry.Circle, velocity geometry.Line) float32 {
	return collision.CircleVsCircle(moving, k.Body, velocity)
}

// MarkDamaged schedules one life decrement. It reports whether the mark is
// new; repeated marks within a shot collapse into one.
func (k *King) MarkDamaged() bool {
	if k.damaged {
		return false
	}
	k.damaged = true
	return true
}

// Damaged reports whether a decrement is pending.
func (k *King) Damaged() bool { return k.damaged }

// ApplyDamage takes the pending decrement, if any, and reports whether it did.
func (k *King) ApplyDamage() bool {
	if !k.damaged {
		return false
	}
	k.damaged = false
	if k.life > 0 {
		k.life--
	}
	return true
}

// ResetLife restores full life and drops any pending decrement.
func (k *King) ResetLife() {
	k.life = k.maxLife
	k.damaged = false
}

// Dead reports whether the king has no life left.
func (k *King) Dead() bool { return k.life <= 0 }
