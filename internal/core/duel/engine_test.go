package duel

import (
	"encoding/json"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/observability/log"
)

const eps = 1e-4

type recorder struct {
	events []bus.Event
}

func (r *recorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *recorder) of(eventType string) []any {
	var out []any
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e.Data())
		}
	}
	return out
}

// testParams moves a pawn ten units per step.
func testParams() config.Params {
	p := config.DefaultParams()
	p.ReachRadius = 100
	return p
}

func king(side string, x, y float32) config.King {
	return config.King{
		Side:   side,
		Body:   config.Point{x, y},
		Radius: 5,
		Throne: config.Rect{X: x - 15, Y: y - 15, W: 30, H: 30},
	}
}

func openField(magentaX, cyanX float32) config.Layout {
	return config.Layout{
		Fence: &config.Rect{X: 0, Y: 0, W: 800, H: 600},
		Kings: []config.King{king("magenta", magentaX, 300), king("cyan", cyanX, 300)},
	}
}

func newEngine(t *testing.T, p config.Params, layout config.Layout) (*Engine, *recorder) {
	t.Helper()
	b := bus.New()
	rec := &recorder{}
	_, err := b.SubscribeTopic(Topic, bus.AnyType, func(e bus.Event) error {
		rec.events = append(rec.events, e)
		return nil
	})
	require.NoError(t, err)
	return New(p, arena.New(p, layout), WithBus(b)), rec
}

// runShot ticks until the shot in flight is resolved and returns the tick count.
func runShot(t *testing.T, e *Engine) int {
	t.Helper()
	ticks := 0
	for e.Busy() {
		e.Tick()
		ticks++
		require.Less(t, ticks, 100, "shot never resolved")
	}
	return ticks
}

func fire(t *testing.T, e *Engine, ox, oy, cx, cy float32) *testPawn {
	t.Helper()
	id, err := e.Fire(geometry.Vec(ox, oy), geometry.Vec(cx, cy))
	require.NoError(t, err)
	return &testPawn{e: e, id: id}
}

type testPawn struct {
	e  *Engine
	id uuid.UUID
}

func (p *testPawn) alive() bool {
	_, _, ok := p.e.Pawn(p.id)
	return ok
}

func (p *testPawn) center(t *testing.T) geometry.Vector {
	t.Helper()
	pawn, _, ok := p.e.Pawn(p.id)
	require.True(t, ok, "pawn is gone")
	return pawn.Center()
}

func assertAt(t *testing.T, want geometry.Vector, got geometry.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
}

func TestWallStopsAtExpandedEdge(t *testing.T) {
	layout := openField(700, 100)
	layout.Walls = []config.Rect{{X: 640, Y: 280, W: 20, H: 40}}
	e, _ := newEngine(t, testParams(), layout)

	p := fire(t, e, 700, 300, 710, 300)
	assert.Equal(t, Shooting, e.State())

	// 700 -> 690 -> 680 -> 670 -> 660 crosses the face pushed out to 665.
	assert.Equal(t, 4, runShot(t, e))
	assertAt(t, geometry.Vec(665, 300), p.center(t))

	assert.Equal(t, Choose, e.State())
	assert.Equal(t, arena.Cyan, e.Active())
	assert.Nil(t, e.Shot())

	e.Tick()
	assertAt(t, geometry.Vec(665, 300), p.center(t))
}

func TestOwnThrone(t *testing.T) {
	layout := openField(700, 100)
	layout.Walls = []config.Rect{{X: 640, Y: 280, W: 20, H: 40}}
	e, _ := newEngine(t, testParams(), layout)

	// Leaving from inside the king passes the throne.
	p := fire(t, e, 700, 300, 710, 300)
	runShot(t, e)
	assertAt(t, geometry.Vec(665, 300), p.center(t))

	fire(t, e, 100, 300, 100, 310)
	assert.Equal(t, 10, runShot(t, e))

	// A shot from a pawn outside the king is stopped by the throne.
	p2 := fire(t, e, 665, 300, 655, 300)
	assert.Equal(t, 2, runShot(t, e))
	assertAt(t, geometry.Vec(680, 300), p2.center(t))
	assert.Equal(t, 2, e.Pawns(arena.Magenta))
}

func TestOwnThroneIsPassableOnlyFromTheKing(t *testing.T) {
	layout := openField(700, 100)
	// Throne left of the body, across the exit path of a leftward shot.
	layout.Kings[0].Throne = config.Rect{X: 650, Y: 285, W: 20, H: 30}
	e, _ := newEngine(t, testParams(), layout)

	// 680 -> 670 crosses the right face pushed out to 675.
	p := fire(t, e, 700, 300, 710, 300)
	assert.Equal(t, 10, runShot(t, e))
	assertAt(t, geometry.Vec(600, 300), p.center(t))

	fire(t, e, 100, 300, 100, 310)
	runShot(t, e)

	// The same throne stops a shot launched from a pawn: 640 -> 650 crosses 645.
	p2 := fire(t, e, 600, 300, 590, 300)
	assert.Equal(t, 5, runShot(t, e))
	assertAt(t, geometry.Vec(645, 300), p2.center(t))
	assertAt(t, geometry.Vec(600, 300), p.center(t))
}

func TestKingDamageIsAppliedOncePerShot(t *testing.T) {
	e, rec := newEngine(t, testParams(), openField(700, 600))
	cyan := e.King(arena.Cyan)

	p := fire(t, e, 700, 300, 710, 300)
	for i := 0; i < 9; i++ {
		e.Tick()
	}
	assert.True(t, cyan.Damaged())
	assert.Equal(t, 3, cyan.Life(), "damage waits for the shot to end")
	assert.True(t, e.Shot().VanishImmediately(), "entering the throne dooms the pawn")

	e.Tick()
	assert.False(t, e.Busy())
	assert.Equal(t, 2, cyan.Life())
	assert.False(t, cyan.Damaged())
	assert.False(t, p.alive())

	assert.Len(t, rec.of(EventKingDamaged), 1)
	assert.Equal(t, []any{KingLife{Side: arena.Cyan, Life: 2}}, rec.of(EventKingLife))
	assert.Equal(t, []any{PawnRemoved{Pawn: p.id, Side: arena.Magenta, Vanished: true}}, rec.of(EventPawnRemoved))
	assert.Equal(t, arena.Cyan, e.Active())
}

func TestPawnKillAndFade(t *testing.T) {
	e, rec := newEngine(t, testParams(), openField(700, 500))

	victim := fire(t, e, 700, 300, 710, 300)
	runShot(t, e)
	assertAt(t, geometry.Vec(600, 300), victim.center(t))

	shooter := fire(t, e, 500, 300, 490, 300)
	for i := 0; i < 9; i++ {
		e.Tick()
	}
	assert.Equal(t, 1, e.Dying())
	assert.Equal(t, []any{PawnDying{Pawn: victim.id, Side: arena.Magenta, Cause: "pawn"}}, rec.of(EventPawnDying))

	// Ten steps of motion, then the victim keeps fading until it is gone.
	ticks := 9 + runShot(t, e)
	assert.Equal(t, 14, ticks)
	assert.False(t, victim.alive())
	assert.True(t, shooter.alive())
	assertAt(t, geometry.Vec(600, 300), shooter.center(t))
	assert.Equal(t, 0, e.Pawns(arena.Magenta))
	assert.Equal(t, arena.Magenta, e.Active())

	types := rec.types()
	assert.Less(t, indexOf(types, EventPawnDying), indexOf(types, EventPawnRemoved))
	assert.Equal(t, EventTurnCompleted, types[len(types)-1])
}

func TestHazardDestroysMovingPawn(t *testing.T) {
	layout := openField(700, 100)
	layout.Hazards = []config.Hazard{{Center: config.Point{600, 300}, Size: 20}}
	e, rec := newEngine(t, testParams(), layout)

	p := fire(t, e, 700, 300, 710, 300)
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	// Contact with the diagonal arms comes 5*sqrt(2) before the centre.
	assertAt(t, geometry.Vec(607.0711, 300), p.center(t))
	assert.True(t, e.Shot().Finished())
	assert.Equal(t, []any{PawnDying{Pawn: p.id, Side: arena.Magenta, Cause: "hazard"}}, rec.of(EventPawnDying))

	runShot(t, e)
	assert.False(t, p.alive())
	assert.Equal(t, arena.Cyan, e.Active())
}

func TestFenceDestroysEscapingPawn(t *testing.T) {
	layout := openField(700, 100)
	layout.Fence = &config.Rect{X: 620, Y: 0, W: 180, H: 600}
	e, rec := newEngine(t, testParams(), layout)

	p := fire(t, e, 700, 300, 710, 300)
	for i := 0; i < 8; i++ {
		e.Tick()
	}
	assertAt(t, geometry.Vec(625, 300), p.center(t))
	assert.Equal(t, []any{PawnDying{Pawn: p.id, Side: arena.Magenta, Cause: "fence"}}, rec.of(EventPawnDying))

	runShot(t, e)
	assert.False(t, p.alive())
}

func TestWindowLetsPawnThroughThenRemovesIt(t *testing.T) {
	layout := openField(700, 100)
	layout.Windows = []config.Segment{{Start: config.Point{650, 250}, End: config.Point{650, 350}}}
	e, rec := newEngine(t, testParams(), layout)

	p := fire(t, e, 700, 300, 710, 300)
	for i := 0; i < 9; i++ {
		e.Tick()
	}
	assert.True(t, e.Shot().VanishImmediately())
	assertAt(t, geometry.Vec(610, 300), p.center(t))

	e.Tick()
	assert.False(t, p.alive())
	assert.Empty(t, rec.of(EventPawnDying))
	assert.Equal(t, []any{PawnRemoved{Pawn: p.id, Side: arena.Magenta, Vanished: true}}, rec.of(EventPawnRemoved))
	assert.Equal(t, 3, e.King(arena.Cyan).Life())
}

func TestEngineErrors(t *testing.T) {
	p := config.DefaultParams()
	e := New(p, arena.Classic(p))

	assert.ErrorIs(t, e.SelectOrigin(geometry.Vec(0, 0)), ErrNoOrigin)
	assert.ErrorIs(t, e.AimAt(geometry.Vec(0, 0)), ErrNoOrigin)
	_, err := e.Shoot()
	assert.ErrorIs(t, err, ErrNoOrigin)

	require.NoError(t, e.SelectOrigin(geometry.Vec(766, 301)))
	assert.Equal(t, geometry.Vec(765, 300), e.Aim().Center)
	_, err = e.Shoot()
	assert.ErrorIs(t, err, ErrNotAimed)
	assert.ErrorIs(t, e.AimAt(geometry.Vec(765, 300)), ErrZeroAim)

	require.NoError(t, e.AimAt(geometry.Vec(775, 300)))
	_, err = e.Shoot()
	require.NoError(t, err)

	assert.ErrorIs(t, e.SelectOrigin(geometry.Vec(765, 300)), ErrShotInFlight)
	_, err = e.Fire(geometry.Vec(765, 300), geometry.Vec(775, 300))
	assert.ErrorIs(t, err, ErrShotInFlight)

	// Cyan cannot launch from the magenta king.
	runShot(t, e)
	assert.ErrorIs(t, e.SelectOrigin(geometry.Vec(765, 300)), ErrNoOrigin)
}

func TestGameOverAndReset(t *testing.T) {
	params := testParams()
	params.Life = 1
	e, rec := newEngine(t, params, openField(700, 600))

	fire(t, e, 700, 300, 710, 300)
	runShot(t, e)

	winner, over := e.Winner()
	assert.True(t, over)
	assert.Equal(t, arena.Magenta, winner)
	assert.Equal(t, Over, e.State())
	assert.Equal(t, []any{GameOver{Winner: arena.Magenta}}, rec.of(EventGameOver))
	assert.Empty(t, rec.of(EventTurnCompleted))

	assert.ErrorIs(t, e.SelectOrigin(geometry.Vec(700, 300)), ErrGameOver)
	_, err := e.Fire(geometry.Vec(700, 300), geometry.Vec(710, 300))
	assert.ErrorIs(t, err, ErrGameOver)

	require.NoError(t, e.Reset())
	assert.Equal(t, Choose, e.State())
	assert.Equal(t, arena.Magenta, e.Active())
	assert.Equal(t, 1, e.King(arena.Cyan).Life())
	assert.Zero(t, e.Ticks())
	_, over = e.Winner()
	assert.False(t, over)
	assert.Contains(t, rec.types(), EventGameReset)
}

func TestResetWaitsForShotInFlight(t *testing.T) {
	e, rec := newEngine(t, testParams(), openField(700, 100))

	p := fire(t, e, 700, 300, 710, 300)
	e.Tick()

	assert.ErrorIs(t, e.Reset(), ErrShotInFlight)
	assert.Equal(t, Shooting, e.State())
	assert.NotNil(t, e.Shot())
	assert.Equal(t, 1, e.Shot().Step())
	assert.True(t, p.alive())
	assert.NotContains(t, rec.types(), EventGameReset)

	assert.Equal(t, 9, runShot(t, e))
	require.NoError(t, e.Reset())
	assert.False(t, p.alive())
	assert.Contains(t, rec.types(), EventGameReset)
}

func TestAimGeometry(t *testing.T) {
	var a Aim
	a.center(geometry.Vec(100, 100))
	require.NoError(t, a.update(geometry.Vec(110, 100), 100, 10))

	assertAt(t, geometry.Vec(0, 100), a.Destination)
	assertAt(t, geometry.Vec(110, 100), a.Sign.A)
	assertAt(t, geometry.Vec(120, 94.2265), a.Sign.B)
	assertAt(t, geometry.Vec(120, 105.7735), a.Sign.C)
	assert.True(t, a.Aimed())

	a.center(geometry.Vec(0, 0))
	assert.False(t, a.Aimed())
}

func TestAimRecentresOnOwnPawn(t *testing.T) {
	e, _ := newEngine(t, testParams(), openField(700, 100))

	fire(t, e, 700, 300, 710, 300)
	runShot(t, e)
	fire(t, e, 100, 300, 100, 310)
	runShot(t, e)

	require.NoError(t, e.SelectOrigin(geometry.Vec(700, 300)))
	require.NoError(t, e.AimAt(geometry.Vec(602, 300)))
	assert.Equal(t, geometry.Vec(600, 300), e.Aim().Center)
	assertAt(t, geometry.Vec(500, 300), e.Aim().Destination)
}

func TestSnapshot(t *testing.T) {
	e, _ := newEngine(t, testParams(), openField(700, 100))
	p := fire(t, e, 700, 300, 710, 300)
	e.Tick()

	s := e.Snapshot()
	assert.Equal(t, uint64(1), s.Tick)
	assert.Equal(t, "shoot", s.State)
	assert.Equal(t, "magenta", s.Active)
	assert.Equal(t, [2]int{3, 3}, s.Lives)
	assert.Equal(t, 1, s.Step)
	assert.Equal(t, 10, s.Steps)
	require.Len(t, s.Pawns, 1)
	assert.Equal(t, s.Moving, s.Pawns[0].ID)
	assert.InDelta(t, 690, s.Pawns[0].X, eps)
	assert.Equal(t, "magenta", s.Pawns[0].Side)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"state":"shoot"`)
	assert.NotContains(t, string(raw), "winner")
	assert.Equal(t, p.id.String(), s.Moving)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestEngineDeclaresTopic(t *testing.T) {
	e, _ := newEngine(t, testParams(), openField(700, 100))

	topics := e.bus.GetTopics()
	require.Len(t, topics, 1)
	assert.Equal(t, Topic, topics[0].Name)
	assert.Equal(t, TopicDescription, topics[0].Description)
	assert.Equal(t, 1, topics[0].Subs)
}

func TestEngineLogMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := testParams()
	e := New(p, arena.New(p, openField(700, 100)), WithLogger(log.FromZap(zap.New(core), log.LevelDebug)))

	fire(t, e, 700, 300, 710, 300)
	runShot(t, e)
	require.NoError(t, e.Reset())

	require.NotZero(t, logs.Len())
	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
		r, _ := utf8.DecodeRuneInString(entry.Message)
		assert.True(t, unicode.IsUpper(r), "message %q", entry.Message)
		assert.Equal(t, "duel", entry.ContextMap()["component"])
	}
	assert.Contains(t, messages, "Shot fired")
	assert.Contains(t, messages, "Game reset")
}
