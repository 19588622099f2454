package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/duel"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/observability/log"
)

func newServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	b := bus.New()
	e := duel.New(cfg.Params, arena.New(cfg.Params, cfg.Layout), duel.WithBus(b))
	s, err := New(cfg.Server, e, b, log.Nop())
	require.NoError(t, err)
	return s
}

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	s := newServer(t, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		ts.Close()
	})
	return s, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads messages until match accepts one and returns everything
// read so far, the match last.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) []Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var seen []Message
	for i := 0; i < 1000; i++ {
		var m Message
		require.NoError(t, conn.ReadJSON(&m))
		seen = append(seen, m)
		if match(m) {
			return seen
		}
	}
	t.Fatal("no matching message")
	return nil
}

func isSnapshot(pred func(duel.Snapshot) bool) func(Message) bool {
	return func(m Message) bool {
		return m.Type == MessageSnapshot && m.Snapshot != nil && pred(*m.Snapshot)
	}
}

func isError(m Message) bool { return m.Type == MessageError }

func events(ms []Message) []string {
	var out []string
	for _, m := range ms {
		if m.Type == MessageEvent {
			out = append(out, m.Event)
		}
	}
	return out
}

func point(x, y float32) *config.Point { return &config.Point{x, y} }

func TestServer_InitialSnapshot(t *testing.T) {
	_, url := startServer(t)
	conn := dial(t, url)

	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	require.Equal(t, MessageSnapshot, m.Type)
	require.NotNil(t, m.Snapshot)
	assert.Equal(t, "choose", m.Snapshot.State)
	assert.Equal(t, "magenta", m.Snapshot.Active)
	assert.Equal(t, [2]int{3, 3}, m.Snapshot.Lives)
	assert.Empty(t, m.Snapshot.Pawns)
}

func TestServer_ShootPlaysTurn(t *testing.T) {
	s, url := startServer(t)
	shooter := dial(t, url)
	watcher := dial(t, url)
	require.Eventually(t, func() bool { return s.Clients() == 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, shooter.WriteJSON(Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(775, 300)}))

	cyanToMove := isSnapshot(func(snap duel.Snapshot) bool { return snap.Active == "cyan" && snap.State == "choose" })
	seen := readUntil(t, shooter, cyanToMove)
	readUntil(t, watcher, cyanToMove)

	assert.Contains(t, events(seen), duel.EventShotFired)
	assert.Contains(t, events(seen), duel.EventTurnCompleted)

	for _, m := range seen {
		if m.Event == duel.EventShotFired {
			var fired map[string]any
			require.NoError(t, json.Unmarshal(m.Data, &fired))
			assert.Equal(t, "magenta", fired["side"])
		}
	}

	last := seen[len(seen)-1].Snapshot
	require.Len(t, last.Pawns, 1)
	assert.Equal(t, "magenta", last.Pawns[0].Side)
	assert.Greater(t, last.Tick, uint64(1))
}

func TestServer_RejectsCommands(t *testing.T) {
	_, url := startServer(t)
	conn := dial(t, url)

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"unknown action", Command{Action: "dance"}, ErrUnknownAction.Error()},
		{"missing cursor", Command{Action: ActionShoot, Origin: point(765, 300)}, ErrInvalidMessage.Error()},
		{"no origin", Command{Action: ActionShoot, Origin: point(400, 300), Cursor: point(410, 300)}, duel.ErrNoOrigin.Error()},
		{"zero aim", Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(765, 300)}, duel.ErrZeroAim.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteJSON(tt.cmd))
			seen := readUntil(t, conn, isError)
			assert.Contains(t, seen[len(seen)-1].Error, tt.want)
		})
	}
}

func TestServer_Reset(t *testing.T) {
	_, url := startServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(775, 300)}))
	readUntil(t, conn, isSnapshot(func(snap duel.Snapshot) bool { return snap.Active == "cyan" }))

	require.NoError(t, conn.WriteJSON(Command{Action: ActionReset}))
	seen := readUntil(t, conn, isSnapshot(func(snap duel.Snapshot) bool { return snap.Active == "magenta" }))

	assert.Contains(t, events(seen), duel.EventGameReset)
	last := seen[len(seen)-1].Snapshot
	assert.Empty(t, last.Pawns)
	assert.Equal(t, uint64(0), last.Tick)
}

func TestServer_RunOnce(t *testing.T) {
	s, _ := startServer(t)
	require.Eventually(t, s.running.Load, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, s.Run(context.Background(), time.Millisecond), ErrServerAlreadyRunning)
}

func TestServer_SubmitQueue(t *testing.T) {
	cfg := config.Default()
	cfg.Server.QueueSize = 1
	s := newServer(t, cfg)

	require.NoError(t, s.Submit(Command{Action: ActionReset}))
	assert.ErrorIs(t, s.Submit(Command{Action: ActionReset}), ErrQueueFull)
	assert.ErrorIs(t, s.Submit(Command{Action: "jump"}), ErrUnknownAction)
	assert.ErrorIs(t, s.Submit(Command{Action: ActionShoot, Cursor: point(1, 1)}), ErrInvalidMessage)
}

func TestClient_Offer(t *testing.T) {
	c := &client{id: "c", send: make(chan []byte, 1)}

	assert.True(t, c.offer([]byte("a")))
	assert.False(t, c.offer([]byte("b")))

	c.close()
	c.close()
	assert.False(t, c.offer([]byte("c")))

	b, ok := <-c.send
	assert.True(t, ok)
	assert.Equal(t, "a", string(b))
	_, ok = <-c.send
	assert.False(t, ok)
}

func TestServer_ListenAndServeStopsWithContext(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.WriteTimeout = time.Second
	s := newServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, time.Millisecond) }()

	require.Eventually(t, s.running.Load, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return")
	}
}

func TestServer_ResetMidShotIsRejected(t *testing.T) {
	s := newServer(t, config.Default())
	s.apply(command{Command: Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(775, 300)}})
	require.True(t, s.engine.Busy())

	c := &client{id: "c", send: make(chan []byte, 4)}
	s.apply(command{Command: Command{Action: ActionReset}, from: c})

	assert.True(t, s.engine.Busy(), "shot keeps flying")
	var m Message
	require.NoError(t, json.Unmarshal(<-c.send, &m))
	assert.Equal(t, MessageError, m.Type)
	assert.Equal(t, duel.ErrShotInFlight.Error(), m.Error)
}

func TestServer_RunNeedsTickInterval(t *testing.T) {
	s := newServer(t, config.Default())

	assert.ErrorIs(t, s.Run(context.Background(), 0), config.ErrInvalidConfig)
	assert.ErrorIs(t, s.Run(context.Background(), -time.Millisecond), config.ErrInvalidConfig)
	assert.False(t, s.running.Load())
}

func TestServer_Stats(t *testing.T) {
	_, url := startServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(775, 300)}))
	readUntil(t, conn, isSnapshot(func(snap duel.Snapshot) bool { return snap.Active == "cyan" && snap.State == "choose" }))

	resp, err := http.Get("http" + strings.TrimSuffix(strings.TrimPrefix(url, "ws"), "/ws") + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var st Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, 1, st.Clients)
	assert.GreaterOrEqual(t, st.Bus.Published, uint64(2), "shot fired and turn completed")
	assert.Zero(t, st.Bus.Errors)
	require.Len(t, st.Topics, 1)
	assert.Equal(t, duel.Topic, st.Topics[0].Name)
	assert.Equal(t, duel.TopicDescription, st.Topics[0].Description)
	assert.Equal(t, 1, st.Topics[0].Subs)
}

func TestServer_CloseDetachesFromBus(t *testing.T) {
	s := newServer(t, config.Default())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s.apply(command{Command: Command{Action: ActionShoot, Origin: point(765, 300), Cursor: point(775, 300)}})

	st := s.Stats()
	require.Len(t, st.Topics, 1)
	assert.Zero(t, st.Topics[0].Subs)
	assert.Zero(t, st.Bus.Published, "no observer left to count deliveries")
}

func TestDeliveryObserver_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := bus.New()
	b.AddObserver(&deliveryObserver{logger: log.FromZap(zap.New(core), log.LevelWarn)})
	_, err := b.SubscribeTopic(duel.Topic, bus.AnyType, func(bus.Event) error { return ErrInvalidMessage })
	require.NoError(t, err)

	assert.ErrorIs(t, b.PublishToTopic(duel.Topic, bus.NewEvent(duel.EventShotFired, "test", nil, nil)), ErrInvalidMessage)
	assert.Equal(t, uint64(1), b.GetMetrics().Errors)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Event delivery failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, duel.EventShotFired, fields["event"])
	assert.Equal(t, int64(1), fields["handlers"])
	assert.Equal(t, ErrInvalidMessage.Error(), fields["error"])
}
