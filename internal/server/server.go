// Package server exposes a running duel over websockets. Every connected
// client receives a snapshot after each tick and may send shoot and reset
// commands. Commands are queued and applied on the single goroutine that
// owns the engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/duel"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/observability/log"
)

type command struct {
	Command
	from *client
}

type Server struct {
	cfg    config.Server
	engine *duel.Engine
	logger log.Log

	bus      bus.EventBus
	sub      bus.Subscription
	observer *deliveryObserver

	hub      *hub
	commands chan command
	last     atomic.Pointer[[]byte]
	running  atomic.Bool
}

// New wraps engine. When b is the engine's bus, engine events are forwarded
// to clients as they happen and deliveries are counted in Stats.
func New(cfg config.Server, engine *duel.Engine, b bus.EventBus, logger log.Log) (*Server, error) {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With(log.String("component", "server"))

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		logger:   logger,
		hub:      newHub(logger),
		commands: make(chan command, cfg.QueueSize),
	}

	if b != nil {
		sub, err := b.SubscribeTopic(duel.Topic, bus.AnyType, s.forward)
		if err != nil {
			return nil, fmt.Errorf("subscribe to engine events: %w", err)
		}
		s.bus, s.sub = b, sub
		s.observer = &deliveryObserver{logger: logger}
		b.AddObserver(s.observer)
	}
	s.publish()
	return s, nil
}

// Handler serves the websocket endpoint on /ws and delivery stats on /stats.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

// Close detaches the server from the engine's bus. It is safe to call more
// than once.
func (s *Server) Close() error {
	if s.bus == nil {
		return nil
	}
	s.bus.RemoveObserver(s.observer)
	return s.bus.Unsubscribe(s.sub)
}

// Clients is the number of connected clients.
func (s *Server) Clients() int { return s.hub.len() }

// Submit queues cmd for the simulation goroutine.
func (s *Server) Submit(cmd Command) error {
	return s.submit(cmd, nil)
}

// submit queues cmd; from receives the error reply if applying it fails.
func (s *Server) submit(cmd Command, from *client) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	select {
	case s.commands <- command{Command: cmd, from: from}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run owns the engine until ctx is done: it applies queued commands and
// ticks at the configured rate while a shot is in flight.
func (s *Server) Run(ctx context.Context, tickInterval time.Duration) error {
	if tickInterval <= 0 {
		return fmt.Errorf("%w: tick interval %v", config.ErrInvalidConfig, tickInterval)
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.logger.Info("Simulation started", log.Duration("tick", tickInterval))
	for {
		select {
		case <-ctx.Done():
			s.hub.closeAll()
			s.logger.Info("Simulation stopped")
			return nil
		case cmd := <-s.commands:
			s.apply(cmd)
		case <-ticker.C:
			if s.engine.Busy() {
				s.engine.Tick()
				s.publish()
			}
		}
	}
}

// ListenAndServe serves Handler on the configured address and runs the
// simulation until ctx is done or either fails.
func (s *Server) ListenAndServe(ctx context.Context, tickInterval time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(ctx, tickInterval)
	})
	g.Go(func() error {
		s.logger.Info("Server listening", log.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

func (s *Server) apply(cmd command) {
	var err error
	switch cmd.Action {
	case ActionShoot:
		_, err = s.engine.Fire(vec(*cmd.Origin), vec(*cmd.Cursor))
	case ActionReset:
		err = s.engine.Reset()
	}
	if err != nil {
		s.logger.Debug("Command rejected", log.String("action", cmd.Action), log.Error(err))
		s.reply(cmd.from, err)
		return
	}
	s.publish()
}

// publish stores and broadcasts the current snapshot.
func (s *Server) publish() {
	snap := s.engine.Snapshot()
	b, err := encode(Message{Type: MessageSnapshot, Snapshot: &snap})
	if err != nil {
		s.logger.Error("Failed to encode snapshot", log.Error(err))
		return
	}
	s.last.Store(&b)
	s.hub.broadcast(b)
}

func (s *Server) forward(e bus.Event) error {
	data, err := json.Marshal(e.Data())
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	b, err := encode(Message{Type: MessageEvent, Event: e.Type(), Data: data})
	if err != nil {
		return err
	}
	s.hub.broadcast(b)
	return nil
}

func vec(p config.Point) geometry.Vector { return geometry.Vec(p[0], p[1]) }
