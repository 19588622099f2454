package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/duel"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/observability/log"
	"github.com/zeusync/duel/internal/server"
)

// App is everything a served match needs.
type App struct {
	Config *config.Config
	Logger log.Log
	Bus    bus.EventBus
	Engine *duel.Engine
	Server *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideArena,
	ProvideEngine,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log_level: %w", config.ErrInvalidConfig, err)
	}
	return log.New(level), nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideArena(cfg *config.Config) *arena.Arena {
	return arena.New(cfg.Params, cfg.Layout)
}

func ProvideEngine(cfg *config.Config, a *arena.Arena, b bus.EventBus, l log.Log) *duel.Engine {
	return duel.New(cfg.Params, a,
		duel.WithLogger(l),
		duel.WithBus(b),
		duel.WithName("duel"),
	)
}

func ProvideServer(cfg *config.Config, e *duel.Engine, b bus.EventBus, l log.Log) (*server.Server, error) {
	return server.New(cfg.Server, e, b, l)
}
