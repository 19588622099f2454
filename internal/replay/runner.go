package replay

import (
	"context"
	"fmt"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/arena"
	"github.com/zeusync/duel/internal/core/duel"
	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/geometry"
	"github.com/zeusync/duel/internal/core/observability/log"
	"github.com/zeusync/duel/pkg/concurrent"
)

// Result summarises one scripted game.
type Result struct {
	Name    string `json:"name"`
	Shots   int    `json:"shots"`
	Ticks   uint64 `json:"ticks"`
	Digest  uint64 `json:"digest"`
	Lives   [2]int `json:"lives"`
	Winner  string `json:"winner,omitempty"`
	Removed int    `json:"removed"`
}

// Run plays script on a fresh arena built from cfg. Shots after the game is
// over are ignored. Every tick is folded into Result.Digest.
func Run(ctx context.Context, cfg *config.Config, script *Script, logger log.Log) (Result, error) {
	if len(script.Shots) == 0 {
		return Result{}, ErrEmptyScript
	}
	if logger == nil {
		logger = log.Nop()
	}

	res := Result{Name: script.Name}
	b := bus.New()
	if _, err := b.SubscribeTopic(duel.Topic, duel.EventPawnRemoved, func(bus.Event) error {
		res.Removed++
		return nil
	}); err != nil {
		return Result{}, fmt.Errorf("replay: subscribe: %w", err)
	}

	e := duel.New(cfg.Params, arena.New(cfg.Params, cfg.Layout),
		duel.WithLogger(logger.With(log.String("script", script.Name))),
		duel.WithBus(b),
		duel.WithName("replay:"+script.Name),
	)
	d := newDigester()
	defer d.release()
	d.add(e.Snapshot())

	for i, shot := range script.Shots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if e.State() == duel.Over {
			break
		}
		if _, err := e.Fire(point(shot.Origin), point(shot.Cursor)); err != nil {
			return Result{}, fmt.Errorf("replay: %s shot %d: %w", script.Name, i, err)
		}
		res.Shots++

		for ticks := 0; e.Busy(); ticks++ {
			if ticks >= script.maxTicks() {
				return Result{}, fmt.Errorf("%w: %s shot %d after %d ticks", ErrShotStalled, script.Name, i, ticks)
			}
			e.Tick()
			d.add(e.Snapshot())
		}
	}

	res.Ticks = e.Ticks()
	res.Digest = d.sum()
	for _, side := range []arena.Side{arena.Magenta, arena.Cyan} {
		res.Lives[side] = e.King(side).Life()
	}
	if w, ok := e.Winner(); ok {
		res.Winner = w.String()
	}

	logger.Debug("Replay finished",
		log.String("script", script.Name),
		log.Int("shots", res.Shots),
		log.Uint64("ticks", res.Ticks),
		log.Uint64("digest", res.Digest),
	)
	return res, nil
}

// VerifyAll runs every script on at most workers goroutines. Each script
// gets its own engine; results come back in script order.
func VerifyAll(ctx context.Context, cfg *config.Config, scripts []*Script, workers int, logger log.Log) ([]Result, error) {
	return concurrent.Map(ctx, scripts, workers, func(ctx context.Context, s *Script) (Result, error) {
		return Run(ctx, cfg, s, logger)
	})
}

func point(p config.Point) geometry.Vector {
	return geometry.Vec(p[0], p[1])
}
