package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/observability/log"
	"github.com/zeusync/duel/internal/injector"
	"github.com/zeusync/duel/internal/replay"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML or JSON config file")
		scripts    = flag.String("script", "", "comma-separated replay scripts to run headless instead of serving")
		addr       = flag.String("addr", "", "listen address, overrides the config")
		workers    = flag.Int("workers", 4, "scripts replayed in parallel")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *scripts, *addr, *workers); err != nil {
		fmt.Fprintln(os.Stderr, "duel:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, scripts, addr string, workers int) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if scripts != "" {
		return replayAll(ctx, cfg, strings.Split(scripts, ","), workers)
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer app.Server.Close()

	app.Logger.Info("Starting duel", log.String("addr", cfg.Server.Addr))
	return app.Server.ListenAndServe(ctx, cfg.Params.TickInterval())
}

// replayAll plays every script and prints one JSON result per line.
func replayAll(ctx context.Context, cfg *config.Config, paths []string, workers int) error {
	logger, err := injector.ProvideLogger(cfg)
	if err != nil {
		return err
	}

	loaded := make([]*replay.Script, 0, len(paths))
	for _, p := range paths {
		s, err := replay.LoadScriptFile(strings.TrimSpace(p))
		if err != nil {
			return err
		}
		loaded = append(loaded, s)
	}

	results, err := replay.VerifyAll(ctx, cfg, loaded, workers, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
