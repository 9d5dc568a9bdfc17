package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/currents/config"
	"github.com/pthm-cable/currents/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	unpaced := flag.Bool("unpaced", false, "Headless: tick as fast as possible instead of at the frame interval")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	datasetPath := flag.String("dataset", "", "Dataset path (overrides config)")
	depth := flag.Int("depth", -1, "Depth layer (overrides config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	streamAddr := flag.String("stream", "", "Serve websocket frames on this address (overrides config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *datasetPath != "" {
		cfg.Dataset.Path = *datasetPath
	}
	if *depth >= 0 {
		cfg.Dataset.Depth = *depth
	}
	if *streamAddr != "" {
		cfg.Stream.Enabled = true
		cfg.Stream.Addr = *streamAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := viewer.Options{
		Headless:  *headless,
		Unpaced:   *unpaced,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Seed:      *seed,
		Logger:    logger,
	}

	if !*headless {
		rl.SetConfigFlags(rl.FlagMsaa4xHint)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ocean Currents")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	v, err := viewer.New(ctx, cfg, opts)
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		os.Exit(1)
	}
	defer v.Unload()

	g, gctx := errgroup.WithContext(ctx)
	if hub := v.Hub(); hub != nil {
		g.Go(func() error {
			return hub.ListenAndServe(gctx, cfg.Stream.Addr)
		})
	}

	// The loop stays on the main goroutine: raylib is bound to the thread
	// that opened the window.
	var runErr error
	if *headless {
		runErr = runHeadless(gctx, v, *maxTicks)
	} else {
		runWindow(gctx, v, *maxTicks)
	}
	stop()

	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("viewer stopped", "error", runErr)
		v.Unload()
		os.Exit(1)
	}
}

// runHeadless ticks without graphics until ctx ends or maxTicks is reached.
func runHeadless(ctx context.Context, v *viewer.Viewer, maxTicks int) error {
	slog.Info("starting headless run", "max_ticks", maxTicks)
	for {
		if err := v.UpdateHeadless(ctx); err != nil {
			return err
		}
		if maxTicks > 0 && int(v.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", v.Tick())
			return nil
		}
	}
}

// runWindow drives the raylib loop until the window closes.
func runWindow(ctx context.Context, v *viewer.Viewer, maxTicks int) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		v.Update()
		v.Draw()

		if maxTicks > 0 && int(v.Tick()) >= maxTicks {
			break
		}
	}
}
