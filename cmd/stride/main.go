package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/level"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/Versifine/stride/internal/sim"
	"github.com/Versifine/stride/internal/weapon"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config (missing file = defaults)")
	debugMode := flag.Bool("debug", false, "Drive the player from an interactive terminal console")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	walk := flag.Bool("walk", false, "Headless run holding forward the whole time")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	usingDefaults := false
	if os.IsNotExist(err) {
		cfg, err = config.Default(), nil
		usingDefaults = true
	}
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logOutput, closeLog, err := openLogOutput(cfg.Logging.File)
	if err != nil {
		slog.Error("Failed to open log file", "path", cfg.Logging.File, "error", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOutput,
	})
	if usingDefaults {
		slog.Warn("Config file not found, using defaults", "path", *configPath)
	}

	lvl, err := loadLevel(cfg.Level.File)
	if err != nil {
		slog.Error("Failed to load level", "error", err)
		os.Exit(1)
	}
	index := level.NewIndex(lvl.Obstacles)
	slog.Info("Level loaded", "name", lvl.Name, "obstacles", index.Len(), logger.Vec("spawn", lvl.Spawn))

	gun := weapon.New(cfg.Weapon.Damage, cfg.Weapon.Range, cfg.Weapon.Cooldown())
	p := player.New(lvl.Spawn, player.Options{
		Height:   cfg.Player.Height,
		Radius:   cfg.Player.Radius,
		Speed:    cfg.Player.Speed,
		MaxDelta: cfg.Simulation.MaxDelta,
	}, gun)

	bus := event.NewBus()
	subscribeLogging(bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var input sim.InputSource
	switch {
	case *debugMode:
		console := debug.NewConsole(p, lvl, os.Stdin, os.Stdout)
		input = console
		consoleCtx, cancelConsole := context.WithCancel(ctx)
		defer cancelConsole()
		ctx = consoleCtx
		go func() {
			if err := console.Start(consoleCtx); err != nil {
				slog.Error("Debug console stopped", "error", err)
			}
			cancelConsole()
		}()
	case *walk:
		input = sim.HeldInput{Intent: physics.Intent{Forward: true}}
	}

	world := sim.NewWorld(p, index, bus, input)
	loop := sim.NewLoop(cfg.Simulation.TickInterval(), cfg.Simulation.MaxStepsPerFrame, world.Tick)

	start := time.Now()
	if err := loop.Run(ctx, loop.Step); err != nil {
		slog.Error("Simulation loop failed", "error", err)
	}
	bus.Wait()

	st := p.State()
	slog.Info("Simulation finished",
		"ticks", world.Ticks(),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"dropped", loop.Dropped(),
		logger.Vec("feet", st.Feet),
		logger.Vec("eye", st.Eye),
		"last", st.Last.Outcome.String(),
	)
}

func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func loadLevel(path string) (*level.Level, error) {
	if path == "" {
		return level.Arena(), nil
	}
	return level.LoadFile(path)
}

func subscribeLogging(bus *event.Bus) {
	bus.Subscribe(event.EventMotionSlid, func(raw any) {
		evt, ok := raw.(event.MotionEvent)
		if !ok {
			return
		}
		slog.Debug("Motion slid", "tick", evt.Tick, "obstacle", evt.Obstacle,
			logger.Vec("normal", evt.Normal), logger.Vec("applied", evt.Applied))
	})
	bus.Subscribe(event.EventMotionBlocked, func(raw any) {
		evt, ok := raw.(event.MotionEvent)
		if !ok {
			return
		}
		slog.Debug("Motion blocked", "tick", evt.Tick, "obstacle", evt.Obstacle, logger.Vec("eye", evt.Eye))
	})
	bus.Subscribe(event.EventWeaponShot, func(raw any) {
		evt, ok := raw.(event.ShotEvent)
		if !ok {
			return
		}
		target := evt.Target
		if target == "" {
			target = "none"
		}
		slog.Info("Shot fired", "tick", evt.Tick, "target", target, "distance", evt.Distance,
			"damage", evt.Damage, logger.Vec("end", evt.End))
	})
}
