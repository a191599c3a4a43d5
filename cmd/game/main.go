package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"flight-game/internal/engineconfig"
	"flight-game/internal/game"
	"flight-game/internal/graphics"
	"flight-game/internal/hud"
	"flight-game/internal/input/keyboard"
	"flight-game/internal/logger"
	"flight-game/internal/model"
	"flight-game/internal/primitives"
	"flight-game/internal/render"
	"flight-game/internal/scene"
)

var lightDir = [3]float32{0.4, 1, 0.3}

func main() {
	configPath := flag.String("config", engineconfig.ConfigPath, "path to the YAML config file")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	if err := run(*configPath, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so main can exit with a status.
func run(configPath, level string) error {
	sink, err := logger.New(logger.LogFilePath, logger.DefaultKeep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		sink, _ = logger.New("", logger.DefaultKeep)
	}
	defer sink.Close()
	log := logger.Slog(sink, logger.ParseLevel(level))
	slog.SetDefault(log)

	cfg, err := engineconfig.Load(configPath)
	if err != nil {
		log.Warn("using default config", "path", configPath, "err", err)
	}

	seed := cfg.Prefs.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info("starting", "seed", seed)
	world, err := game.New(cfg, rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)), log)
	if err != nil {
		log.Error("create world", "err", err)
		return fmt.Errorf("create world: %w", err)
	}

	kb, err := keyboard.New(cfg.Keys)
	if err != nil {
		log.Warn("bad key bindings, using defaults", "err", err)
		if kb, err = keyboard.New(engineconfig.Default().Keys); err != nil {
			log.Error("default key bindings", "err", err)
			return fmt.Errorf("default key bindings: %w", err)
		}
	}

	reg := primitives.NewRegistry()
	scn := scene.New()
	scn.GridVisible = cfg.Prefs.GridVisible
	overlay := hud.New(sink)
	overlay.ShowFPS = cfg.Prefs.ShowFPS
	overlay.ShowMemAlloc = cfg.Prefs.ShowMemAlloc
	var hudSink render.HUDSink = overlay

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		models, err := model.LoadDir(ctx, model.DefaultDir)
		if err != nil {
			log.Warn("models unavailable, drawing fallbacks", "err", err)
			return
		}
		world.Post(func(*game.World) {
			reg.Install(models)
			log.Info("models installed", "count", len(models))
		})
	}()

	update := func(delta, now time.Duration) {
		world.Frame(game.Clock{Delta: delta, Now: now}, kb)
		scn.Follow(world.Plane().RenderTransform(), float32(delta.Seconds()))
	}
	draw := func() {
		reg.SetView(scn.ViewPos(), lightDir)
		scn.Draw(func() { world.Render(reg) })
		world.ShowHUD(hudSink)
	}
	graphics.Run(graphics.Window{
		Title:      "Melon Bomber",
		Width:      cfg.Prefs.WindowWidth,
		Height:     cfg.Prefs.WindowHeight,
		Fullscreen: cfg.Prefs.Fullscreen,
		TargetFPS:  60,
	}, update, draw)
	log.Info("exiting", "score", world.Score())
	return nil
}
