// Command viewer is a desktop window for exploring the fractal interactively.
//
//	drag        rotate the view (momentum carries on after release)
//	wheel       zoom (orbit) or move along the view (flight)
//	W/S, ↑/↓    fly forward/backward
//	1-6         easing mode
//	[ ]         fractal power
//	D           toggle pixel density
//	F           switch between orbit and flight
//	R           reset the camera
//	P           save a capture
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var (
		sceneID    = flag.String("scene", "orbit", "Scene: orbit, flight, preset:<name> or a .toml path")
		width      = flag.Int("width", 960, "Window width")
		height     = flag.Int("height", 540, "Window height")
		workers    = flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
		captureDir = flag.String("captures", "captures", "Directory for captured frames")
		watch      = flag.Bool("watch", false, "Reload the preset when its file changes")
		verbose    = flag.Bool("verbose", false, "Log per-frame statistics")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	core.SetLogger(logger)

	if err := run(logger, *sceneID, *width, *height, *workers, *captureDir, *watch); err != nil {
		logger.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, sceneID string, width, height, workers int, captureDir string, watch bool) error {
	s, err := scene.Resolve(sceneID)
	if err != nil {
		return fmt.Errorf("failed to load scene %q: %w", sceneID, err)
	}

	cfg := renderer.DefaultFrameConfig()
	cfg.Width, cfg.Height, cfg.NumWorkers = width, height, workers
	fo := renderer.NewFrameOrchestrator(s, cfg)
	defer fo.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game := NewGame(fo, logger, captureDir)
	go func() {
		game.runErr <- fo.Run(ctx, game.ticks, game.onFrame)
	}()

	if watch {
		if err := watchPreset(ctx, logger, sceneID, fo); err != nil {
			return err
		}
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Fractal Explorer - " + s.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("viewer started", "scene", s.Name, "variant", s.Variant, "width", width, "height", height)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// watchPreset swaps in the rebuilt scene every time the preset file is saved
func watchPreset(ctx context.Context, logger *slog.Logger, sceneID string, fo *renderer.FrameOrchestrator) error {
	if _, err := scene.ParseVariant(sceneID); err == nil {
		return fmt.Errorf("-watch needs a preset, %q is a built-in variant", sceneID)
	}
	path, err := scene.PresetPath(sceneID)
	if err != nil {
		return err
	}
	pw, err := scene.NewPresetWatcher(path)
	if err != nil {
		return err
	}

	go func() {
		err := pw.Run(ctx, func(s *scene.Scene) {
			fo.SetScene(s)
			ebiten.SetWindowTitle("Fractal Explorer - " + s.Name)
		})
		if err != nil {
			logger.Error("preset watcher stopped", "error", err)
		}
	}()
	logger.Info("watching preset", "path", path)
	return nil
}
