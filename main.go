package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	variant string
	preset  string
	output  string
	width   int
	height  int
	density int
	mode    string
	colorA  string
	colorB  string
	colorBG string
	size    float64
	yaw     float64
	pitch   float64
	frames  int
	workers int
	verbose bool
	help    bool

	set map[string]bool // Flags given explicitly on the command line
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("fractal-explorer", flag.ContinueOnError)
	fs.StringVar(&opts.variant, "variant", "orbit", "Scene variant: 'orbit' or 'flight'")
	fs.StringVar(&opts.preset, "preset", "", "Preset name (presets/<name>.toml) or path to a .toml preset; overrides -variant")
	fs.StringVar(&opts.output, "output", "output", "Output root directory")
	fs.IntVar(&opts.width, "width", 400, "Viewport width")
	fs.IntVar(&opts.height, "height", 225, "Viewport height")
	fs.IntVar(&opts.density, "density", 0, "Pixel density (default: from the scene)")
	fs.StringVar(&opts.mode, "mode", "", "Easing mode: 0-5 or a name (linear, ease-in, ease-in-strong, ease-out, sqrt, compressed)")
	fs.StringVar(&opts.colorA, "colorA", "", "Color at trap 0 as #RRGGBB")
	fs.StringVar(&opts.colorB, "colorB", "", "Color at trap 1 as #RRGGBB")
	fs.StringVar(&opts.colorBG, "colorBG", "", "Background color as #RRGGBB")
	fs.Float64Var(&opts.size, "size", 0, "Fractal power (2-20)")
	fs.Float64Var(&opts.yaw, "yaw", 0, "Camera yaw in radians")
	fs.Float64Var(&opts.pitch, "pitch", 0, "Camera pitch in radians")
	fs.IntVar(&opts.frames, "frames", 1, "Number of frames to simulate before saving")
	fs.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = CPU count)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.help {
		printHelp(fs)
		return nil, flag.ErrHelp
	}
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}
	if opts.frames < 1 {
		return nil, fmt.Errorf("frames must be at least 1, got %d", opts.frames)
	}
	return opts, nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Fractal Explorer")
	fmt.Println("Usage: fractal-explorer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available variants:")
	fmt.Println("  orbit  - Mandelbulb seen from a camera circling the origin")
	fmt.Println("  flight - Inverted Mandelbulb explored from the inside")
	fmt.Println()
	fmt.Println("Output will be saved to output/<variant>/render_<timestamp>.png")
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	core.SetLogger(logger)

	id := opts.variant
	if opts.preset != "" {
		id = presetID(opts.preset)
	}
	selected, err := createScene(id)
	if err != nil {
		return err
	}
	if err := applyOverrides(selected, opts); err != nil {
		return err
	}

	logger.Info("rendering",
		"scene", selected.Name,
		"variant", selected.Variant,
		"size", selected.Config.Size,
		"mode", selected.Config.Mode,
		"density", selected.Config.PixelDensity,
		"frames", opts.frames)

	fo := renderer.NewFrameOrchestrator(selected, renderer.FrameConfig{
		Width:      opts.width,
		Height:     opts.height,
		TileSize:   renderer.DefaultFrameConfig().TileSize,
		NumWorkers: opts.workers,
	})
	defer fo.Stop()

	startTime := time.Now()
	var frame *renderer.Frame
	for i := 0; i < opts.frames; i++ {
		if frame, err = fo.Tick(1.0 / 60); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
	}
	logger.Info("render completed",
		"duration", time.Since(startTime),
		"hit_ratio", fmt.Sprintf("%.3f", frame.Stats.HitRatio()),
		"avg_steps", fmt.Sprintf("%.1f", frame.Stats.AverageSteps),
		"max_steps", frame.Stats.MaxStepsUsed)

	filename, err := saveCapture(fo, filepath.Join(opts.output, string(selected.Variant)))
	if err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", filename)
	return nil
}

// presetID maps the -preset flag to a scene id: bare names refer to the presets directory
func presetID(preset string) string {
	if strings.HasSuffix(preset, ".toml") {
		return preset
	}
	return "preset:" + preset
}

// createScene resolves a variant name, "preset:<name>" or a .toml path
func createScene(sceneType string) (*scene.Scene, error) {
	if strings.TrimSpace(sceneType) == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownVariant)
	}
	s, err := scene.Resolve(sceneType)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %q: %w", sceneType, err)
	}
	return s, nil
}

// applyOverrides applies explicitly set flags on top of the scene defaults
func applyOverrides(s *scene.Scene, opts *options) error {
	var o scene.Overrides
	if opts.set["mode"] {
		mode, err := material.ParseEasingMode(opts.mode)
		if err != nil {
			return err
		}
		o.Mode = &mode
	}
	if opts.set["colorA"] {
		o.ColorA = &opts.colorA
	}
	if opts.set["colorB"] {
		o.ColorB = &opts.colorB
	}
	if opts.set["colorBG"] {
		o.Background = &opts.colorBG
	}
	if opts.set["size"] {
		o.Size = &opts.size
	}
	if opts.set["density"] {
		o.PixelDensity = &opts.density
	}
	if opts.set["yaw"] {
		o.Yaw = &opts.yaw
	}
	if opts.set["pitch"] {
		o.Pitch = &opts.pitch
	}
	return o.Apply(s)
}

// saveCapture writes the last frame to dir/render_<timestamp>.png
func saveCapture(fo *renderer.FrameOrchestrator, dir string) (string, error) {
	data, ok := fo.Capture()
	if !ok {
		return "", renderer.ErrNoFrame
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(dir, fmt.Sprintf("render_%s.png", timestamp))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("error saving PNG: %w", err)
	}
	return filename, nil
}
