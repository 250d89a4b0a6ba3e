package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
	"github.com/df07/go-fractal-explorer/pkg/scene"
)

// ErrNoFrame is returned when a frame is requested before one has been rendered
var ErrNoFrame = errors.New("no frame rendered yet")

// FrameConfig contains configuration for the frame orchestrator
type FrameConfig struct {
	Width, Height int // Viewport size; frames render at Width×Height×PixelDensity
	TileSize      int // Size of each tile
	NumWorkers    int // Number of parallel workers (0 = use CPU count)
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:      320,
		Height:     180,
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// FrameUniforms is the read-only input of the per-pixel kernel for one frame
type FrameUniforms struct {
	Time       float64 // Elapsed seconds
	LightTime  float64 // Ambient light clock
	Width      int     // Render resolution (viewport × pixel density)
	Height     int
	PointerX   float64 // Normalized pointer position, -1..1
	PointerY   float64
	Power      float64 // Fractal power including the time wobble
	Camera     CameraState
	View       View
	Config     scene.RenderConfig
	Field      geometry.Mandelbulb
	Background core.Vec3
	Light      core.Vec3 // Headlight offset from the eye
	March      integrator.MarchConfig
}

// Integrator builds the shading integrator for these uniforms
func (u FrameUniforms) Integrator() *integrator.RaymarchIntegrator {
	return integrator.NewRaymarchIntegrator(u.Field, u.March, integrator.Shading{
		Mixer:       u.Config.Mixer(),
		Background:  u.Background,
		LightOffset: u.Light,
	})
}

// Frame is a completed render. Its image is never modified after Tick returns it.
type Frame struct {
	Number   int
	Image    *image.RGBA
	Stats    RenderStats
	Uniforms FrameUniforms
}

// FrameOrchestrator advances time, camera and light once per tick and
// renders the frame through the worker pool.
type FrameOrchestrator struct {
	mu       sync.Mutex // Guards the fields below up to the frame state
	scene    *scene.Scene
	config   scene.RenderConfig
	width    int
	height   int
	pointerX float64
	pointerY float64

	camera   *CameraController
	clock    LightClock
	elapsed  float64
	tileSize int
	pool     *WorkerPool
	tickMu   sync.Mutex // Serializes Tick

	frameMu sync.RWMutex // Guards the completed frame
	frame   *Frame

	captureRequested atomic.Bool
	captures         chan []byte
}

// NewFrameOrchestrator creates an orchestrator for a scene. Call Stop when done.
func NewFrameOrchestrator(s *scene.Scene, cfg FrameConfig) *FrameOrchestrator {
	if cfg.TileSize <= 0 {
		cfg.TileSize = DefaultFrameConfig().TileSize
	}
	pool := NewWorkerPool(cfg.NumWorkers)
	core.Logger().Debug("frame orchestrator created",
		"scene", s.Name,
		"width", cfg.Width,
		"height", cfg.Height,
		"tile_size", cfg.TileSize,
		"workers", pool.GetNumWorkers())

	return &FrameOrchestrator{
		scene:    s,
		config:   s.Config.Clone(),
		width:    max(1, cfg.Width),
		height:   max(1, cfg.Height),
		camera:   NewCameraController(NewCameraState(s.Camera)),
		clock:    NewLightClock(),
		tileSize: cfg.TileSize,
		pool:     pool,
		captures: make(chan []byte, 1),
	}
}

// Camera returns the controller that input should be forwarded to
func (fo *FrameOrchestrator) Camera() *CameraController {
	return fo.camera
}

// Scene returns the current scene
func (fo *FrameOrchestrator) Scene() *scene.Scene {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return fo.scene
}

// SetScene switches to another scene, adopting its defaults and camera
func (fo *FrameOrchestrator) SetScene(s *scene.Scene) {
	fo.mu.Lock()
	fo.scene = s
	fo.config = s.Config.Clone()
	fo.mu.Unlock()

	// Input handlers hold the controller, so it is reset in place
	fo.camera.ResetTo(NewCameraState(s.Camera))
}

// Config returns a copy of the current render configuration
func (fo *FrameOrchestrator) Config() scene.RenderConfig {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return fo.config.Clone()
}

// SetConfig replaces the render configuration
func (fo *FrameOrchestrator) SetConfig(cfg scene.RenderConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid render config: %w", err)
	}
	fo.mu.Lock()
	defer fo.mu.Unlock()
	fo.config = cfg.Clone()
	return nil
}

// UpdateConfig applies fn to a copy of the configuration and keeps the result if valid
func (fo *FrameOrchestrator) UpdateConfig(fn func(*scene.RenderConfig)) error {
	cfg := fo.Config()
	fn(&cfg)
	return fo.SetConfig(cfg)
}

// Resize changes the viewport size
func (fo *FrameOrchestrator) Resize(width, height int) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	fo.width = max(1, width)
	fo.height = max(1, height)
}

// Viewport returns the viewport size
func (fo *FrameOrchestrator) Viewport() (int, int) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return fo.width, fo.height
}

// SetPointer records the pointer position in normalized -1..1 coordinates
func (fo *FrameOrchestrator) SetPointer(x, y float64) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	fo.pointerX = max(-1, min(1, x))
	fo.pointerY = max(-1, min(1, y))
}

// LightClock returns the current ambient light clock
func (fo *FrameOrchestrator) LightClock() LightClock {
	fo.tickMu.Lock()
	defer fo.tickMu.Unlock()
	return fo.clock
}

// Uniforms packs the current state into the kernel inputs without advancing time
func (fo *FrameOrchestrator) Uniforms() FrameUniforms {
	fo.tickMu.Lock()
	defer fo.tickMu.Unlock()
	return fo.uniforms()
}

// uniforms must be called with tickMu held
func (fo *FrameOrchestrator) uniforms() FrameUniforms {
	fo.mu.Lock()
	s := fo.scene
	cfg := fo.config.Clone()
	width, height := fo.width, fo.height
	px, py := fo.pointerX, fo.pointerY
	fo.mu.Unlock()

	density := max(1, cfg.PixelDensity)
	cam := fo.camera.Snapshot()
	power := geometry.AnimatedPower(cfg.Size, fo.elapsed)

	return FrameUniforms{
		Time:       fo.elapsed,
		LightTime:  fo.clock.Time,
		Width:      width * density,
		Height:     height * density,
		PointerX:   px,
		PointerY:   py,
		Power:      power,
		Camera:     cam,
		View:       NewView(cam),
		Config:     cfg,
		Field:      s.Field(power),
		Background: s.BackgroundColor(cfg),
		Light:      LightOffset(fo.clock.Time, s.LightDrift),
		March:      s.MarchConfig,
	}
}

// Tick advances one displayed frame by dt seconds and renders it
func (fo *FrameOrchestrator) Tick(dt float64) (*Frame, error) {
	fo.tickMu.Lock()
	defer fo.tickMu.Unlock()

	fo.elapsed += dt
	fo.camera.Update()
	fo.camera.Advance(dt)
	fo.clock.Advance(dt, fo.camera.Interacting(InteractionThreshold))

	u := fo.uniforms()
	frame, err := fo.render(u)
	if err != nil {
		return nil, err
	}

	if fo.captureRequested.CompareAndSwap(true, false) {
		fo.deliverCapture(frame)
	}
	return frame, nil
}

// render must be called with tickMu held
func (fo *FrameOrchestrator) render(u FrameUniforms) (*Frame, error) {
	start := time.Now()
	job := &FrameJob{
		Image:      image.NewRGBA(image.Rect(0, 0, u.Width, u.Height)),
		View:       u.View,
		Integrator: u.Integrator(),
	}

	stats, err := fo.pool.RenderTiles(job, NewTileGrid(u.Width, u.Height, fo.tileSize))
	if err != nil {
		return nil, err
	}
	stats.RenderTime = time.Since(start)

	fo.frameMu.Lock()
	number := 1
	if fo.frame != nil {
		number = fo.frame.Number + 1
	}
	frame := &Frame{Number: number, Image: job.Image, Stats: stats, Uniforms: u}
	fo.frame = frame
	fo.frameMu.Unlock()

	core.Logger().Debug("frame rendered",
		"frame", frame.Number,
		"width", u.Width,
		"height", u.Height,
		"hit_ratio", stats.HitRatio(),
		"avg_steps", stats.AverageSteps,
		"duration", stats.RenderTime)
	return frame, nil
}

// LastFrame returns the most recently completed frame
func (fo *FrameOrchestrator) LastFrame() (*Frame, bool) {
	fo.frameMu.RLock()
	defer fo.frameMu.RUnlock()
	return fo.frame, fo.frame != nil
}

// Capture encodes the most recently completed frame as PNG.
// ok is false when no frame has been completed yet.
func (fo *FrameOrchestrator) Capture() (data []byte, ok bool) {
	fo.frameMu.RLock()
	defer fo.frameMu.RUnlock()
	if fo.frame == nil {
		return nil, false
	}

	data, err := EncodePNG(fo.frame.Image)
	if err != nil {
		core.Logger().Error("capture failed", "error", err)
		return nil, false
	}
	return data, true
}

// RequestCapture asks for the next completed frame to be delivered on Captures
func (fo *FrameOrchestrator) RequestCapture() {
	fo.captureRequested.Store(true)
}

// Captures delivers PNG frames requested with RequestCapture
func (fo *FrameOrchestrator) Captures() <-chan []byte {
	return fo.captures
}

func (fo *FrameOrchestrator) deliverCapture(frame *Frame) {
	data, err := EncodePNG(frame.Image)
	if err != nil {
		core.Logger().Error("capture failed", "frame", frame.Number, "error", err)
		return
	}
	select {
	case fo.captures <- data:
	default:
		core.Logger().Warn("capture dropped, previous capture not consumed", "frame", frame.Number)
	}
}

// Run calls Tick for every value received on ticks (the frame's dt in seconds)
// until ctx is done or ticks is closed. Each rendered frame is passed to onFrame
// if it is non-nil.
func (fo *FrameOrchestrator) Run(ctx context.Context, ticks <-chan float64, onFrame func(*Frame)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case dt, ok := <-ticks:
			if !ok {
				return nil
			}
			frame, err := fo.Tick(dt)
			if err != nil {
				return err
			}
			if onFrame != nil {
				onFrame(frame)
			}
		}
	}
}

// Stop shuts down the worker pool
func (fo *FrameOrchestrator) Stop() {
	fo.pool.Stop()
}

// EncodePNG encodes an image as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
