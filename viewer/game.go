package main

import (
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/viewer/controls"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game is the ebiten host. Rendering happens on a separate goroutine driven
// through ticks; Update only gathers input and forwards elapsed time.
type Game struct {
	fo         *renderer.FrameOrchestrator
	logger     *slog.Logger
	captureDir string

	ticks   chan float64
	runErr  chan error
	pending float64 // Time not yet delivered because the renderer was busy
	last    time.Time

	latest  atomic.Pointer[image.RGBA] // Newest frame at window resolution
	shown   *image.RGBA
	display *ebiten.Image

	width, height int
	touchIDs      []ebiten.TouchID
}

// NewGame creates a game around fo
func NewGame(fo *renderer.FrameOrchestrator, logger *slog.Logger, captureDir string) *Game {
	w, h := fo.Viewport()
	return &Game{
		fo:         fo,
		logger:     logger,
		captureDir: captureDir,
		ticks:      make(chan float64, 1),
		runErr:     make(chan error, 1),
		last:       time.Now(),
		width:      w,
		height:     h,
	}
}

// onFrame runs on the render goroutine
func (g *Game) onFrame(frame *renderer.Frame) {
	w, h := g.fo.Viewport()
	g.latest.Store(renderer.Downscale(frame.Image, w, h))
}

func (g *Game) Update() error {
	select {
	case err := <-g.runErr:
		return err
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.handlePointer()
	g.handleTouches()
	g.handleKeys()
	g.saveCaptures()

	now := time.Now()
	g.pending += now.Sub(g.last).Seconds()
	g.last = now
	select {
	case g.ticks <- g.pending:
		g.pending = 0
	default:
	}
	return nil
}

func (g *Game) handlePointer() {
	cam := g.fo.Camera()
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	inside := cx >= 0 && cy >= 0 && cx < g.width && cy < g.height

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside:
		cam.PointerDown(x, y)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		cam.PointerUp()
	case !inside && cam.Dragging():
		cam.PointerLeave()
	default:
		cam.PointerMove(x, y)
	}
	if inside {
		g.fo.SetPointer(controls.PointerNDC(x, y, g.width, g.height))
	}

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		cam.Wheel(controls.WheelDelta(yoff))
	}
}

func (g *Game) handleTouches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	dir := 0.0
	if len(g.touchIDs) > 0 {
		_, ty := ebiten.TouchPosition(g.touchIDs[0])
		dir = controls.TouchDir(float64(ty), g.height)
	}
	g.fo.Camera().SetTouchMove(dir)
}

func (g *Game) handleKeys() {
	cam := g.fo.Camera()
	for key, nav := range navKeys {
		cam.SetKey(nav, ebiten.IsKeyPressed(key))
	}
	for key, cmd := range commandKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if err := controls.Apply(g.fo, cmd); err != nil {
			g.logger.Warn("command rejected", "key", key.String(), "error", err)
		}
	}
}

func (g *Game) saveCaptures() {
	select {
	case data := <-g.fo.Captures():
		variant := g.fo.Scene().Variant
		go func() {
			path, err := controls.SaveCapture(g.captureDir, variant, time.Now(), data)
			if err != nil {
				g.logger.Error("capture failed", "error", err)
				return
			}
			g.logger.Info("capture saved", "path", path)
		}()
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	img := g.latest.Load()
	if img == nil {
		return
	}
	if img != g.shown {
		b := img.Bounds()
		if g.display == nil || g.display.Bounds().Size() != b.Size() {
			if g.display != nil {
				g.display.Deallocate()
			}
			g.display = ebiten.NewImage(b.Dx(), b.Dy())
		}
		g.display.WritePixels(img.Pix)
		g.shown = img
	}
	screen.DrawImage(g.display, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.fo.Resize(outsideWidth, outsideHeight)
		g.logger.Debug("viewport resized", "width", outsideWidth, "height", outsideHeight)
	}
	return outsideWidth, outsideHeight
}
