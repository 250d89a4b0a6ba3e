// Package controls maps viewer commands onto a frame orchestrator. It holds
// no windowing code so the mapping can be tested headless.
package controls

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
)

// Kind identifies a discrete viewer command
type Kind int

const (
	Reset Kind = iota
	Capture
	SelectMode
	AdjustSize
	ToggleDensity
	ToggleVariant
)

// Command is one discrete action triggered by a key press
type Command struct {
	Kind  Kind
	Mode  material.EasingMode // SelectMode
	Delta float64             // AdjustSize
}

// WheelScale converts one wheel notch into browser-style deltaY units
const WheelScale = 100.0

// Apply performs cmd on fo
func Apply(fo *renderer.FrameOrchestrator, cmd Command) error {
	switch cmd.Kind {
	case Reset:
		fo.Camera().Reset()
	case Capture:
		fo.RequestCapture()
	case SelectMode:
		var err error
		if updateErr := fo.UpdateConfig(func(cfg *scene.RenderConfig) {
			err = cfg.SetMode(cmd.Mode)
		}); updateErr != nil {
			return updateErr
		}
		return err
	case AdjustSize:
		return fo.UpdateConfig(func(cfg *scene.RenderConfig) {
			cfg.SetSize(cfg.Size + cmd.Delta)
		})
	case ToggleDensity:
		return fo.UpdateConfig(func(cfg *scene.RenderConfig) {
			cfg.ToggleDensity()
		})
	case ToggleVariant:
		next := scene.VariantFlight
		if fo.Scene().Variant == scene.VariantFlight {
			next = scene.VariantOrbit
		}
		s, err := scene.New(next)
		if err != nil {
			return err
		}
		fo.SetScene(s)
		core.Logger().Info("variant switched", "variant", next)
	default:
		return fmt.Errorf("unknown command %d", cmd.Kind)
	}
	return nil
}

// PointerNDC converts window pixel coordinates into [-1,1] with +y up
func PointerNDC(x, y float64, width, height int) (float64, float64) {
	if width < 1 || height < 1 {
		return 0, 0
	}
	return 2*x/float64(width) - 1, 1 - 2*y/float64(height)
}

// WheelDelta converts an ebiten-style wheel offset (positive = away from the
// user) into a browser-style deltaY (positive = towards the user)
func WheelDelta(yoff float64) float64 {
	return -yoff * WheelScale
}

// TouchDir maps a touch to a flight direction: the top quarter of the window
// flies forward, the bottom quarter backward and the middle does nothing.
func TouchDir(y float64, height int) float64 {
	h := float64(height)
	switch {
	case height < 1:
		return 0
	case y < h/4:
		return 1
	case y > 3*h/4:
		return -1
	}
	return 0
}

// CapturePath names a capture file: <dir>/<variant>_<timestamp>.png
func CapturePath(dir string, v scene.Variant, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", v, at.Format("20060102_150405.000")))
}

// SaveCapture writes PNG data to CapturePath, creating dir if needed
func SaveCapture(dir string, v scene.Variant, at time.Time, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}
	path := CapturePath(dir, v, at)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write capture: %w", err)
	}
	return path, nil
}
