package scene

import (
	"fmt"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
)

const (
	MinSize = 2.0  // Smallest fractal power offered
	MaxSize = 20.0 // Largest fractal power offered

	DefaultPixelDensity = 2
	HighPixelDensity    = 3
)

// RenderConfig holds the user-facing visual parameters. Colors are linear sRGB.
type RenderConfig struct {
	ColorA       core.Vec3
	ColorB       core.Vec3
	ColorBG      *core.Vec3 // Optional background override
	Mode         material.EasingMode
	Size         float64 // Base fractal power
	PixelDensity int     // Render scale relative to the viewport
}

// DefaultRenderConfig returns white-to-black linear banding at power 8
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ColorA:       material.MustParseHexColor("#FFFFFF"),
		ColorB:       material.MustParseHexColor("#000000"),
		Mode:         material.ModeLinear,
		Size:         8,
		PixelDensity: DefaultPixelDensity,
	}
}

// Mixer returns the color mixer for this configuration
func (c RenderConfig) Mixer() material.Mixer {
	return material.NewMixer(c.ColorA, c.ColorB, c.Mode)
}

// Clone returns a copy that does not share the background pointer
func (c RenderConfig) Clone() RenderConfig {
	if c.ColorBG != nil {
		bg := *c.ColorBG
		c.ColorBG = &bg
	}
	return c
}

// SetColorAHex replaces ColorA. Invalid input leaves the color unchanged.
func (c *RenderConfig) SetColorAHex(s string) error {
	return setHex(&c.ColorA, s)
}

// SetColorBHex replaces ColorB. Invalid input leaves the color unchanged.
func (c *RenderConfig) SetColorBHex(s string) error {
	return setHex(&c.ColorB, s)
}

// SetBackgroundHex sets the background override. Invalid input leaves it unchanged.
func (c *RenderConfig) SetBackgroundHex(s string) error {
	bg, err := material.ParseHexColor(s)
	if err != nil {
		core.Logger().Warn("rejected background color", "value", s, "error", err)
		return err
	}
	c.ColorBG = &bg
	return nil
}

func setHex(dst *core.Vec3, s string) error {
	parsed, err := material.ParseHexColor(s)
	if err != nil {
		core.Logger().Warn("rejected color", "value", s, "error", err)
		return err
	}
	*dst = parsed
	return nil
}

// SetMode changes the easing mode; out-of-range modes are rejected
func (c *RenderConfig) SetMode(mode material.EasingMode) error {
	if !mode.Valid() {
		return fmt.Errorf("easing mode %d out of range [0,%d)", int(mode), material.NumModes)
	}
	c.Mode = mode
	return nil
}

// SetSize sets the fractal power, clamped to [MinSize, MaxSize]
func (c *RenderConfig) SetSize(size float64) {
	c.Size = max(MinSize, min(MaxSize, size))
}

// ToggleDensity switches between the normal and high pixel density
func (c *RenderConfig) ToggleDensity() {
	if c.PixelDensity == HighPixelDensity {
		c.PixelDensity = DefaultPixelDensity
	} else {
		c.PixelDensity = HighPixelDensity
	}
}

// Validate checks that the configuration can be rendered
func (c RenderConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("easing mode %d out of range [0,%d)", int(c.Mode), material.NumModes)
	}
	if c.PixelDensity < 1 {
		return fmt.Errorf("pixel density must be positive, got %d", c.PixelDensity)
	}
	if c.Size < MinSize || c.Size > MaxSize {
		return fmt.Errorf("size %.2f out of range [%.0f,%.0f]", c.Size, MinSize, MaxSize)
	}
	return nil
}
