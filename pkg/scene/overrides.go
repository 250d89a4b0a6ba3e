package scene

import (
	"fmt"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
)

// Overrides are optional changes applied on top of a scene's defaults.
// Nil fields leave the default in place.
type Overrides struct {
	ColorA        *string
	ColorB        *string
	Background    *string // Also enables the background override for the scene
	Mode          *material.EasingMode
	Size          *float64
	PixelDensity  *int
	Position      *core.Vec3
	Yaw, Pitch    *float64
	OrbitDistance *float64
}

// Apply validates and applies the overrides to s. On error s may be partially modified.
func (o Overrides) Apply(s *Scene) error {
	cfg := &s.Config
	if o.ColorA != nil {
		if err := cfg.SetColorAHex(*o.ColorA); err != nil {
			return fmt.Errorf("color a: %w", err)
		}
	}
	if o.ColorB != nil {
		if err := cfg.SetColorBHex(*o.ColorB); err != nil {
			return fmt.Errorf("color b: %w", err)
		}
	}
	if o.Background != nil {
		if err := cfg.SetBackgroundHex(*o.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
		s.UseColorBG = true
	}
	if o.Mode != nil {
		if err := cfg.SetMode(*o.Mode); err != nil {
			return err
		}
	}
	if o.Size != nil {
		cfg.SetSize(*o.Size)
	}
	if o.PixelDensity != nil {
		if *o.PixelDensity < 1 {
			return fmt.Errorf("pixel density must be positive, got %d", *o.PixelDensity)
		}
		cfg.PixelDensity = *o.PixelDensity
	}

	cam := &s.Camera
	if o.Position != nil {
		cam.Position = *o.Position
	}
	if o.Yaw != nil {
		cam.Yaw = *o.Yaw
	}
	if o.Pitch != nil {
		cam.Pitch = *o.Pitch
	}
	if o.OrbitDistance != nil {
		if *o.OrbitDistance <= 0 {
			return fmt.Errorf("orbit distance must be positive, got %g", *o.OrbitDistance)
		}
		cam.OrbitDistance = *o.OrbitDistance
	}
	return cfg.Validate()
}
