package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
)

// Variant names one of the fractal demos
type Variant string

const (
	VariantOrbit  Variant = "orbit"  // Classic Mandelbulb seen from an orbiting camera
	VariantFlight Variant = "flight" // Inverted bulb explored from the inside
)

// ErrUnknownVariant is returned for variant names that are not registered
var ErrUnknownVariant = errors.New("unknown variant")

// Variants returns every registered variant in display order
func Variants() []Variant {
	return []Variant{VariantOrbit, VariantFlight}
}

// ParseVariant resolves a variant name, case-insensitively
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Variants() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// CameraDefaults is the starting view of a variant
type CameraDefaults struct {
	Position      core.Vec3 // Starting position (flight variant)
	Yaw, Pitch    float64
	Flight        bool    // Free flight navigation instead of orbiting the origin
	OrbitDistance float64 // Distance from the origin (orbit variant)
}

// Scene describes one fractal configuration: the field settings, the default
// render parameters and the starting camera.
type Scene struct {
	Variant     Variant
	Name        string
	Description string

	Inversion      bool    // Kelvin transform before evaluating the bulb
	InversionScale float64 // k of the inversion

	Config RenderConfig   // Default render parameters
	Camera CameraDefaults // Default view

	Background  core.Vec3 // Miss color when the config has no background override
	UseColorBG  bool      // Whether RenderConfig.ColorBG overrides Background
	LightDrift  float64   // Radius of the headlight's wandering around the camera
	MarchConfig integrator.MarchConfig
}

// New creates the scene for a variant
func New(v Variant) (*Scene, error) {
	switch v {
	case VariantOrbit:
		return NewOrbitScene(), nil
	case VariantFlight:
		return NewFlightScene(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// Field returns the distance field for the given fractal power
func (s *Scene) Field(power float64) geometry.Mandelbulb {
	return geometry.Mandelbulb{
		Power:          power,
		Iterations:     geometry.DefaultIterations,
		Inversion:      s.Inversion,
		InversionScale: s.InversionScale,
	}
}

// BackgroundColor returns the linear miss color for cfg
func (s *Scene) BackgroundColor(cfg RenderConfig) core.Vec3 {
	if s.UseColorBG && cfg.ColorBG != nil {
		return *cfg.ColorBG
	}
	return s.Background
}

// Clone returns a deep copy that can be modified independently
func (s *Scene) Clone() *Scene {
	clone := *s
	clone.Config = s.Config.Clone()
	return &clone
}
