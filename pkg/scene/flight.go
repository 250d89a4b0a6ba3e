package scene

import (
	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
)

// NewFlightScene creates the inverted Mandelbulb explorer. The Kelvin transform
// turns the bulb inside out, so the camera starts next to the origin and flies
// through the resulting cavern.
func NewFlightScene() *Scene {
	config := DefaultRenderConfig()
	config.Size = 10

	return &Scene{
		Variant:        VariantFlight,
		Name:           "Mandelbulb Explorer",
		Description:    "Inverted Mandelbulb with free flight navigation",
		Inversion:      true,
		InversionScale: geometry.DefaultInversionScale,
		Config:         config,
		Camera: CameraDefaults{
			Position: core.NewVec3(0.001, 0.001, 0.001),
			Flight:   true,
		},
		Background:  core.NewVec3(0.02, 0.02, 0.03),
		MarchConfig: integrator.DefaultMarchConfig(),
	}
}
