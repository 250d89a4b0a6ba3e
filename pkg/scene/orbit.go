package scene

import (
	"github.com/df07/go-fractal-explorer/pkg/geometry"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
	"github.com/df07/go-fractal-explorer/pkg/material"
)

// NewOrbitScene creates the classic Mandelbulb: power 8, viewed from a camera
// circling the origin, with a headlight that slowly wanders while the view is idle.
func NewOrbitScene() *Scene {
	config := DefaultRenderConfig()
	bg := material.MustParseHexColor("#0C0C10")
	config.ColorBG = &bg

	return &Scene{
		Variant:        VariantOrbit,
		Name:           "Mandelbulb",
		Description:    "Power-8 Mandelbulb orbited around the origin",
		Inversion:      false,
		InversionScale: geometry.DefaultInversionScale,
		Config:         config,
		Camera: CameraDefaults{
			Yaw:           0.5,
			Pitch:         0.5,
			OrbitDistance: 2.5,
		},
		Background:  bg,
		UseColorBG:  true,
		LightDrift:  0.35,
		MarchConfig: integrator.DefaultMarchConfig(),
	}
}
