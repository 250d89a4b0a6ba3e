package integrator

import (
	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
	"github.com/df07/go-fractal-explorer/pkg/material"
)

// Integrator computes the linear color seen along a camera ray.
// screenV is the vertical screen coordinate in [0,1] (0 at the bottom),
// used by the background gradient.
type Integrator interface {
	RayColor(ray core.Ray, screenV float64) (core.Vec3, MarchResult)
}

// Shading holds the per-frame inputs of the surface shader
type Shading struct {
	Mixer       material.Mixer
	Background  core.Vec3 // Base miss color, brightened by 0.1·v towards the top
	LightOffset core.Vec3 // Headlight displacement from the ray origin
}

// RaymarchIntegrator shades rays by sphere tracing a distance field and lighting
// the hit point with a shadowed headlight.
type RaymarchIntegrator struct {
	field     geometry.DistanceField
	marcher   *Marcher
	headlight Headlight
	shading   Shading
}

// NewRaymarchIntegrator creates an integrator for field with the given bounds and shading
func NewRaymarchIntegrator(field geometry.DistanceField, config MarchConfig, shading Shading) *RaymarchIntegrator {
	marcher := NewMarcher(field, config)
	return &RaymarchIntegrator{
		field:     field,
		marcher:   marcher,
		headlight: NewHeadlight(marcher),
		shading:   shading,
	}
}

// RayColor returns the linear (pre-gamma) color for the ray
func (ri *RaymarchIntegrator) RayColor(ray core.Ray, screenV float64) (core.Vec3, MarchResult) {
	result := ri.marcher.March(ray)
	if !result.Hit {
		return material.Background(ri.shading.Background, screenV), result
	}

	p := ray.At(result.Distance)
	trap := ri.field.Evaluate(p).Trap
	albedo := ri.shading.Mixer.Albedo(trap)

	n := EstimateNormal(ri.field, p, NormalEpsilon)
	light := ray.Origin.Add(ri.shading.LightOffset)
	return albedo.Multiply(ri.headlight.Intensity(p, n, light)), result
}

// Inspection is the full breakdown of one primary ray, for debugging tools
type Inspection struct {
	March      MarchResult
	Point      core.Vec3
	Sample     geometry.DistanceSample
	Normal     core.Vec3
	MixFactor  float64
	Albedo     core.Vec3
	Lighting   float64
	Color      core.Vec3 // Linear color, identical to RayColor
	Background bool
}

// Inspect traces a ray like RayColor and records every intermediate value
func (ri *RaymarchIntegrator) Inspect(ray core.Ray, screenV float64) Inspection {
	result := ri.marcher.March(ray)
	if !result.Hit {
		return Inspection{
			March:      result,
			Color:      material.Background(ri.shading.Background, screenV),
			Background: true,
		}
	}

	p := ray.At(result.Distance)
	sample := ri.field.Evaluate(p)
	mix := material.ShadeParameter(ri.shading.Mixer.Mode, sample.Trap)
	albedo := ri.shading.Mixer.Albedo(sample.Trap)
	n := EstimateNormal(ri.field, p, NormalEpsilon)
	lighting := ri.headlight.Intensity(p, n, ray.Origin.Add(ri.shading.LightOffset))

	return Inspection{
		March:     result,
		Point:     p,
		Sample:    sample,
		Normal:    n,
		MixFactor: mix,
		Albedo:    albedo,
		Lighting:  lighting,
		Color:     albedo.Multiply(lighting),
	}
}
