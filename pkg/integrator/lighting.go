package integrator

import (
	"github.com/df07/go-fractal-explorer/pkg/core"
)

const (
	AmbientLight      = 0.1 // Added to every lit surface
	ShadowAttenuation = 0.1 // Diffuse multiplier for occluded points
	falloff           = 0.5 // 1/(1+dist*falloff) distance attenuation
	shadowBias        = 4.0 // Shadow rays start this many surface distances off the surface
)

// Headlight is a point light travelling with the camera.
// Shadow rays are traced with the same marcher as primary rays.
type Headlight struct {
	marcher *Marcher
}

// NewHeadlight creates a headlight that casts shadows through marcher
func NewHeadlight(marcher *Marcher) Headlight {
	return Headlight{marcher: marcher}
}

// Intensity returns the scalar light reaching surface point p with normal n
// from a light at position light.
func (h Headlight) Intensity(p, n, light core.Vec3) float64 {
	toLight := light.Subtract(p)
	dist := toLight.Length()
	l := toLight.Normalize()

	atten := 1.0 / (1.0 + dist*falloff)
	diffuse := max(0, min(1, n.Dot(l))) * atten

	origin := p.Add(n.Multiply(h.marcher.Config.SurfaceDistance * shadowBias))
	shadow := h.marcher.March(core.NewRay(origin, l))
	if shadow.Distance < dist {
		diffuse *= ShadowAttenuation
	}

	return diffuse + AmbientLight
}
