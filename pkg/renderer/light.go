package renderer

import (
	"math"

	"github.com/df07/go-fractal-explorer/pkg/core"
)

const (
	LightBlend           = 0.1   // Per-frame blend of the clock speed towards its target
	InteractionThreshold = 0.001 // Angular speed above which the view counts as moving
)

// LightClock is the ambient lighting time. It runs at full speed while the
// view is idle and eases to a stop while the user drags or the view coasts,
// so the light does not wander during interaction.
type LightClock struct {
	Time  float64
	Speed float64
}

// NewLightClock creates a clock running at full speed
func NewLightClock() LightClock {
	return LightClock{Speed: 1}
}

// Advance moves the clock forward by dt seconds
func (lc *LightClock) Advance(dt float64, interacting bool) {
	target := 1.0
	if interacting {
		target = 0.0
	}
	lc.Speed += (target - lc.Speed) * LightBlend
	lc.Time += dt * lc.Speed
}

// LightOffset is the headlight displacement for a light time. The light
// traces a slow Lissajous loop of the given radius around the camera.
func LightOffset(lightTime, radius float64) core.Vec3 {
	if radius == 0 {
		return core.Vec3{}
	}
	return core.NewVec3(
		math.Cos(lightTime*0.5),
		0.5*math.Sin(lightTime*0.7),
		math.Sin(lightTime*0.5),
	).Multiply(radius)
}
