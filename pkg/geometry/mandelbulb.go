package geometry

import (
	"math"

	"github.com/df07/go-fractal-explorer/pkg/core"
)

const (
	DefaultIterations     = 10   // Fixed iteration budget for the power fractal
	DefaultInversionScale = 1.0  // k in p/|p|²·k
	EscapeRadius          = 2.0  // Orbit is considered escaped beyond this radius
	InversionEpsilon      = 1e-6 // |p|² at or below this skips the inversion
	radiusEpsilon         = 1e-12
)

// Mandelbulb is the power-based 3D fractal distance estimator.
// With Inversion enabled the point is first mapped through a Kelvin transform,
// which turns the bulb inside out around the origin.
type Mandelbulb struct {
	Power          float64 // Fractal power (the "size" parameter plus its time wiggle)
	Iterations     int     // Iteration budget
	Inversion      bool    // Apply the Kelvin transform before iterating
	InversionScale float64 // Scale factor k of the inversion
}

// NewMandelbulb creates a Mandelbulb with the default iteration budget
func NewMandelbulb(power float64, inversion bool) Mandelbulb {
	return Mandelbulb{
		Power:          power,
		Iterations:     DefaultIterations,
		Inversion:      inversion,
		InversionScale: DefaultInversionScale,
	}
}

// AnimatedPower returns the fractal power for a given size at the given time.
// The power wobbles by ±0.1 with a period of roughly a minute.
func AnimatedPower(size, time float64) float64 {
	return size + 0.1*math.Sin(time*0.1)
}

// Evaluate returns the distance estimate and orbit trap at p
func (m Mandelbulb) Evaluate(p core.Vec3) DistanceSample {
	iterations := m.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	k := m.InversionScale
	if k == 0 {
		k = DefaultInversionScale
	}

	inverted := false
	r2 := p.LengthSquared()
	if m.Inversion && r2 > InversionEpsilon {
		p = p.Multiply(k / r2)
		inverted = true
	}

	z := p
	dr := 1.0
	r := 0.0
	trapIter := 0
	power := m.Power

	for i := 0; i < iterations; i++ {
		r = z.Length()
		if r > EscapeRadius {
			break
		}
		trapIter = i

		safeR := max(r, radiusEpsilon)
		theta := math.Acos(max(-1, min(1, z.Y/safeR)))
		phi := math.Atan2(z.Z, z.X)

		dr = math.Pow(safeR, power-1)*power*dr + 1

		zr := math.Pow(r, power)
		theta *= power
		phi *= power

		sinTheta, cosTheta := math.Sincos(theta)
		sinPhi, cosPhi := math.Sincos(phi)
		z = core.NewVec3(sinTheta*cosPhi, cosTheta, sinTheta*sinPhi).Multiply(zr).Add(p)
	}

	r = max(r, radiusEpsilon)
	distance := 0.5 * math.Log(r) * r / dr
	if inverted {
		distance *= r2 / k
	}

	trap := float64(trapIter) / float64(iterations)
	return DistanceSample{
		Distance: distance,
		Trap:     max(0, min(1, trap)),
	}
}
