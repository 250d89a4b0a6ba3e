package material

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// EasingMode selects the curve applied to the orbit trap before banding
type EasingMode int

const (
	ModeLinear      EasingMode = iota // t
	ModeEaseIn                        // t²
	ModeEaseInStrong                  // t⁴
	ModeEaseOut                       // 1-(1-t)²
	ModeSqrt                          // √t
	ModeCompressed                    // 1-1/(1+10t)

	NumModes = 6
)

// Bands is the number of discrete color levels after quantization
const Bands = 10

// quantizeEpsilon absorbs the float32 round-off of the easing curves so that
// exact band edges (0.7 for example) land in the band they name.
const quantizeEpsilon = 1e-6

var easings = [NumModes]ease.TweenFunc{
	ease.Linear,
	ease.InQuad,
	ease.InQuart,
	ease.OutQuad,
	outSqrt,
	outCompressed,
}

var modeNames = [NumModes]string{
	"linear",
	"ease-in",
	"ease-in-strong",
	"ease-out",
	"sqrt",
	"compressed",
}

func outSqrt(t, b, c, d float32) float32 {
	return c*float32(math.Sqrt(float64(t/d))) + b
}

func outCompressed(t, b, c, d float32) float32 {
	return c*(1-1/(1+10*t/d)) + b
}

// Valid reports whether m names one of the six curves
func (m EasingMode) Valid() bool {
	return m >= 0 && m < NumModes
}

func (m EasingMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseEasingMode accepts either a numeric mode (0-5) or a curve name
func ParseEasingMode(s string) (EasingMode, error) {
	for i, name := range modeNames {
		if s == name || s == fmt.Sprint(i) {
			return EasingMode(i), nil
		}
	}
	return ModeLinear, fmt.Errorf("unknown easing mode %q", s)
}

// Ease maps t through the curve for mode. t is clamped to [0,1] and
// out-of-range modes fall back to the identity curve.
func Ease(mode EasingMode, t float64) float64 {
	t = max(0, min(1, t))
	fn := easings[ModeLinear]
	if mode.Valid() {
		fn = easings[mode]
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// Quantize snaps t to one of the Bands levels {0, 0.1, ..., 0.9}
func Quantize(t float64) float64 {
	band := math.Floor(t*Bands + quantizeEpsilon)
	band = max(0, min(Bands-1, band))
	return band / Bands
}

// ShadeParameter is the full trap-to-mix-factor pipeline: ease, then quantize
func ShadeParameter(mode EasingMode, trap float64) float64 {
	return Quantize(Ease(mode, trap))
}
