package material

import (
	"image/color"

	"github.com/df07/go-fractal-explorer/pkg/core"
)

// Gamma is the display gamma applied to every output pixel
const Gamma = 2.2

// Mixer turns an orbit trap into a surface albedo by blending two colors
type Mixer struct {
	ColorA core.Vec3 // Linear sRGB color at trap 0
	ColorB core.Vec3 // Linear sRGB color at trap 1
	Mode   EasingMode
}

// NewMixer creates a mixer between two linear sRGB colors
func NewMixer(colorA, colorB core.Vec3, mode EasingMode) Mixer {
	return Mixer{ColorA: colorA, ColorB: colorB, Mode: mode}
}

// Albedo returns the banded Oklab blend for a trap value
func (m Mixer) Albedo(trap float64) core.Vec3 {
	return MixOklab(m.ColorA, m.ColorB, ShadeParameter(m.Mode, trap))
}

// Background returns the miss color: a base color brightened towards the top
// of the screen. v is the vertical screen coordinate, 0 at the bottom.
func Background(base core.Vec3, v float64) core.Vec3 {
	return base.AddScalar(0.1 * v)
}

// ToRGBA applies display gamma and converts a linear color to 8-bit RGBA
func ToRGBA(c core.Vec3) color.RGBA {
	c = c.GammaCorrect(Gamma).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}
