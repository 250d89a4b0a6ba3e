package material

import (
	"math"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Oklab conversion matrices (Björn Ottosson, https://bottosson.github.io/posts/oklab/)
var (
	linearToLMS = mgl64.Mat3FromRows(
		mgl64.Vec3{0.4122214708, 0.5363325363, 0.0514459929},
		mgl64.Vec3{0.2119034982, 0.6806995451, 0.1073969566},
		mgl64.Vec3{0.0883024619, 0.2817188376, 0.6299787005},
	)
	lmsToLab = mgl64.Mat3FromRows(
		mgl64.Vec3{0.2104542553, 0.7936177850, -0.0040720468},
		mgl64.Vec3{1.9779984951, -2.4285922050, 0.4505937099},
		mgl64.Vec3{0.0259040371, 0.7827717662, -0.8086757660},
	)
	labToLMS = mgl64.Mat3FromRows(
		mgl64.Vec3{1, 0.3963377774, 0.2158037573},
		mgl64.Vec3{1, -0.1055613458, -0.0638541728},
		mgl64.Vec3{1, -0.0894841775, -1.2914855480},
	)
	lmsToLinear = mgl64.Mat3FromRows(
		mgl64.Vec3{4.0767416621, -3.3077115913, 0.2309699292},
		mgl64.Vec3{-1.2684380046, 2.6097574011, -0.3413193965},
		mgl64.Vec3{-0.0041960863, -0.7034186147, 1.7076147010},
	)
)

// LinearToOklab converts a linear sRGB color to Oklab (L, a, b)
func LinearToOklab(c core.Vec3) core.Vec3 {
	lms := linearToLMS.Mul3x1(c.Mgl())
	lms = mgl64.Vec3{math.Cbrt(lms[0]), math.Cbrt(lms[1]), math.Cbrt(lms[2])}
	return core.Vec3FromMgl(lmsToLab.Mul3x1(lms))
}

// OklabToLinear converts an Oklab color back to linear sRGB
func OklabToLinear(lab core.Vec3) core.Vec3 {
	lms := labToLMS.Mul3x1(lab.Mgl())
	lms = mgl64.Vec3{lms[0] * lms[0] * lms[0], lms[1] * lms[1] * lms[1], lms[2] * lms[2] * lms[2]}
	return core.Vec3FromMgl(lmsToLinear.Mul3x1(lms))
}

// MixOklab blends two linear sRGB colors by interpolating in Oklab space.
// t=0 yields a, t=1 yields b (up to conversion round-off).
func MixOklab(a, b core.Vec3, t float64) core.Vec3 {
	if a == b {
		return a
	}
	return OklabToLinear(LinearToOklab(a).Lerp(LinearToOklab(b), t))
}
