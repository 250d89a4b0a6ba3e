package renderer

import (
	"github.com/df07/go-fractal-explorer/pkg/core"
)

// worldUp is the reference up vector for building the view basis
var worldUp = core.NewVec3(0, 1, 0)

// View is the per-frame camera basis used to generate primary rays
type View struct {
	Eye     core.Vec3
	Forward core.Vec3
	Right   core.Vec3
	Up      core.Vec3
}

// NewView builds an orthonormal basis from the camera state. Looking straight
// up or down falls back to +Z for the right vector.
func NewView(state CameraState) View {
	forward := state.Forward()

	right := worldUp.Cross(forward)
	if right.Length() < 1e-3 {
		right = core.NewVec3(0, 0, 1).Cross(forward)
	}
	right = right.Normalize()

	return View{
		Eye:     state.Eye(),
		Forward: forward,
		Right:   right,
		Up:      forward.Cross(right),
	}
}

// ScreenCoords maps pixel (x, y) of a width×height image to centred screen
// coordinates (u, v) with u scaled by the aspect ratio, plus the raw vertical
// texture coordinate (0 at the bottom row, 1 at the top).
func ScreenCoords(x, y, width, height int) (u, v, texV float64) {
	texU := (float64(x) + 0.5) / float64(width)
	texV = 1 - (float64(y)+0.5)/float64(height)

	u = (texU - 0.5) * float64(width) / float64(height)
	v = texV - 0.5
	return u, v, texV
}

// Ray returns the primary ray through centred screen coordinates (u, v)
func (v View) Ray(u, w float64) core.Ray {
	dir := v.Forward.Add(v.Right.Multiply(u)).Add(v.Up.Multiply(w)).Normalize()
	return core.NewRay(v.Eye, dir)
}

// PixelRay returns the primary ray and texture v for pixel (x, y)
func (v View) PixelRay(x, y, width, height int) (core.Ray, float64) {
	u, w, texV := ScreenCoords(x, y, width, height)
	return v.Ray(u, w), texV
}
