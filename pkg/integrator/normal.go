package integrator

import (
	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
)

// NormalEpsilon is the finite-difference offset for surface normals
const NormalEpsilon = 0.001

// EstimateNormal approximates the field gradient at p with one-sided differences.
// Returns the zero vector when the gradient vanishes.
func EstimateNormal(field geometry.DistanceField, p core.Vec3, eps float64) core.Vec3 {
	d := field.Evaluate(p).Distance
	n := core.NewVec3(
		d-field.Evaluate(p.Subtract(core.NewVec3(eps, 0, 0))).Distance,
		d-field.Evaluate(p.Subtract(core.NewVec3(0, eps, 0))).Distance,
		d-field.Evaluate(p.Subtract(core.NewVec3(0, 0, eps))).Distance,
	)
	if !n.IsFinite() {
		return core.Vec3{}
	}
	return n.Normalize()
}
