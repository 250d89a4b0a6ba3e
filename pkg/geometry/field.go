package geometry

import "github.com/df07/go-fractal-explorer/pkg/core"

// DistanceSample is the result of evaluating a distance field at a point
type DistanceSample struct {
	Distance float64 // Lower bound on the distance to the surface
	Trap     float64 // Normalized escape iteration in [0,1], used for coloring
}

// DistanceField is implemented by anything that can bound the distance to its surface.
// Implementations must be pure: the renderer calls Evaluate concurrently from many workers.
type DistanceField interface {
	Evaluate(p core.Vec3) DistanceSample
}

// DistanceFunc adapts a plain function into a DistanceField
type DistanceFunc func(p core.Vec3) DistanceSample

// Evaluate calls f(p)
func (f DistanceFunc) Evaluate(p core.Vec3) DistanceSample {
	return f(p)
}
