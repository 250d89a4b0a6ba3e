package integrator

import (
	"math"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/geometry"
)

// MarchConfig bounds the sphere tracer
type MarchConfig struct {
	MaxSteps        int     // Maximum number of field evaluations per ray
	MaxDistance     float64 // Rays travelling further than this are misses
	SurfaceDistance float64 // Local estimate below this counts as touching the surface
}

// DefaultMarchConfig returns the bounds used by both fractal variants
func DefaultMarchConfig() MarchConfig {
	return MarchConfig{
		MaxSteps:        100,
		MaxDistance:     100.0,
		SurfaceDistance: 0.00076,
	}
}

// MarchResult describes where a ray ended up
type MarchResult struct {
	Distance float64 // Distance along the ray; MaxDistance on a miss
	Steps    int     // Field evaluations spent
	Hit      bool
}

// Marcher sphere-traces rays through a distance field
type Marcher struct {
	Field  geometry.DistanceField
	Config MarchConfig
}

// NewMarcher creates a marcher for the given field
func NewMarcher(field geometry.DistanceField, config MarchConfig) *Marcher {
	return &Marcher{Field: field, Config: config}
}

// March steps along the ray by the local distance estimate until it reaches
// the surface, leaves the distance bound, or spends its step budget.
func (m *Marcher) March(ray core.Ray) MarchResult {
	cfg := m.Config
	traveled := 0.0
	steps := 0

	for steps < cfg.MaxSteps {
		p := ray.At(traveled)
		ds := m.Field.Evaluate(p).Distance
		steps++

		if math.IsNaN(ds) {
			return MarchResult{Distance: cfg.MaxDistance, Steps: steps}
		}

		traveled += ds
		if traveled > cfg.MaxDistance || ds < cfg.SurfaceDistance {
			break
		}
	}

	if traveled < cfg.MaxDistance {
		return MarchResult{Distance: traveled, Steps: steps, Hit: true}
	}
	return MarchResult{Distance: cfg.MaxDistance, Steps: steps}
}
