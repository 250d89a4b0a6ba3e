package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestMandelbulb_EscapesImmediately(t *testing.T) {
	m := NewMandelbulb(8, false)
	sample := m.Evaluate(core.NewVec3(3, 0, 0))

	// |p| > 2 on the first iteration: r=3, dr=1
	expected := 0.5 * math.Log(3) * 3
	assert.InDelta(t, expected, sample.Distance, 1e-12)
	assert.Equal(t, 0.0, sample.Trap)
}

func TestMandelbulb_Origin(t *testing.T) {
	tests := []struct {
		name      string
		inversion bool
	}{
		{"plain", false},
		{"inversion skipped at origin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMandelbulb(8, tt.inversion)
			sample := m.Evaluate(core.Vec3{})

			if math.IsNaN(sample.Distance) || math.IsInf(sample.Distance, 0) {
				t.Fatalf("Expected finite distance at origin, got %f", sample.Distance)
			}
			// Origin never escapes, so it is inside the set
			assert.LessOrEqual(t, sample.Distance, 0.0)
			assert.InDelta(t, 0.9, sample.Trap, 1e-12)
		})
	}
}

func TestMandelbulb_InversionScalesDistance(t *testing.T) {
	p := core.NewVec3(4, 1, -2)
	r2 := p.LengthSquared()

	plain := NewMandelbulb(8, false).Evaluate(p.Multiply(1 / r2))
	inverted := NewMandelbulb(8, true).Evaluate(p)

	assert.InDelta(t, plain.Distance*r2, inverted.Distance, 1e-9)
	assert.Equal(t, plain.Trap, inverted.Trap)
}

func TestMandelbulb_InversionScale(t *testing.T) {
	p := core.NewVec3(0.5, 0.5, 0.5)
	r2 := p.LengthSquared()
	const k = 2.0

	m := Mandelbulb{Power: 6, Iterations: DefaultIterations, Inversion: true, InversionScale: k}
	inverted := m.Evaluate(p)
	plain := Mandelbulb{Power: 6, Iterations: DefaultIterations}.Evaluate(p.Multiply(k / r2))

	assert.InDelta(t, plain.Distance*r2/k, inverted.Distance, 1e-9)
}

func TestMandelbulb_TrapRangeAndFinite(t *testing.T) {
	variants := []Mandelbulb{
		NewMandelbulb(8, false),
		NewMandelbulb(10, true),
		NewMandelbulb(2, false),
		NewMandelbulb(20, true),
	}

	for _, m := range variants {
		for x := -2.0; x <= 2.0; x += 0.25 {
			for y := -2.0; y <= 2.0; y += 0.5 {
				for z := -2.0; z <= 2.0; z += 0.5 {
					sample := m.Evaluate(core.NewVec3(x, y, z))
					if sample.Trap < 0 || sample.Trap > 1 {
						t.Fatalf("Trap %f out of range at (%f,%f,%f)", sample.Trap, x, y, z)
					}
					if math.IsNaN(sample.Distance) {
						t.Fatalf("NaN distance at (%f,%f,%f) power=%f inversion=%v", x, y, z, m.Power, m.Inversion)
					}
				}
			}
		}
	}
}

func TestMandelbulb_Pure(t *testing.T) {
	m := NewMandelbulb(8, true)
	p := core.NewVec3(0.3, -0.7, 1.1)

	first := m.Evaluate(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Evaluate(p))
	}
}

func TestMandelbulb_ZeroValueUsesDefaults(t *testing.T) {
	p := core.NewVec3(0.4, 0.2, -0.1)
	zero := Mandelbulb{Power: 8}
	explicit := Mandelbulb{Power: 8, Iterations: DefaultIterations, InversionScale: DefaultInversionScale}

	assert.Equal(t, explicit.Evaluate(p), zero.Evaluate(p))
}

func TestAnimatedPower(t *testing.T) {
	assert.Equal(t, 8.0, AnimatedPower(8, 0))
	assert.InDelta(t, 8.1, AnimatedPower(8, math.Pi*5), 1e-12)

	for tm := 0.0; tm < 200; tm += 7.3 {
		p := AnimatedPower(10, tm)
		if p < 9.9-1e-12 || p > 10.1+1e-12 {
			t.Errorf("Power %f outside wobble range at t=%f", p, tm)
		}
	}
}

func TestDistanceFunc(t *testing.T) {
	var field DistanceField = DistanceFunc(func(p core.Vec3) DistanceSample {
		return DistanceSample{Distance: p.Length() - 1}
	})

	assert.InDelta(t, 1.0, field.Evaluate(core.NewVec3(2, 0, 0)).Distance, 1e-12)
}
