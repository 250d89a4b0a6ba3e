package scene

import (
	"testing"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestOverrides_Empty(t *testing.T) {
	s := NewOrbitScene()
	before := s.Clone()
	require.NoError(t, Overrides{}.Apply(s))
	assert.Equal(t, before, s)
}

func TestOverrides_Apply(t *testing.T) {
	s := NewFlightScene()
	require.False(t, s.UseColorBG)

	err := Overrides{
		ColorA:       ptr("#FF0000"),
		Background:   ptr("#0000FF"),
		Mode:         ptr(material.ModeCompressed),
		Size:         ptr(1.0),
		PixelDensity: ptr(3),
		Position:     ptr(core.NewVec3(0.1, 0.2, 0.3)),
		Yaw:          ptr(0.25),
	}.Apply(s)
	require.NoError(t, err)

	assert.Equal(t, core.NewVec3(1, 0, 0), s.Config.ColorA)
	assert.Equal(t, core.NewVec3(0, 0, 1), s.BackgroundColor(s.Config), "background override is enabled")
	assert.Equal(t, material.ModeCompressed, s.Config.Mode)
	assert.Equal(t, MinSize, s.Config.Size, "size is clamped")
	assert.Equal(t, 3, s.Config.PixelDensity)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), s.Camera.Position)
	assert.Equal(t, 0.25, s.Camera.Yaw)
	assert.Equal(t, 0.0, s.Camera.Pitch, "unset stays default")
}

func TestOverrides_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    Overrides
	}{
		{"bad color a", Overrides{ColorA: ptr("red")}},
		{"bad color b", Overrides{ColorB: ptr("#12345")}},
		{"bad background", Overrides{Background: ptr("")}},
		{"bad mode", Overrides{Mode: ptr(material.EasingMode(-1))}},
		{"bad density", Overrides{PixelDensity: ptr(0)}},
		{"bad orbit distance", Overrides{OrbitDistance: ptr(-1.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.o.Apply(NewOrbitScene()))
		})
	}
}
