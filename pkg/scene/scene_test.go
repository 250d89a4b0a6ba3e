package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected Variant
		wantErr  bool
	}{
		{"orbit", VariantOrbit, false},
		{"Flight", VariantFlight, false},
		{" orbit ", VariantOrbit, false},
		{"meatball", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownVariant))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestNew_Variants(t *testing.T) {
	orbit, err := New(VariantOrbit)
	require.NoError(t, err)
	assert.False(t, orbit.Inversion)
	assert.False(t, orbit.Camera.Flight)
	assert.Equal(t, 8.0, orbit.Config.Size)
	assert.Equal(t, 2.5, orbit.Camera.OrbitDistance)
	assert.Greater(t, orbit.LightDrift, 0.0)
	require.NotNil(t, orbit.Config.ColorBG)

	flight, err := New(VariantFlight)
	require.NoError(t, err)
	assert.True(t, flight.Inversion)
	assert.True(t, flight.Camera.Flight)
	assert.Equal(t, 10.0, flight.Config.Size)
	assert.Equal(t, core.NewVec3(0.001, 0.001, 0.001), flight.Camera.Position)
	assert.Equal(t, 0.0, flight.LightDrift)

	_, err = New("nope")
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestScene_Field(t *testing.T) {
	flight := NewFlightScene()
	field := flight.Field(10.05)

	assert.Equal(t, 10.05, field.Power)
	assert.True(t, field.Inversion)
	assert.Equal(t, 1.0, field.InversionScale)
}

func TestScene_BackgroundColor(t *testing.T) {
	orbit := NewOrbitScene()
	cfg := orbit.Config
	assert.Equal(t, *cfg.ColorBG, orbit.BackgroundColor(cfg))

	require.NoError(t, cfg.SetBackgroundHex("#FF0000"))
	assert.InDelta(t, 1.0, orbit.BackgroundColor(cfg).X, 1e-12)

	// The flight demo always uses its fixed dark gradient
	flight := NewFlightScene()
	assert.Equal(t, core.NewVec3(0.02, 0.02, 0.03), flight.BackgroundColor(cfg))
}

func TestScene_CloneIsIndependent(t *testing.T) {
	orbit := NewOrbitScene()
	clone := orbit.Clone()

	require.NoError(t, clone.Config.SetBackgroundHex("#FFFFFF"))
	clone.Config.Size = 3

	assert.NotEqual(t, *orbit.Config.ColorBG, *clone.Config.ColorBG)
	assert.Equal(t, 8.0, orbit.Config.Size)
}

func TestRenderConfig_InvalidColorKeepsPrevious(t *testing.T) {
	cfg := DefaultRenderConfig()
	before := cfg.ColorA

	err := cfg.SetColorAHex("#ZZZZZZ")
	assert.True(t, errors.Is(err, material.ErrInvalidColor))
	assert.Equal(t, before, cfg.ColorA)

	err = cfg.SetColorBHex("not a color")
	assert.Error(t, err)
	assert.Equal(t, core.Vec3{}, cfg.ColorB)

	assert.Error(t, cfg.SetBackgroundHex("#12"))
	assert.Nil(t, cfg.ColorBG)

	require.NoError(t, cfg.SetColorBHex("#FFFFFF"))
	assert.InDelta(t, 1.0, cfg.ColorB.Y, 1e-12)
}

func TestRenderConfig_SetSize(t *testing.T) {
	tests := []struct {
		input, expected float64
	}{
		{1, MinSize},
		{8, 8},
		{25, MaxSize},
	}

	for _, tt := range tests {
		cfg := DefaultRenderConfig()
		cfg.SetSize(tt.input)
		assert.Equal(t, tt.expected, cfg.Size)
	}
}

func TestRenderConfig_ToggleDensity(t *testing.T) {
	cfg := DefaultRenderConfig()
	assert.Equal(t, 2, cfg.PixelDensity)

	cfg.ToggleDensity()
	assert.Equal(t, 3, cfg.PixelDensity)
	cfg.ToggleDensity()
	assert.Equal(t, 2, cfg.PixelDensity)
}

func TestRenderConfig_Validate(t *testing.T) {
	cfg := DefaultRenderConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Mode = 7
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.PixelDensity = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Size = 40
	assert.Error(t, bad.Validate())

	assert.Error(t, cfg.SetMode(-1))
	assert.Equal(t, material.ModeLinear, cfg.Mode)
}
