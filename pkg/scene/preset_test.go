package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emberPreset = `name = "Ember"
description = "Warm bands"
variant = "orbit"
mode = 3
size = 9.5

[colors]
a = "#FFFFFF"
b = "#000000"
background = "#FF0000"

[camera]
yaw = 0.8
pitch = 0.2
orbit_distance = 2.2
`

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset([]byte(emberPreset))
	require.NoError(t, err)

	assert.Equal(t, "Ember", p.Name)
	assert.Equal(t, "orbit", p.Variant)
	require.NotNil(t, p.Mode)
	assert.Equal(t, 3, *p.Mode)
	require.NotNil(t, p.Camera.OrbitDistance)
	assert.Equal(t, 2.2, *p.Camera.OrbitDistance)
	assert.Nil(t, p.PixelDensity)
}

func TestParsePreset_UnknownField(t *testing.T) {
	_, err := ParsePreset([]byte("variant = \"orbit\"\nsise = 4\n"))
	assert.Error(t, err)
}

func TestPreset_Build(t *testing.T) {
	p, err := ParsePreset([]byte(emberPreset))
	require.NoError(t, err)

	s, err := p.Build()
	require.NoError(t, err)

	assert.Equal(t, VariantOrbit, s.Variant)
	assert.Equal(t, "Ember", s.Name)
	assert.Equal(t, material.ModeEaseOut, s.Config.Mode)
	assert.Equal(t, 9.5, s.Config.Size)
	assert.Equal(t, 0.8, s.Camera.Yaw)
	assert.Equal(t, 0.2, s.Camera.Pitch)
	assert.Equal(t, 2.2, s.Camera.OrbitDistance)
	assert.Equal(t, core.NewVec3(1, 0, 0), s.BackgroundColor(s.Config))

	// Untouched defaults survive
	assert.Equal(t, DefaultPixelDensity, s.Config.PixelDensity)
}

func TestPreset_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown variant", `variant = "spiral"`},
		{"bad color", "variant = \"orbit\"\n[colors]\na = \"#XYZXYZ\"\n"},
		{"bad mode", "variant = \"orbit\"\nmode = 9\n"},
		{"bad density", "variant = \"orbit\"\npixel_density = 0\n"},
		{"short position", "variant = \"flight\"\n[camera]\nposition = [1.0, 2.0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePreset([]byte(tt.toml))
			require.NoError(t, err)
			_, err = p.Build()
			assert.Error(t, err)
		})
	}

	p, _ := ParsePreset([]byte(`variant = "spiral"`))
	_, err := p.Build()
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestPreset_FlightPosition(t *testing.T) {
	p, err := ParsePreset([]byte("variant = \"flight\"\nsize = 30\n[camera]\nposition = [0.5, -0.25, 1.0]\n"))
	require.NoError(t, err)

	s, err := p.Build()
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0.5, -0.25, 1.0), s.Camera.Position)
	assert.Equal(t, MaxSize, s.Config.Size)
}

func TestLoadPreset_MissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPresetWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.toml")
	require.NoError(t, os.WriteFile(path, []byte("variant = \"orbit\"\nsize = 5.0\n"), 0o644))

	pw, err := NewPresetWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Scene, 8)
	done := make(chan error, 1)
	go func() {
		done <- pw.Run(ctx, func(s *Scene) { reloaded <- s })
	}()

	require.NoError(t, os.WriteFile(path, []byte("variant = \"flight\"\nsize = 12.0\n"), 0o644))

	select {
	case s := <-reloaded:
		assert.Equal(t, VariantFlight, s.Variant)
		assert.Equal(t, 12.0, s.Config.Size)
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for preset reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher did not stop after cancel")
	}
}
