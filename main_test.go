package main

import (
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in variants
		{"orbit variant", "orbit", false},
		{"flight variant", "flight", false},
		{"variant case-insensitive", "Flight", false},

		// Presets (by name)
		{"ember preset", "preset:ember", false},
		{"deep-cavern preset", "preset:deep-cavern", false},

		// Presets (by path)
		{"direct preset path", "presets/bone.toml", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"missing preset", "preset:nonexistent", true},
		{"invalid preset path", "presets/nonexistent.toml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, s)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s == nil {
				t.Fatalf("Expected scene for valid scene type '%s', got nil", tt.sceneType)
			}
			if err := s.Config.Validate(); err != nil {
				t.Errorf("Scene '%s' has invalid default config: %v", tt.sceneType, err)
			}
		})
	}
}

func TestCreateSceneUnknownIsSentinel(t *testing.T) {
	_, err := createScene("")
	assert.True(t, errors.Is(err, scene.ErrUnknownVariant))

	_, err = createScene("nonexistent")
	assert.ErrorIs(t, err, scene.ErrUnknownVariant)
}

func TestPresetID(t *testing.T) {
	assert.Equal(t, "preset:ember", presetID("ember"))
	assert.Equal(t, "presets/ember.toml", presetID("presets/ember.toml"))
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-variant", "flight", "-mode", "3", "-size", "12"})
	require.NoError(t, err)
	assert.Equal(t, "flight", opts.variant)
	assert.True(t, opts.set["mode"])
	assert.True(t, opts.set["size"])
	assert.False(t, opts.set["colorA"])

	_, err = parseFlags([]string{"-width", "0"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-frames", "0"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-help"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestApplyOverrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-mode", "ease-out",
		"-colorA", "#FF0000",
		"-colorBG", "#000000",
		"-size", "50",
		"-density", "3",
		"-yaw", "1.25",
		"-pitch", "-0.5",
	})
	require.NoError(t, err)

	s := scene.NewFlightScene()
	require.NoError(t, applyOverrides(s, opts))

	assert.Equal(t, material.ModeEaseOut, s.Config.Mode)
	assert.Equal(t, material.MustParseHexColor("#FF0000"), s.Config.ColorA)
	assert.Equal(t, material.MustParseHexColor("#000000"), s.Config.ColorB, "unset flag keeps the default")
	assert.Equal(t, scene.MaxSize, s.Config.Size, "size is clamped")
	assert.Equal(t, 3, s.Config.PixelDensity)
	assert.Equal(t, 1.25, s.Camera.Yaw)
	assert.Equal(t, -0.5, s.Camera.Pitch)
	assert.True(t, s.UseColorBG)
	require.NotNil(t, s.Config.ColorBG)
}

func TestApplyOverridesErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"-mode", "wobbly"}},
		{"bad color", []string{"-colorA", "#GG0000"}},
		{"bad background", []string{"-colorBG", "nope"}},
		{"bad density", []string{"-density", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			require.NoError(t, err)
			assert.Error(t, applyOverrides(scene.NewOrbitScene(), opts))
		})
	}
}

func TestRunWritesPNG(t *testing.T) {
	out := t.TempDir()
	err := run([]string{
		"-variant", "orbit",
		"-width", "16",
		"-height", "9",
		"-density", "1",
		"-frames", "2",
		"-workers", "2",
		"-output", out,
	})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(out, "orbit", "render_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 9, img.Bounds().Dy())
}
