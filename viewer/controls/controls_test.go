package controls

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T) *renderer.FrameOrchestrator {
	t.Helper()
	s, err := scene.New(scene.VariantOrbit)
	require.NoError(t, err)
	s.Config.PixelDensity = 1

	fo := renderer.NewFrameOrchestrator(s, renderer.FrameConfig{Width: 8, Height: 8, TileSize: 8, NumWorkers: 1})
	t.Cleanup(fo.Stop)
	return fo
}

func TestApply_SelectMode(t *testing.T) {
	fo := newTestOrchestrator(t)

	require.NoError(t, Apply(fo, Command{Kind: SelectMode, Mode: material.ModeSqrt}))
	assert.Equal(t, material.ModeSqrt, fo.Config().Mode)

	err := Apply(fo, Command{Kind: SelectMode, Mode: material.EasingMode(9)})
	assert.Error(t, err)
	assert.Equal(t, material.ModeSqrt, fo.Config().Mode, "invalid mode keeps the previous one")
}

func TestApply_AdjustSize(t *testing.T) {
	fo := newTestOrchestrator(t)
	start := fo.Config().Size

	require.NoError(t, Apply(fo, Command{Kind: AdjustSize, Delta: 1}))
	assert.Equal(t, start+1, fo.Config().Size)

	require.NoError(t, Apply(fo, Command{Kind: AdjustSize, Delta: 100}))
	assert.Equal(t, scene.MaxSize, fo.Config().Size)

	require.NoError(t, Apply(fo, Command{Kind: AdjustSize, Delta: -100}))
	assert.Equal(t, scene.MinSize, fo.Config().Size)
}

func TestApply_ToggleDensity(t *testing.T) {
	fo := newTestOrchestrator(t)

	require.NoError(t, Apply(fo, Command{Kind: ToggleDensity}))
	assert.Equal(t, scene.HighPixelDensity, fo.Config().PixelDensity)

	require.NoError(t, Apply(fo, Command{Kind: ToggleDensity}))
	assert.Equal(t, scene.DefaultPixelDensity, fo.Config().PixelDensity)
}

func TestApply_ToggleVariant(t *testing.T) {
	fo := newTestOrchestrator(t)

	require.NoError(t, Apply(fo, Command{Kind: ToggleVariant}))
	assert.Equal(t, scene.VariantFlight, fo.Scene().Variant)
	assert.True(t, fo.Camera().Snapshot().Flight)

	require.NoError(t, Apply(fo, Command{Kind: ToggleVariant}))
	assert.Equal(t, scene.VariantOrbit, fo.Scene().Variant)
	assert.False(t, fo.Camera().Snapshot().Flight)
}

func TestApply_Reset(t *testing.T) {
	fo := newTestOrchestrator(t)
	want := fo.Camera().Snapshot()

	fo.Camera().SetView(2, -1)
	require.NoError(t, Apply(fo, Command{Kind: Reset}))

	got := fo.Camera().Snapshot()
	assert.Equal(t, want.Yaw, got.Yaw)
	assert.Equal(t, want.Pitch, got.Pitch)
}

func TestApply_Capture(t *testing.T) {
	fo := newTestOrchestrator(t)

	require.NoError(t, Apply(fo, Command{Kind: Capture}))
	_, err := fo.Tick(1.0 / 60)
	require.NoError(t, err)

	select {
	case data := <-fo.Captures():
		assert.NotEmpty(t, data)
	default:
		t.Fatal("expected a capture after the next frame")
	}
}

func TestApply_UnknownCommand(t *testing.T) {
	fo := newTestOrchestrator(t)
	assert.Error(t, Apply(fo, Command{Kind: Kind(42)}))
}

func TestPointerNDC(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		w, h         int
		wantX, wantY float64
	}{
		{"top left", 0, 0, 200, 100, -1, 1},
		{"centre", 100, 50, 200, 100, 0, 0},
		{"bottom right", 200, 100, 200, 100, 1, -1},
		{"empty window", 5, 5, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PointerNDC(tt.x, tt.y, tt.w, tt.h)
			assert.InDelta(t, tt.wantX, x, 1e-12)
			assert.InDelta(t, tt.wantY, y, 1e-12)
		})
	}
}

func TestWheelDelta(t *testing.T) {
	// Scrolling towards the user zooms out like a browser's positive deltaY
	assert.Equal(t, 100.0, WheelDelta(-1))
	assert.Equal(t, -50.0, WheelDelta(0.5))
}

func TestTouchDir(t *testing.T) {
	assert.Equal(t, 1.0, TouchDir(10, 400))
	assert.Equal(t, 0.0, TouchDir(200, 400))
	assert.Equal(t, -1.0, TouchDir(390, 400))
	assert.Equal(t, 0.0, TouchDir(10, 0))
}

func TestSaveCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	at := time.Date(2024, 3, 1, 12, 30, 45, 123_000_000, time.UTC)

	path, err := SaveCapture(dir, scene.VariantFlight, at, []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flight_20240301_123045.123.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}
