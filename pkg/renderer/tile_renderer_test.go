package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantIntegrator returns a fixed color and reports a hit for the upper half of the screen
type constantIntegrator struct {
	color core.Vec3
	steps int
}

func (c constantIntegrator) RayColor(ray core.Ray, screenV float64) (core.Vec3, integrator.MarchResult) {
	return c.color, integrator.MarchResult{Steps: c.steps, Hit: screenV > 0.5}
}

func newTestJob(width, height int) *FrameJob {
	return &FrameJob{
		Image:      image.NewRGBA(image.Rect(0, 0, width, height)),
		View:       NewView(CameraState{OrbitDistance: 2.5}),
		Integrator: constantIntegrator{color: core.NewVec3(1, 1, 1), steps: 3},
	}
}

func TestNewTileGridCoversImage(t *testing.T) {
	sizes := []struct{ w, h, tile int }{
		{64, 64, 32},
		{100, 37, 32},
		{1, 1, 32},
		{33, 65, 16},
	}

	for _, s := range sizes {
		tiles := NewTileGrid(s.w, s.h, s.tile)
		covered := make([]int, s.w*s.h)
		for i, tile := range tiles {
			assert.Equal(t, i, tile.ID)
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					covered[y*s.w+x]++
				}
			}
		}
		for i, n := range covered {
			require.Equal(t, 1, n, "pixel %d of %dx%d covered %d times", i, s.w, s.h, n)
		}
	}
}

func TestRenderTileBounds(t *testing.T) {
	job := newTestJob(8, 8)
	tr := NewTileRenderer()

	stats := tr.RenderTileBounds(image.Rect(0, 0, 4, 8), job)
	assert.Equal(t, 32, stats.TotalPixels)
	assert.Equal(t, 16, stats.HitPixels, "upper half hits")
	assert.Equal(t, 96, stats.TotalSteps)
	assert.Equal(t, 3.0, stats.AverageSteps)

	// Rendered region is white, the rest untouched
	assert.Equal(t, uint8(255), job.Image.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), job.Image.RGBAAt(3, 7).A)
	assert.Equal(t, uint8(0), job.Image.RGBAAt(4, 0).A)
}

func TestWorkerPoolRenderTiles(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Stop()
	assert.Equal(t, 3, pool.GetNumWorkers())

	// More tiles than queue capacity
	job := newTestJob(50, 30)
	tiles := NewTileGrid(50, 30, 4)
	require.Greater(t, len(tiles), 3*2)

	stats, err := pool.RenderTiles(job, tiles)
	require.NoError(t, err)
	assert.Equal(t, 50*30, stats.TotalPixels)
	assert.Equal(t, 50*15, stats.HitPixels)
	assert.Equal(t, 3, stats.MaxStepsUsed)

	for y := 0; y < 30; y++ {
		for x := 0; x < 50; x++ {
			require.Equal(t, uint8(255), job.Image.RGBAAt(x, y).G, "pixel (%d,%d)", x, y)
		}
	}

	// The pool is reusable across frames
	stats, err = pool.RenderTiles(newTestJob(10, 10), NewTileGrid(10, 10, 4))
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalPixels)
}

func TestWorkerPoolStopped(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.Positive(t, pool.GetNumWorkers())

	pool.Stop()
	pool.Stop() // idempotent

	_, err := pool.RenderTiles(newTestJob(4, 4), NewTileGrid(4, 4, 2))
	assert.ErrorIs(t, err, ErrPoolStopped)
}
