package renderer

import (
	"image"

	"github.com/df07/go-fractal-explorer/pkg/integrator"
	"github.com/df07/go-fractal-explorer/pkg/material"
)

// FrameJob is everything the per-pixel kernel reads for one frame. It is
// immutable once submitted, so any number of workers can share it.
type FrameJob struct {
	Image      *image.RGBA // Destination; each tile writes a disjoint region
	View       View
	Integrator integrator.Integrator
}

// TileRenderer renders rectangular regions of a frame
type TileRenderer struct{}

// NewTileRenderer creates a tile renderer
func NewTileRenderer() *TileRenderer {
	return &TileRenderer{}
}

// RenderTileBounds shades every pixel within bounds and returns the tile statistics
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, job *FrameJob) RenderStats {
	img := job.Image
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	var stats RenderStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray, texV := job.View.PixelRay(x, y, width, height)
			c, result := job.Integrator.RayColor(ray, texV)
			img.SetRGBA(x, y, material.ToRGBA(c))
			stats.addPixel(result.Steps, result.Hit)
		}
	}

	stats.finalize()
	return stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Ceiling division
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
