package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// Downscale resamples a high-density frame down to the display size.
// A frame already at the target size is returned unchanged.
func Downscale(src *image.RGBA, width, height int) *image.RGBA {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(1, width), max(1, height)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
