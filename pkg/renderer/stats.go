package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a rendered frame or tile
type RenderStats struct {
	TotalPixels  int           // Pixels rendered
	HitPixels    int           // Pixels whose primary ray reached the surface
	TotalSteps   int           // March steps spent on primary rays
	MaxStepsUsed int           // Most steps any single primary ray needed
	AverageSteps float64       // TotalSteps / TotalPixels
	RenderTime   time.Duration // Wall time for the whole frame
}

// addPixel records one primary ray
func (s *RenderStats) addPixel(steps int, hit bool) {
	s.TotalPixels++
	s.TotalSteps += steps
	s.MaxStepsUsed = max(s.MaxStepsUsed, steps)
	if hit {
		s.HitPixels++
	}
}

// Merge folds tile statistics into frame statistics
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.TotalSteps += other.TotalSteps
	s.MaxStepsUsed = max(s.MaxStepsUsed, other.MaxStepsUsed)
	s.finalize()
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSteps = float64(s.TotalSteps) / float64(s.TotalPixels)
	}
}

// HitRatio returns the fraction of pixels that hit the surface
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
		}
	}
	return total / float64(pixels)
}
