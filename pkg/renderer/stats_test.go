package renderer

import (
	"image"
	"image/color"
	"testing"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Create a 2x2 image
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0

	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 1.0 / 4 = 0.25

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if lum := CalculateAverageLuminance(img); lum != 0 {
		t.Errorf("Expected 0 for an empty image, got %f", lum)
	}
}

func TestRenderStatsMerge(t *testing.T) {
	var a, b RenderStats
	a.addPixel(10, true)
	a.addPixel(100, false)
	b.addPixel(4, true)
	b.finalize()

	a.Merge(b)

	if a.TotalPixels != 3 || a.HitPixels != 2 {
		t.Errorf("Expected 3 pixels with 2 hits, got %d with %d", a.TotalPixels, a.HitPixels)
	}
	if a.TotalSteps != 114 || a.MaxStepsUsed != 100 {
		t.Errorf("Expected 114 steps with max 100, got %d with max %d", a.TotalSteps, a.MaxStepsUsed)
	}
	if a.AverageSteps != 38 {
		t.Errorf("Expected average 38 steps, got %f", a.AverageSteps)
	}
	if ratio := a.HitRatio(); ratio < 0.666 || ratio > 0.667 {
		t.Errorf("Expected hit ratio 2/3, got %f", ratio)
	}
}

func TestRenderStatsHitRatio_NoPixels(t *testing.T) {
	var s RenderStats
	if s.HitRatio() != 0 {
		t.Errorf("Expected 0 hit ratio, got %f", s.HitRatio())
	}
}
