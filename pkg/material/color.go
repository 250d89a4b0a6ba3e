package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for color strings that are not #RGB or #RRGGBB
var ErrInvalidColor = errors.New("invalid color")

// ParseHexColor decodes an sRGB hex string into a linear sRGB color
func ParseHexColor(s string) (core.Vec3, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return core.Vec3{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.LinearRgb()
	return core.NewVec3(r, g, b), nil
}

// MustParseHexColor is ParseHexColor for compile-time constants
func MustParseHexColor(s string) core.Vec3 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatHexColor encodes a linear sRGB color as an sRGB hex string
func FormatHexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return colorful.LinearRgb(c.X, c.Y, c.Z).Hex()
}
