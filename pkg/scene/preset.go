package scene

import (
	"bytes"
	"fmt"
	"os"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/pelletier/go-toml/v2"
)

// Preset is a TOML description of a variant with overridden defaults.
// Unset fields keep the variant's values.
//
//	name = "Ember"
//	variant = "orbit"
//	mode = 3
//	size = 9.5
//
//	[colors]
//	a = "#FFB347"
//	b = "#3B0A45"
//	background = "#0C0C10"
//
//	[camera]
//	yaw = 0.8
//	pitch = 0.2
//	orbit_distance = 2.2
type Preset struct {
	Name         string       `toml:"name"`
	Description  string       `toml:"description"`
	Group        string       `toml:"group"`
	Variant      string       `toml:"variant"`
	Mode         *int         `toml:"mode"`
	Size         *float64     `toml:"size"`
	PixelDensity *int         `toml:"pixel_density"`
	Colors       PresetColors `toml:"colors"`
	Camera       PresetCamera `toml:"camera"`
}

// PresetColors holds hex color overrides
type PresetColors struct {
	A          string `toml:"a"`
	B          string `toml:"b"`
	Background string `toml:"background"`
}

// PresetCamera holds starting view overrides
type PresetCamera struct {
	Position      []float64 `toml:"position"`
	Yaw           *float64  `toml:"yaw"`
	Pitch         *float64  `toml:"pitch"`
	OrbitDistance *float64  `toml:"orbit_distance"`
}

// ParsePreset decodes a preset. Unknown keys are an error so typos do not go unnoticed.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode preset: %w", err)
	}
	return &p, nil
}

// LoadPreset reads and decodes a preset file
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", path, err)
	}
	p, err := ParsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Build creates the preset's variant scene and applies the overrides
func (p *Preset) Build() (*Scene, error) {
	v, err := ParseVariant(p.Variant)
	if err != nil {
		return nil, err
	}
	s, err := New(v)
	if err != nil {
		return nil, err
	}
	if p.Name != "" {
		s.Name = p.Name
	}
	if p.Description != "" {
		s.Description = p.Description
	}

	o := Overrides{
		Size:          p.Size,
		PixelDensity:  p.PixelDensity,
		Yaw:           p.Camera.Yaw,
		Pitch:         p.Camera.Pitch,
		OrbitDistance: p.Camera.OrbitDistance,
	}
	if p.Colors.A != "" {
		o.ColorA = &p.Colors.A
	}
	if p.Colors.B != "" {
		o.ColorB = &p.Colors.B
	}
	if p.Colors.Background != "" {
		o.Background = &p.Colors.Background
	}
	if p.Mode != nil {
		mode := material.EasingMode(*p.Mode)
		o.Mode = &mode
	}
	if p.Camera.Position != nil {
		if len(p.Camera.Position) != 3 {
			return nil, fmt.Errorf("camera.position needs 3 components, got %d", len(p.Camera.Position))
		}
		pos := core.NewVec3(p.Camera.Position[0], p.Camera.Position[1], p.Camera.Position[2])
		o.Position = &pos
	}
	if err := o.Apply(s); err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	return s, nil
}
