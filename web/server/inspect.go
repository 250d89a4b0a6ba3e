package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/integrator"
	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection.
// X and Y address a pixel of the rendered image, which is the viewport scaled
// by the pixel density, so they match the PNG returned by /api/render.
type InspectResponse struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width"`  // Rendered image width
	Height     int        `json:"height"` // Rendered image height
	Hit        bool       `json:"hit"`
	Steps      int        `json:"steps"`
	Distance   float64    `json:"distance"`
	Eye        [3]float64 `json:"eye"`
	Direction  [3]float64 `json:"direction"`
	Point      [3]float64 `json:"point"`
	Normal     [3]float64 `json:"normal"`
	Estimate   float64    `json:"estimate"` // Distance estimate at the hit point
	Trap       float64    `json:"trap"`
	MixFactor  float64    `json:"mixFactor"`
	Albedo     string     `json:"albedo,omitempty"` // sRGB hex
	Lighting   float64    `json:"lighting"`
	Color      string     `json:"color"` // Final displayed color, sRGB hex
	Power      float64    `json:"power"`
	Inversion  bool       `json:"inversion"`
	Background bool       `json:"background"`
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// newInspectResponse converts an integrator inspection into the JSON response
func newInspectResponse(x, y int, ray core.Ray, u renderer.FrameUniforms, in integrator.Inspection) InspectResponse {
	c := material.ToRGBA(in.Color)
	response := InspectResponse{
		X:          x,
		Y:          y,
		Width:      u.Width,
		Height:     u.Height,
		Hit:        in.March.Hit,
		Steps:      in.March.Steps,
		Distance:   in.March.Distance,
		Eye:        vec3Array(ray.Origin),
		Direction:  vec3Array(ray.Direction),
		Color:      fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		Power:      u.Power,
		Inversion:  u.Field.Inversion,
		Background: in.Background,
	}
	if in.Background {
		return response
	}

	response.Point = vec3Array(in.Point)
	response.Normal = vec3Array(in.Normal)
	response.Estimate = in.Sample.Distance
	response.Trap = in.Sample.Trap
	response.MixFactor = in.MixFactor
	response.Albedo = material.FormatHexColor(in.Albedo)
	response.Lighting = in.Lighting
	return response
}

// handleInspect traces one pixel and reports the marcher and shading details
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r, 1, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scene parameters: %w", err))
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid x coordinate"))
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid y coordinate"))
		return
	}

	fo, err := s.newOrchestrator(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer fo.Stop()

	// Inspect the state the first frame would render, without rendering it
	u := fo.Uniforms()
	if pixelX < 0 || pixelX >= u.Width || pixelY < 0 || pixelY >= u.Height {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("pixel coordinates out of bounds for a %dx%d image", u.Width, u.Height))
		return
	}
	ray, texV := u.View.PixelRay(pixelX, pixelY, u.Width, u.Height)
	inspection := u.Integrator().Inspect(ray, texV)

	writeJSON(w, http.StatusOK, newInspectResponse(pixelX, pixelY, ray, u, inspection))
}
