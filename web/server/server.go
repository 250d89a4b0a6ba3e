package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
)

// Server handles web requests for the fractal explorer
type Server struct {
	port    int
	workers int
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer creates a new web server. A nil logger discards server logs.
func NewServer(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{port: port, logger: logger, mux: http.NewServeMux()}

	// Serve static files
	s.mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/stream", s.handleStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/session", s.handleSession)
	return s
}

// SetWorkers sets the number of render workers per request (0 = CPU count)
func (s *Server) SetWorkers(n int) {
	s.workers = n
}

// Handler returns the HTTP handler for all routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", "http://localhost"+addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents the render parameters shared by every endpoint
type RenderRequest struct {
	Scene     string          // Variant name, "preset:<name>" or preset path
	Width     int             // Viewport width
	Height    int             // Viewport height
	Frames    int             // Frames to simulate (render) or stream (stream)
	Overrides scene.Overrides // Optional parameter overrides
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request, defaultFrames, maxFrames int) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: "orbit"}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 1920); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 225, 16, 1080); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(values, "frames", defaultFrames, 1, maxFrames); err != nil {
		return nil, err
	}

	o := &req.Overrides
	if values.Has("density") {
		density, err := parseIntParam(values, "density", scene.DefaultPixelDensity, 1, scene.HighPixelDensity)
		if err != nil {
			return nil, err
		}
		o.PixelDensity = &density
	}
	if values.Has("mode") {
		mode, err := material.ParseEasingMode(values.Get("mode"))
		if err != nil {
			return nil, err
		}
		o.Mode = &mode
	}
	if values.Has("size") {
		size, err := parseFloatParam(values, "size", 8, scene.MinSize, scene.MaxSize)
		if err != nil {
			return nil, err
		}
		o.Size = &size
	}
	if values.Has("yaw") {
		yaw, err := parseFloatParam(values, "yaw", 0, -100, 100)
		if err != nil {
			return nil, err
		}
		o.Yaw = &yaw
	}
	if values.Has("pitch") {
		pitch, err := parseFloatParam(values, "pitch", 0, -renderer.PitchLimit, renderer.PitchLimit)
		if err != nil {
			return nil, err
		}
		o.Pitch = &pitch
	}
	for key, dst := range map[string]**string{"colorA": &o.ColorA, "colorB": &o.ColorB, "colorBG": &o.Background} {
		if values.Has(key) {
			v := values.Get(key)
			if _, err := material.ParseHexColor(v); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = &v
		}
	}

	// Performance warning
	if req.Width*req.Height > 1280*720 && req.Frames > 60 {
		s.logger.Warn("large render with many frames may be slow", "width", req.Width, "height", req.Height, "frames", req.Frames)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// newOrchestrator resolves the scene, applies the overrides and creates an orchestrator
func (s *Server) newOrchestrator(req *RenderRequest) (*renderer.FrameOrchestrator, error) {
	sceneObj, err := resolveScene(s.logger, req.Scene)
	if err != nil {
		return nil, err
	}
	if err := req.Overrides.Apply(sceneObj); err != nil {
		return nil, err
	}

	return renderer.NewFrameOrchestrator(sceneObj, renderer.FrameConfig{
		Width:      req.Width,
		Height:     req.Height,
		TileSize:   renderer.DefaultFrameConfig().TileSize,
		NumWorkers: s.workers,
	}), nil
}

// errUnknownScene is all a web client learns about a scene that failed to load
var errUnknownScene = errors.New("unknown scene")

// resolveScene loads a built-in variant or a preset by name from the presets
// directory. Unlike the command line tools it never opens an arbitrary path,
// and load failures are logged rather than returned.
func resolveScene(logger *slog.Logger, id string) (*scene.Scene, error) {
	if _, err := scene.ParseVariant(id); err != nil {
		name, ok := strings.CutPrefix(id, "preset:")
		if !ok || !validPresetName(name) {
			return nil, fmt.Errorf("%w %q", errUnknownScene, id)
		}
	}
	sc, err := scene.Resolve(id)
	if err != nil {
		logger.Debug("scene failed to load", "scene", id, "error", err)
		return nil, fmt.Errorf("%w %q", errUnknownScene, id)
	}
	return sc, nil
}

// validPresetName accepts a bare file stem: no directories, no extension
func validPresetName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/\\:.\x00")
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in variants and discovered presets
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		s.logger.Error("scene discovery failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": ...} with the given status
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps request errors to HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, renderer.ErrPoolStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}
