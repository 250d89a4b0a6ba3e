package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/google/uuid"
)

// frameDt is the simulated time between frames for server-side renders
const frameDt = 1.0 / 60

// FrameUpdate is a rendered frame sent via SSE
type FrameUpdate struct {
	FrameNumber int    `json:"frameNumber"`
	TotalFrames int    `json:"totalFrames"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Stats       Stats  `json:"stats"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	HitPixels        int     `json:"hitPixels"`
	HitRatio         float64 `json:"hitRatio"`
	AverageSteps     float64 `json:"averageSteps"`
	MaxStepsUsed     int     `json:"maxStepsUsed"`
	AverageLuminance float64 `json:"averageLuminance"`
	RenderMs         float64 `json:"renderMs"`
}

func newStats(frame *renderer.Frame) Stats {
	rs := frame.Stats
	return Stats{
		TotalPixels:      rs.TotalPixels,
		HitPixels:        rs.HitPixels,
		HitRatio:         rs.HitRatio(),
		AverageSteps:     rs.AverageSteps,
		MaxStepsUsed:     rs.MaxStepsUsed,
		AverageLuminance: renderer.CalculateAverageLuminance(frame.Image),
		RenderMs:         float64(rs.RenderTime.Microseconds()) / 1000,
	}
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a single frame and returns it as PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r, 1, 600)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fo, err := s.newOrchestrator(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer fo.Stop()

	var frame *renderer.Frame
	for i := 0; i < req.Frames; i++ {
		if err := r.Context().Err(); err != nil {
			return // Client went away
		}
		if frame, err = fo.Tick(frameDt); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}

	data, ok := fo.Capture()
	if !ok {
		writeError(w, http.StatusInternalServerError, renderer.ErrNoFrame)
		return
	}
	s.logger.Info("render completed",
		"scene", req.Scene,
		"width", frame.Image.Bounds().Dx(),
		"height", frame.Image.Bounds().Dy(),
		"duration", frame.Stats.RenderTime)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Frame-Hit-Ratio", strconv.FormatFloat(frame.Stats.HitRatio(), 'f', 4, 64))
	w.Write(data)
}

// handleStream renders frames of an animation and streams them via SSE
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	consoleChan := make(chan ConsoleMessage, 50)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan, consoleChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	renderID := uuid.NewString()
	logger := slog.New(NewConsoleHandler(s.logger.Handler(), slog.LevelInfo, consoleChan)).With("render", renderID)

	req, err := s.parseRenderRequest(r, 30, 600)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	fo, err := s.newOrchestrator(req)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}
	defer fo.Stop()

	sc := fo.Scene()
	logger.Info("streaming", "scene", sc.Name, "frames", req.Frames, "size", sc.Config.Size, "mode", sc.Config.Mode.String())

	startTime := time.Now()
	for i := 0; i < req.Frames; i++ {
		if ctx.Err() != nil {
			return
		}
		frame, err := fo.Tick(frameDt)
		if err != nil {
			s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Render error: %v", err))
			return
		}

		update, err := newFrameUpdate(frame, req.Frames, startTime)
		if err != nil {
			s.sendEvent(ctx, sseEventChan, "error", err.Error())
			return
		}
		data, err := json.Marshal(update)
		if err != nil {
			s.sendEvent(ctx, sseEventChan, "error", err.Error())
			return
		}
		s.sendEvent(ctx, sseEventChan, "frame", string(data))
	}

	logger.Info("stream completed", "frames", req.Frames, "duration", time.Since(startTime).Round(time.Millisecond))
	s.sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
}

func newFrameUpdate(frame *renderer.Frame, total int, start time.Time) (FrameUpdate, error) {
	png, err := renderer.EncodePNG(frame.Image)
	if err != nil {
		return FrameUpdate{}, err
	}
	return FrameUpdate{
		FrameNumber: frame.Number,
		TotalFrames: total,
		ImageData:   base64.StdEncoding.EncodeToString(png),
		Width:       frame.Image.Bounds().Dx(),
		Height:      frame.Image.Bounds().Dy(),
		Stats:       newStats(frame),
		ElapsedMs:   time.Since(start).Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendEvent queues an event unless the client has disconnected
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe).
// It returns once sseEventChan is closed, after flushing pending console messages.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent, consoleChan <-chan ConsoleMessage) {
	write := func(event SSEEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			return false // Client disconnected during write
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		return true
	}
	console := func(msg ConsoleMessage) SSEEvent {
		data, _ := json.Marshal(msg)
		return SSEEvent{Type: "console", Data: string(data)}
	}

	connected := true
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Drain console messages logged before the final event
				for {
					select {
					case msg := <-consoleChan:
						if connected {
							connected = write(console(msg))
						}
					default:
						return
					}
				}
			}
			if connected {
				connected = write(event)
			}
		case msg := <-consoleChan:
			if connected {
				connected = write(console(msg))
			}
		}
	}
}
