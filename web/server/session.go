package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/df07/go-fractal-explorer/pkg/material"
	"github.com/df07/go-fractal-explorer/pkg/renderer"
	"github.com/df07/go-fractal-explorer/pkg/scene"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// errSessionClosed ends a session when the client closes the connection
var errSessionClosed = errors.New("session closed by client")

var upgrader = websocket.Upgrader{
	// The explorer has no cookies or credentials to protect
	CheckOrigin: func(r *http.Request) bool { return true },
}

// InputEvent is a client message on the session socket
type InputEvent struct {
	Type   string       `json:"type"` // pointerdown, pointermove, pointerup, pointerleave, wheel, key, touchmove, resize, config, scene, reset, capture
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	DeltaY float64      `json:"deltaY"`
	Key    string       `json:"key"`
	Down   bool         `json:"down"`
	Dir    float64      `json:"dir"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Scene  string       `json:"scene"`
	Config *ConfigEvent `json:"config,omitempty"`
}

// ConfigEvent changes render parameters; nil fields are left alone
type ConfigEvent struct {
	Mode          *int     `json:"mode,omitempty"`
	Size          *float64 `json:"size,omitempty"`
	ColorA        *string  `json:"colorA,omitempty"`
	ColorB        *string  `json:"colorB,omitempty"`
	ColorBG       *string  `json:"colorBG,omitempty"`
	ToggleDensity bool     `json:"toggleDensity,omitempty"`
}

// SessionMessage is a JSON server message; frames are sent as binary PNG
type SessionMessage struct {
	Type      string `json:"type"` // hello, capture, error
	Session   string `json:"session,omitempty"`
	ImageData string `json:"imageData,omitempty"` // Base64 encoded PNG
	Error     string `json:"error,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// keyNames maps browser key names to navigation keys
var keyNames = map[string]renderer.Key{
	"w":         renderer.KeyW,
	"W":         renderer.KeyW,
	"s":         renderer.KeyS,
	"S":         renderer.KeyS,
	"ArrowUp":   renderer.KeyArrowUp,
	"ArrowDown": renderer.KeyArrowDown,
}

// session is one interactive client
type session struct {
	id      string
	conn    *websocket.Conn
	fo      *renderer.FrameOrchestrator
	fps     int
	logger  *slog.Logger
	replies chan SessionMessage // Messages for the writer goroutine
}

// handleSession upgrades to a WebSocket and runs an interactive render loop:
// input events in, PNG frames out.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r, 1, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fps, err := parseIntParam(r.URL.Query(), "fps", 30, 1, 60)
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

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := &session{
		id:      uuid.NewString(),
		conn:    conn,
		fo:      fo,
		fps:     fps,
		replies: make(chan SessionMessage, 16),
	}
	sess.logger = s.logger.With("session", sess.id)
	sess.logger.Info("session opened", "scene", req.Scene, "fps", fps)

	err = sess.run(r.Context(), req)
	if err != nil && !errors.Is(err, errSessionClosed) && !errors.Is(err, context.Canceled) {
		sess.logger.Warn("session ended with error", "error", err)
		return
	}
	sess.logger.Info("session closed")
}

func (ss *session) run(ctx context.Context, req *RenderRequest) error {
	hello := SessionMessage{Type: "hello", Session: ss.id, Width: req.Width, Height: req.Height}
	if err := ss.conn.WriteJSON(hello); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	// Unblock the reader when the session ends for any other reason
	stop := context.AfterFunc(ctx, func() { ss.conn.Close() })
	defer stop()

	g.Go(func() error { return ss.readLoop(ctx) })
	g.Go(func() error { return ss.renderLoop(ctx) })
	return g.Wait()
}

// readLoop applies client input until the connection closes
func (ss *session) readLoop(ctx context.Context) error {
	for {
		var ev InputEvent
		if err := ss.conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil // Connection closed by us
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errSessionClosed
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("%w: %v", errSessionClosed, err)
			}
			return fmt.Errorf("read input: %w", err)
		}
		if err := ss.apply(ev); err != nil {
			ss.logger.Debug("rejected input", "type", ev.Type, "error", err)
			ss.reply(SessionMessage{Type: "error", Error: err.Error()})
		}
	}
}

// apply forwards one input event to the camera or orchestrator
func (ss *session) apply(ev InputEvent) error {
	cam := ss.fo.Camera()
	switch ev.Type {
	case "pointerdown":
		cam.PointerDown(ev.X, ev.Y)
	case "pointermove":
		cam.PointerMove(ev.X, ev.Y)
		w, h := ss.fo.Viewport()
		ss.fo.SetPointer(2*ev.X/float64(w)-1, 1-2*ev.Y/float64(h))
	case "pointerup":
		cam.PointerUp()
	case "pointerleave":
		cam.PointerLeave()
	case "wheel":
		cam.Wheel(ev.DeltaY)
	case "key":
		k, ok := keyNames[ev.Key]
		if !ok {
			return nil // Other keys are ignored
		}
		cam.SetKey(k, ev.Down)
	case "touchmove":
		cam.SetTouchMove(ev.Dir)
	case "resize":
		if ev.Width < 1 || ev.Height < 1 || ev.Width > 1920 || ev.Height > 1080 {
			return fmt.Errorf("invalid viewport %dx%d", ev.Width, ev.Height)
		}
		ss.fo.Resize(ev.Width, ev.Height)
	case "config":
		if ev.Config == nil {
			return fmt.Errorf("config event without config")
		}
		return ss.applyConfig(*ev.Config)
	case "scene":
		sc, err := resolveScene(ss.logger, ev.Scene)
		if err != nil {
			return err
		}
		ss.fo.SetScene(sc)
	case "reset":
		cam.Reset()
	case "capture":
		ss.fo.RequestCapture()
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

func (ss *session) applyConfig(ce ConfigEvent) error {
	var err error
	updateErr := ss.fo.UpdateConfig(func(cfg *scene.RenderConfig) {
		if ce.Mode != nil {
			err = errors.Join(err, cfg.SetMode(material.EasingMode(*ce.Mode)))
		}
		if ce.Size != nil {
			cfg.SetSize(*ce.Size)
		}
		// Invalid colors keep the previous value
		if ce.ColorA != nil {
			err = errors.Join(err, cfg.SetColorAHex(*ce.ColorA))
		}
		if ce.ColorB != nil {
			err = errors.Join(err, cfg.SetColorBHex(*ce.ColorB))
		}
		if ce.ColorBG != nil {
			err = errors.Join(err, cfg.SetBackgroundHex(*ce.ColorBG))
		}
		if ce.ToggleDensity {
			cfg.ToggleDensity()
		}
	})
	return errors.Join(err, updateErr)
}

// reply queues a JSON message without blocking the reader
func (ss *session) reply(msg SessionMessage) {
	select {
	case ss.replies <- msg:
	default:
		ss.logger.Warn("reply dropped", "type", msg.Type)
	}
}

// renderLoop is the only writer on the connection: it ticks the orchestrator
// at the session frame rate and sends each frame, plus queued replies.
func (ss *session) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(ss.fps))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ss.replies:
			if err := ss.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("write reply: %w", err)
			}
		case data := <-ss.fo.Captures():
			msg := SessionMessage{Type: "capture", ImageData: base64.StdEncoding.EncodeToString(data)}
			if err := ss.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("write capture: %w", err)
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			frame, err := ss.fo.Tick(dt)
			if err != nil {
				return err
			}
			data, err := renderer.EncodePNG(frame.Image)
			if err != nil {
				return err
			}
			if err := ss.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}
