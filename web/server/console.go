package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// ConsoleHandler is a slog.Handler that sends records to a console channel
// for streaming to the browser, and passes them on to the next handler for
// the server log.
type ConsoleHandler struct {
	next        slog.Handler
	level       slog.Level
	consoleChan chan<- ConsoleMessage
	attrs       string // Preformatted attrs from WithAttrs
	group       string // Key prefix from WithGroup
}

// NewConsoleHandler creates a handler that forwards records at or above level
// to consoleChan. next may be nil.
func NewConsoleHandler(next slog.Handler, level slog.Level, consoleChan chan<- ConsoleMessage) *ConsoleHandler {
	return &ConsoleHandler{next: next, level: level, consoleChan: consoleChan}
}

// Enabled implements slog.Handler
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level && h.consoleChan != nil {
		var sb strings.Builder
		sb.WriteString(r.Message)
		sb.WriteString(h.attrs)
		r.Attrs(func(a slog.Attr) bool {
			h.writeAttr(&sb, a)
			return true
		})

		// Non-blocking: a slow browser must never stall rendering
		select {
		case h.consoleChan <- ConsoleMessage{
			Message:   sb.String(),
			Timestamp: r.Time,
			Level:     levelName(r.Level),
		}:
		default:
		}
	}

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		h.writeAttr(&sb, a)
	}
	clone.attrs = sb.String()
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup implements slog.Handler
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

func (h *ConsoleHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", h.group, a.Key, a.Value.Resolve())
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warning"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
