package scene

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/fsnotify/fsnotify"
)

// PresetWatcher rebuilds a preset's scene whenever its file changes
type PresetWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewPresetWatcher starts watching path. The parent directory is watched so
// that editors which replace the file on save are still picked up.
func NewPresetWatcher(path string) (*PresetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve preset path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &PresetWatcher{path: abs, watcher: w}, nil
}

// Run delivers a rebuilt scene to onChange for every successful reload until
// ctx is cancelled. Reload failures are logged and the previous scene stays in use.
func (pw *PresetWatcher) Run(ctx context.Context, onChange func(*Scene)) error {
	defer pw.watcher.Close()
	log := core.Logger().With("preset", pw.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			p, err := LoadPreset(pw.path)
			if err != nil {
				log.Warn("preset reload failed", "error", err)
				continue
			}
			s, err := p.Build()
			if err != nil {
				log.Warn("preset rebuild failed", "error", err)
				continue
			}
			log.Info("preset reloaded", "variant", s.Variant)
			onChange(s)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}
