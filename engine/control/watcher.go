package control

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet time after the last file event before a
// reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a configuration file into a Manager when it changes.
type Watcher struct {
	manager  *Manager
	path     string
	debounce time.Duration
	ready    chan struct{}

	// OnReload, when set, is called after every reload with its result.
	OnReload func(error)
}

// NewWatcher returns a watcher for path. A debounce of zero or less uses
// DefaultDebounce.
func NewWatcher(m *Manager, path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		manager:  m,
		path:     filepath.Clean(path),
		debounce: debounce,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the watcher listens for events.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is done. The directory is watched, not the file,
// so editors that replace the file are followed.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.manager.Logger().WithFields(logrus.Fields{
		"function": "Watch",
		"path":     w.path,
	})

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("control: watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("control: watch %s: %w", w.path, err)
	}
	close(w.ready)
	log.Info("Watching configuration file")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopped watching configuration file")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path ||
				!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.WithField("op", event.Op.String()).Debug("Configuration file changed")
			timer.Reset(w.debounce)
		case <-timer.C:
			err := w.manager.Reload(w.path)
			if w.OnReload != nil {
				w.OnReload(err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.WithField("error", err).Warn("Watcher error")
		}
	}
}
