package app

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"sld-editor/internal/config"
)

// ConfigWatcher watches the config file and reloads it when edited, so
// zoom bounds and canvas settings can be tuned without restarting the
// editor. Reload applies to views opened afterwards; existing cameras
// keep their bounds.
type ConfigWatcher struct {
	state   *State
	path    string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewConfigWatcher starts watching the config file at path. Returns nil
// if the watch cannot be established; the editor runs fine without it.
func NewConfigWatcher(state *State, path string) *ConfigWatcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("config watch unavailable", "err", err)
		return nil
	}

	// Watch the directory, not the file: editors that write via
	// rename would otherwise drop the watch on first save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Warn("config watch unavailable", "path", path, "err", err)
		watcher.Close()
		return nil
	}

	w := &ConfigWatcher{
		state:   state,
		path:    path,
		watcher: watcher,
		stopCh:  make(chan struct{}),
	}
	go w.watchLoop()
	return w
}

// Stop stops the watcher goroutine.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *ConfigWatcher) watchLoop() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("config watch error", "err", err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		log.Warn("config reload failed", "path", w.path, "err", err)
		return
	}

	w.state.mu.Lock()
	w.state.Config = cfg
	w.state.mu.Unlock()

	log.Info("config reloaded", "path", w.path)
	// The watcher runs on its own goroutine; listeners mutate widgets,
	// so the emit has to happen on the Fyne event thread.
	fyne.Do(func() {
		w.state.Emit(EventConfigReloaded, cfg)
	})
}
