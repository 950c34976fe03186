// # internal/core/config/watcher.go
package config

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a config file when it changes on disk and hands every
// valid, different configuration to onReload. Invalid files are logged and
// the previous configuration stays in effect.
type Watcher struct {
	fs       afero.Fs
	path     string
	onReload func(*Config)

	mu      sync.Mutex
	current *Config
	timer   *time.Timer
	stopped bool

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewWatcher watches path on the OS filesystem.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	return &Watcher{
		fs:       afero.NewOsFs(),
		path:     filepath.Clean(path),
		onReload: onReload,
		stop:     make(chan struct{}),
	}
}

// Start loads the current file as the baseline and watches its directory,
// so atomic saves that rename over the file are seen as a Create.
func (w *Watcher) Start(ctx context.Context) error {
	if cfg, err := LoadFs(w.fs, w.path); err == nil {
		w.current = cfg
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config-watcher").Str("path", w.path).Logger()
	logger.Debug().Msg("watching config")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fsw.Close()
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == w.path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.schedule(logger)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("config watcher error")
			case <-w.stop:
				return
			case <-ctx.Done():
				w.halt()
				return
			}
		}
	}()
	return nil
}

// Stop ends watching and waits for the event loop. Safe to call twice.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.halt()
	w.wg.Wait()
}

func (w *Watcher) halt() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) schedule(logger zerolog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDelay, func() { w.reload(logger) })
}

func (w *Watcher) reload(logger zerolog.Logger) {
	cfg, err := LoadFs(w.fs, w.path)
	if err != nil {
		logger.Error().Err(err).Msg("config reload failed, keeping previous config")
		return
	}

	w.mu.Lock()
	if w.stopped || reflect.DeepEqual(cfg, w.current) {
		w.mu.Unlock()
		return
	}
	w.current = cfg
	w.mu.Unlock()

	logger.Info().Msg("config reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
