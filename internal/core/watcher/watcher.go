// # internal/core/watcher/watcher.go
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"relight/internal/shared/observability"
	"relight/internal/shared/util"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports changes to a fixed set of files. Events are debounced and
// each file is throttled by its own token bucket; a throttled change stays
// pending and is retried on the next flush, so the last write is never lost.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	limiters   *util.LimiterRegistry
	onChange   func([]string)
	callbackMu sync.Mutex

	targetsMu sync.RWMutex
	targets   map[string]bool
	dirs      map[string]bool

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
	closed    bool
}

// NewWatcher creates a watcher. maxPerSecond <= 0 disables throttling.
func NewWatcher(ctx context.Context, debounce time.Duration, maxPerSecond float64, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		limiters:  util.NewLimiterRegistry(ctx, maxPerSecond, 1, 0),
		onChange:  onChange,
		targets:   make(map[string]bool),
		dirs:      make(map[string]bool),
		pending:   make(map[string]struct{}),
	}, nil
}

// SetDebounce applies to the next scheduled flush.
func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// SetRate retunes every per-file bucket. maxPerSecond <= 0 disables throttling.
func (w *Watcher) SetRate(maxPerSecond float64) {
	w.limiters.SetRate(maxPerSecond)
}

// Add starts tracking path. The containing directory is watched so editors
// that save by renaming over the file are seen.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.targetsMu.Lock()
	defer w.targetsMu.Unlock()
	if !w.dirs[dir] {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = true
	return nil
}

// Start runs the event loop until ctx ends or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	log := zerolog.Ctx(ctx)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			path, tracked := w.tracked(event.Name)
			if !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				log.Debug().Str("path", path).Stringer("op", event.Op).Msg("change detected")
				w.scheduleChange(path)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) tracked(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.targetsMu.RLock()
	defer w.targetsMu.RUnlock()
	return abs, w.targets[abs]
}

// Trigger reports path as changed without waiting for the filesystem. It
// goes through the same debounce and throttle as a real event.
func (w *Watcher) Trigger(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		w.scheduleChange(abs)
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	w.armLocked()
}

func (w *Watcher) armLocked() {
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		if !w.limiters.Get(path).Allow() {
			observability.WatcherThrottledTotal.Inc()
			continue
		}
		paths = append(paths, path)
		delete(w.pending, path)
	}
	if len(w.pending) > 0 {
		w.armLocked()
	}
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		sort.Strings(paths)
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
