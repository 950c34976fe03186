// # internal/core/app/app.go
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"relight/internal/core/config"
	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/core/watcher"
	"relight/internal/engine/highlight"
	"relight/internal/engine/parser"
	"relight/internal/shared/util"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// App wires configuration, file access and the parser together. It holds no
// per-file state between requests.
type App struct {
	Fs     afero.Fs
	Parser ports.SourceParser

	mu      sync.RWMutex
	config  *config.Config
	include []glob.Glob
	exclude []glob.Glob
	// watchers are the live Watch sessions; SetConfig retunes them.
	watchers map[*watcher.Watcher]struct{}

	closeParser func()
}

type Option func(*App)

// WithFs replaces the OS filesystem, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.Fs = fs }
}

// WithParser replaces the pooled tree-sitter parser.
func WithParser(p ports.SourceParser) Option {
	return func(a *App) { a.Parser = p }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{Fs: afero.NewOsFs(), watchers: make(map[*watcher.Watcher]struct{})}
	for _, opt := range opts {
		opt(a)
	}
	if a.Parser == nil {
		p := parser.NewParser(cfg.Parser.PoolSize)
		a.Parser = p
		a.closeParser = p.Close
	}
	if err := a.SetConfig(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// SetConfig swaps the configuration, recompiling the source globs. The old
// configuration stays in place when the new one is invalid.
func (a *App) SetConfig(cfg *config.Config) error {
	include, err := compileGlobs(cfg.Sources.Include, "include")
	if err != nil {
		return err
	}
	exclude, err := compileGlobs(cfg.Sources.Exclude, "exclude")
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = cfg
	a.include = include
	a.exclude = exclude
	for w := range a.watchers {
		w.SetDebounce(cfg.Watch.Debounce)
		w.SetRate(cfg.Watch.MaxPerSecond)
	}
	return nil
}

func (a *App) trackWatcher(w *watcher.Watcher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watchers[w] = struct{}{}
}

func (a *App) untrackWatcher(w *watcher.Watcher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.watchers, w)
}

func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// DefaultFeatures turns the [highlight] toggles into an engine config.
func (a *App) DefaultFeatures() highlight.Config {
	h := a.Config().Highlight
	return highlight.Config{
		References:      config.Enabled(h.References),
		ExitPoints:      config.Enabled(h.ExitPoints),
		BreakPoints:     config.Enabled(h.BreakPoints),
		ClosureCaptures: config.Enabled(h.ClosureCaptures),
		YieldPoints:     config.Enabled(h.YieldPoints),
	}
}

// Allowed reports whether path passes the [sources] include and exclude
// patterns. Patterns are matched against the absolute slash path.
func (a *App) Allowed(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	candidate := util.NormalizePatternPath(filepath.ToSlash(abs))

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, g := range a.exclude {
		if g.Match(candidate) {
			return false
		}
	}
	for _, g := range a.include {
		if g.Match(candidate) {
			return true
		}
	}
	return false
}

func (a *App) Close(context.Context) error {
	if a.closeParser != nil {
		a.closeParser()
	}
	return nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrap(
				fmt.Errorf("invalid %s pattern %q: %w", label, p, err),
				errors.CodeValidationError, "compile source patterns",
			)
		}
		out = append(out, g)
	}
	return out, nil
}
