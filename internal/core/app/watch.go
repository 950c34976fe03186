// # internal/core/app/watch.go
package app

import (
	"context"

	"relight/internal/core/ports"
	"relight/internal/core/watcher"

	"github.com/rs/zerolog"
)

type watchService struct {
	app       *App
	highlight ports.HighlightService
}

var _ ports.WatchService = (*watchService)(nil)

func (a *App) WatchService() ports.WatchService {
	return &watchService{app: a, highlight: a.HighlightService()}
}

// Watch runs req once, then again after every change to its file. Handler
// calls are serialized. It returns when ctx ends.
func (s *watchService) Watch(ctx context.Context, req ports.HighlightRequest, handler func(ports.HighlightResult, error)) error {
	cfg := s.app.Config()
	run := func() {
		handler(s.highlight.Highlight(ctx, req))
	}

	w, err := watcher.NewWatcher(ctx, cfg.Watch.Debounce, cfg.Watch.MaxPerSecond, func([]string) {
		if ctx.Err() == nil {
			run()
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	s.app.trackWatcher(w)
	defer s.app.untrackWatcher(w)

	if err := w.Add(req.Path); err != nil {
		return err
	}
	w.Start(ctx)

	zerolog.Ctx(ctx).Info().Str("path", req.Path).Msg("watching for changes")
	w.Trigger(req.Path)

	<-ctx.Done()
	return nil
}
