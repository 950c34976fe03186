// # internal/core/app/watch_test.go
package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"relight/internal/core/config"
	"relight/internal/core/ports"
	"relight/internal/engine/highlight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchService_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn a() { let x = 1; x; }\n"), 0o644))

	cfg := config.Default()
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxPerSecond = 0
	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan ports.HighlightResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- a.WatchService().Watch(ctx, ports.HighlightRequest{
			Path:     path,
			Offset:   13,
			Features: highlight.AllEnabled(),
		}, func(res ports.HighlightResult, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	select {
	case res := <-results:
		assert.Len(t, res.Ranges, 2)
	case <-time.After(3 * time.Second):
		t.Fatal("no initial result")
	}

	// A reload retunes the live watcher instead of restarting it.
	a.mu.RLock()
	assert.Len(t, a.watchers, 1)
	a.mu.RUnlock()
	reloaded := *cfg
	reloaded.Watch.Debounce = 10 * time.Millisecond
	reloaded.Watch.MaxPerSecond = 50
	require.NoError(t, a.SetConfig(&reloaded))

	require.NoError(t, os.WriteFile(path, []byte("fn a() { let x = 1; x; x; }\n"), 0o644))
	select {
	case res := <-results:
		assert.Len(t, res.Ranges, 3)
	case <-time.After(3 * time.Second):
		t.Fatal("no result after change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		a.mu.RLock()
		assert.Empty(t, a.watchers)
		a.mu.RUnlock()
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
