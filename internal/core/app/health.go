// # internal/core/app/health.go
package app

import (
	"context"
	"strconv"
	"time"

	"relight/internal/shared/util"
)

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

// Check reports component status in the shape the /health endpoint serves.
func (s *HealthService) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":    "up",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"heap_mb":   strconv.FormatUint(util.HeapAllocMB(), 10),
	}
	if err := ctx.Err(); err != nil {
		status["status"] = "down"
		return status
	}

	if s.app == nil || s.app.Parser == nil {
		status["status"] = "degraded"
		status["parser"] = "missing"
	} else {
		status["parser"] = "ok"
	}

	if s.app != nil && s.app.Config() != nil {
		cfg := s.app.Config()
		status["config"] = "ok"
		status["sources"] = strconv.Itoa(len(cfg.Sources.Include)) + " include / " + strconv.Itoa(len(cfg.Sources.Exclude)) + " exclude"
	} else {
		status["status"] = "degraded"
		status["config"] = "missing"
	}
	return status
}
