// # internal/ui/cli/run_ui.go
package cli

import (
	"context"
	"errors"

	"relight/internal/core/ports"

	tea "github.com/charmbracelet/bubbletea"
)

// RunViewer opens the interactive viewer on req and blocks until the user
// quits or ctx ends.
func RunViewer(ctx context.Context, svc ports.HighlightService, req ports.HighlightRequest) error {
	m := newModel(ctx, svc, req)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
