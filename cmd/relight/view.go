// # cmd/relight/view.go
package main

import (
	"context"

	"relight/internal/ui/cli"

	"github.com/spf13/cobra"
)

type viewHandler struct {
	global *globalFlags
	cursor cursorFlags
}

func newViewCommand(g *globalFlags) *cobra.Command {
	me := &viewHandler{global: g}

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "browse a file interactively, highlighting as the cursor moves",
		Args:  cobra.ExactArgs(1),
	}

	me.cursor.register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}
	return cmd
}

func (me *viewHandler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
	// Logs go to a file so they do not corrupt the screen.
	ctx, s, err := me.global.open(ctx, true)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	req, err := me.cursor.request(cmd, path, s.app.DefaultFeatures(), true)
	if err != nil {
		return err
	}

	s.serveMetrics(ctx)
	s.watchConfig(ctx, me.global.configPath)

	return cli.RunViewer(ctx, s.app.HighlightService(), req)
}
