// # cmd/relight/watch.go
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"relight/internal/core/errors"
	"relight/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type watchHandler struct {
	global *globalFlags
	cursor cursorFlags
	format string
}

func newWatchCommand(g *globalFlags) *cobra.Command {
	me := &watchHandler{global: g}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "re-run a highlight every time the file changes",
		Args:  cobra.ExactArgs(1),
	}

	me.cursor.register(cmd)
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text, json, sarif or tsv")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}
	return cmd
}

func (me *watchHandler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
	render, err := renderer(me.format, cmd.Root().Version)
	if err != nil {
		return err
	}

	ctx, s, err := me.global.open(ctx, false)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	req, err := me.cursor.request(cmd, path, s.app.DefaultFeatures(), false)
	if err != nil {
		return err
	}

	s.serveMetrics(ctx)
	s.watchConfig(ctx, me.global.configPath)

	out := cmd.OutOrStdout()
	return s.app.WatchService().Watch(ctx, req, func(res ports.HighlightResult, err error) {
		printUpdate(ctx, out, render, res, err)
	})
}

func printUpdate(ctx context.Context, out io.Writer, render func(io.Writer, ports.HighlightResult) error, res ports.HighlightResult, err error) {
	if err != nil {
		// A half-written file is normal while watching.
		zerolog.Ctx(ctx).Warn().Str("code", string(errors.CodeOf(err))).Err(err).Msg("highlight failed")
		return
	}
	fmt.Fprintf(out, "--- %s\n", time.Now().Format("15:04:05"))
	if err := render(out, res); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("render failed")
	}
}
