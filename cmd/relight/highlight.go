// # cmd/relight/highlight.go
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/shared/util"
	"relight/internal/ui/cli"
	"relight/internal/ui/report"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type highlightHandler struct {
	global *globalFlags
	cursor cursorFlags
	format string
	output string
}

func newHighlightCommand(g *globalFlags) *cobra.Command {
	me := &highlightHandler{global: g}

	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "print the ranges related to the cursor",
		Args:  cobra.ExactArgs(1),
	}

	me.cursor.register(cmd)
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text, json, sarif or tsv")
	cmd.Flags().StringVarP(&me.output, "output", "o", "", "write the result to this file instead of stdout")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args[0])
	}
	return cmd
}

func (me *highlightHandler) Run(ctx context.Context, cmd *cobra.Command, path string) error {
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
	res, err := s.app.HighlightService().Highlight(ctx, req)
	if err != nil {
		return err
	}

	if me.output == "" {
		return render(cmd.OutOrStdout(), res)
	}
	var buf bytes.Buffer
	if err := render(&buf, res); err != nil {
		return err
	}
	return util.WriteFileWithDirs(afero.NewOsFs(), me.output, buf.Bytes(), 0o644)
}

func renderer(format, version string) (func(io.Writer, ports.HighlightResult) error, error) {
	switch format {
	case "text":
		return cli.RenderText, nil
	case "json":
		return cli.RenderJSON, nil
	case "tsv":
		return report.WriteTSV, nil
	case "sarif":
		root, _ := os.Getwd()
		return func(w io.Writer, res ports.HighlightResult) error {
			return report.WriteSARIF(w, root, version, res)
		}, nil
	}
	return nil, errors.AddContext(
		errors.New(errors.CodeValidationError, fmt.Sprintf("unknown format %q", format)),
		errors.CtxKey, "format",
	)
}
