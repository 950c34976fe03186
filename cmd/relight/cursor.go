// # cmd/relight/cursor.go
package main

import (
	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/shared/position"

	"github.com/spf13/cobra"
)

// cursorFlags are shared by every command that takes a cursor.
type cursorFlags struct {
	offset int
	pos    string

	references      bool
	exitPoints      bool
	breakPoints     bool
	closureCaptures bool
	yieldPoints     bool
}

func (c *cursorFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&c.offset, "offset", -1, "cursor as a byte offset")
	f.StringVar(&c.pos, "pos", "", "cursor as LINE:COL (1-based, byte columns)")
	f.BoolVar(&c.references, "references", true, "highlight references of the name under the cursor")
	f.BoolVar(&c.exitPoints, "exit-points", true, "highlight exit points on fn, return, ? and ->")
	f.BoolVar(&c.breakPoints, "break-points", true, "highlight break points on loop keywords")
	f.BoolVar(&c.closureCaptures, "closure-captures", true, "highlight captures on closure pipes and move")
	f.BoolVar(&c.yieldPoints, "yield-points", true, "highlight yield points on async and await")
	cmd.MarkFlagsMutuallyExclusive("offset", "pos")
}

// request builds the request for path. Feature flags the user did not set
// fall back to defaults. Without a cursor flag the cursor is offset 0 when
// optional, and an error otherwise.
func (c *cursorFlags) request(cmd *cobra.Command, path string, defaults highlight.Config, optional bool) (ports.HighlightRequest, error) {
	req := ports.HighlightRequest{Path: path, Features: defaults}

	flags := cmd.Flags()
	override := func(name string, target *bool, value bool) {
		if flags.Changed(name) {
			*target = value
		}
	}
	override("references", &req.Features.References, c.references)
	override("exit-points", &req.Features.ExitPoints, c.exitPoints)
	override("break-points", &req.Features.BreakPoints, c.breakPoints)
	override("closure-captures", &req.Features.ClosureCaptures, c.closureCaptures)
	override("yield-points", &req.Features.YieldPoints, c.yieldPoints)

	switch {
	case c.pos != "":
		lc, err := position.Parse(c.pos)
		if err != nil {
			return req, errors.Wrap(err, errors.CodeValidationError, "invalid --pos")
		}
		req.Pos = &lc
	case c.offset >= 0:
		req.Offset = c.offset
	case optional:
		req.Offset = 0
	default:
		return req, errors.New(errors.CodeValidationError, "one of --offset or --pos is required")
	}
	return req, nil
}
