// # internal/core/ports/ports.go
package ports

import (
	"context"

	"relight/internal/engine/highlight"
	"relight/internal/engine/parser"
	"relight/internal/shared/position"
)

// SourceParser abstracts parsing a file into the arena tree.
type SourceParser interface {
	Parse(ctx context.Context, path string, src []byte) (*parser.ParsedFile, error)
}

// HighlightRequest names a cursor in a file. Offset is used when Pos is nil.
type HighlightRequest struct {
	Path     string
	Offset   int
	Pos      *position.LineCol
	Features highlight.Config
}

// HighlightRange is one highlighted range with both coordinate systems.
type HighlightRange struct {
	Start    int              `json:"start"`
	End      int              `json:"end"`
	From     position.LineCol `json:"from"`
	To       position.LineCol `json:"to"`
	Category string           `json:"category,omitempty"`
	Text     string           `json:"text"`
}

// HighlightResult is the answer to a HighlightRequest. Ranges is empty when
// there is nothing to highlight.
type HighlightResult struct {
	RequestID string            `json:"request_id"`
	Path      string            `json:"path"`
	Offset    int               `json:"offset"`
	Cursor    position.LineCol  `json:"cursor"`
	Token     string            `json:"token,omitempty"`
	TokenKind string            `json:"token_kind,omitempty"`
	Feature   highlight.Feature `json:"feature"`
	Ranges    []HighlightRange  `json:"ranges"`

	// Source is the text the ranges refer to.
	Source []byte `json:"-"`
}

// HighlightService is the driving port used by the CLI and the viewer.
type HighlightService interface {
	Highlight(ctx context.Context, req HighlightRequest) (HighlightResult, error)
}

// WatchService re-runs a request whenever its file changes, until ctx ends.
type WatchService interface {
	Watch(ctx context.Context, req HighlightRequest, handler func(HighlightResult, error)) error
}
