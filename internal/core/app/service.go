// # internal/core/app/service.go
package app

import (
	"context"
	"os"
	"time"

	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/engine/resolver"
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
	"relight/internal/shared/observability"
	"relight/internal/shared/position"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type highlightService struct {
	app *App
}

var _ ports.HighlightService = (*highlightService)(nil)

func NewHighlightService(app *App) ports.HighlightService {
	return &highlightService{app: app}
}

func (a *App) HighlightService() ports.HighlightService {
	return NewHighlightService(a)
}

// Highlight reads, parses and binds the requested file and runs the
// highlighter at the cursor. Nothing is cached between calls.
func (s *highlightService) Highlight(ctx context.Context, req ports.HighlightRequest) (ports.HighlightResult, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("request_id", requestID).Logger()
	ctx = logger.WithContext(ctx)

	ctx, span := observability.Tracer.Start(ctx, "HighlightService.Highlight", trace.WithAttributes(
		attribute.String("request_id", requestID),
		attribute.String("path", req.Path),
	))
	defer span.End()

	res, err := s.highlight(ctx, req)
	observability.RequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RequestErrorsTotal.WithLabelValues(string(errors.CodeOf(err))).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.CodeOf(err)))
		logger.Debug().Err(err).Str("path", req.Path).Msg("highlight failed")
		return ports.HighlightResult{}, err
	}

	res.RequestID = requestID
	observability.RequestsTotal.WithLabelValues(string(res.Feature)).Inc()
	observability.ResultsTotal.Add(float64(len(res.Ranges)))
	span.SetAttributes(
		attribute.Int("offset", res.Offset),
		attribute.String("feature", string(res.Feature)),
		attribute.Int("results", len(res.Ranges)),
	)
	logger.Debug().
		Str("path", res.Path).
		Int("offset", res.Offset).
		Str("feature", string(res.Feature)).
		Int("results", len(res.Ranges)).
		Dur("elapsed", time.Since(start)).
		Msg("highlight served")
	return res, nil
}

func (s *highlightService) highlight(ctx context.Context, req ports.HighlightRequest) (ports.HighlightResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.HighlightResult{}, errors.Wrap(err, errors.CodeInternal, "request cancelled")
	}
	if s.app == nil {
		return ports.HighlightResult{}, errors.New(errors.CodeInternal, "app is required")
	}
	if !s.app.Allowed(req.Path) {
		return ports.HighlightResult{}, errors.AddContext(
			errors.New(errors.CodeValidationError, "path excluded by [sources] patterns"),
			errors.CtxPath, req.Path,
		)
	}

	src, err := afero.ReadFile(s.app.Fs, req.Path)
	if err != nil {
		code := errors.CodeInternal
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return ports.HighlightResult{}, errors.AddContext(errors.Wrap(err, code, "read source"), errors.CtxPath, req.Path)
	}

	index := position.NewIndex(src)
	offset, err := resolveOffset(index, req)
	if err != nil {
		return ports.HighlightResult{}, errors.AddContext(err, errors.CtxPath, req.Path)
	}

	parsed, err := s.app.Parser.Parse(ctx, req.Path, src)
	if err != nil {
		return ports.HighlightResult{}, errors.AddContext(err, errors.CtxOperation, "parse")
	}

	db := resolver.NewDatabase()
	file := db.SetFile(ctx, req.Path, parsed.Tree)
	snapshot := db.Snapshot()
	ranges, feature := highlight.Dispatch(ctx, snapshot, req.Features, semantics.FilePosition{File: file, Offset: offset})

	res := ports.HighlightResult{
		Path:    req.Path,
		Offset:  offset,
		Cursor:  index.LineCol(offset),
		Feature: feature,
		Ranges:  toPortRanges(index, src, ranges),
		Source:  src,
	}
	if tok := highlight.TokenAt(parsed.Tree, offset); tok != syntax.None {
		res.Token = parsed.Tree.Text(tok)
		res.TokenKind = parsed.Tree.Kind(tok).String()
	}
	return res, nil
}

// resolveOffset prefers the line:column position when one is given. The
// offset one past the last byte is valid, matching an editor cursor at EOF.
func resolveOffset(index *position.Index, req ports.HighlightRequest) (int, error) {
	if req.Pos != nil {
		off, ok := index.Offset(*req.Pos)
		if !ok {
			return 0, errors.AddContext(
				errors.New(errors.CodeValidationError, "position outside file"),
				errors.CtxOffset, req.Pos.String(),
			)
		}
		return off, nil
	}
	if req.Offset < 0 || req.Offset > index.Size() {
		return 0, errors.AddContext(
			errors.New(errors.CodeValidationError, "offset outside file"),
			errors.CtxOffset, req.Offset,
		)
	}
	return req.Offset, nil
}

func toPortRanges(index *position.Index, src []byte, ranges []highlight.HighlightedRange) []ports.HighlightRange {
	out := make([]ports.HighlightRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, ports.HighlightRange{
			Start:    r.Range.Start,
			End:      r.Range.End,
			From:     index.LineCol(r.Range.Start),
			To:       index.LineCol(r.Range.End),
			Category: r.Category.String(),
			Text:     string(src[r.Range.Start:r.Range.End]),
		})
	}
	return out
}
