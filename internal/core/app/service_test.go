// # internal/core/app/service_test.go
package app

import (
	"context"
	"testing"

	"relight/internal/core/config"
	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/engine/parser"
	"relight/internal/shared/position"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterSrc = `fn foo() {
    let mut bar = 3;
    bar = bar + 1;
}
`

func newTestApp(t *testing.T, files map[string]string, opts ...Option) *App {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
	}
	a, err := New(config.Default(), append([]Option{WithFs(fs)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestHighlight_ByPosition(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc})

	res, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{
		Path:     "/src/lib.rs",
		Pos:      &position.LineCol{Line: 3, Col: 5},
		Features: highlight.AllEnabled(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, 36, res.Offset)
	assert.Equal(t, position.LineCol{Line: 3, Col: 5}, res.Cursor)
	assert.Equal(t, "bar", res.Token)
	assert.Equal(t, highlight.FeatureReferences, res.Feature)
	assert.Equal(t, []ports.HighlightRange{
		{Start: 23, End: 26, From: position.LineCol{Line: 2, Col: 13}, To: position.LineCol{Line: 2, Col: 16}, Category: "write", Text: "bar"},
		{Start: 36, End: 39, From: position.LineCol{Line: 3, Col: 5}, To: position.LineCol{Line: 3, Col: 8}, Category: "write", Text: "bar"},
		{Start: 42, End: 45, From: position.LineCol{Line: 3, Col: 11}, To: position.LineCol{Line: 3, Col: 14}, Category: "read", Text: "bar"},
	}, res.Ranges)
	assert.Equal(t, counterSrc, string(res.Source))
}

func TestHighlight_ByOffset(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc})

	res, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{
		Path:     "/src/lib.rs",
		Offset:   43,
		Features: highlight.AllEnabled(),
	})
	require.NoError(t, err)
	assert.Len(t, res.Ranges, 3)
}

func TestHighlight_ExitPoints(t *testing.T) {
	src := "fn f() -> u8 {\n    return 1;\n}\n"
	a := newTestApp(t, map[string]string{"/src/f.rs": src})

	res, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{
		Path:     "/src/f.rs",
		Offset:   0,
		Features: highlight.AllEnabled(),
	})
	require.NoError(t, err)
	assert.Equal(t, highlight.FeatureExitPoints, res.Feature)
	assert.Equal(t, "fn", res.Token)
	texts := make([]string, 0, len(res.Ranges))
	for _, r := range res.Ranges {
		texts = append(texts, r.Text)
		assert.Empty(t, r.Category)
	}
	assert.Equal(t, []string{"fn", "return"}, texts)
}

func TestHighlight_NothingEnabled(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc})

	res, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{
		Path:   "/src/lib.rs",
		Offset: 36,
	})
	require.NoError(t, err)
	assert.Equal(t, highlight.FeatureNone, res.Feature)
	assert.NotNil(t, res.Ranges)
	assert.Empty(t, res.Ranges)
}

func TestHighlight_Errors(t *testing.T) {
	a := newTestApp(t, map[string]string{
		"/src/lib.rs":         counterSrc,
		"/proj/target/gen.rs": counterSrc,
		"/src/main.go":        "package main",
	})

	tests := []struct {
		name string
		req  ports.HighlightRequest
		code errors.ErrorCode
	}{
		{"missing file", ports.HighlightRequest{Path: "/src/gone.rs"}, errors.CodeNotFound},
		{"excluded", ports.HighlightRequest{Path: "/proj/target/gen.rs"}, errors.CodeValidationError},
		{"not rust", ports.HighlightRequest{Path: "/src/main.go"}, errors.CodeValidationError},
		{"negative offset", ports.HighlightRequest{Path: "/src/lib.rs", Offset: -1}, errors.CodeValidationError},
		{"offset past end", ports.HighlightRequest{Path: "/src/lib.rs", Offset: len(counterSrc) + 1}, errors.CodeValidationError},
		{"position past line", ports.HighlightRequest{Path: "/src/lib.rs", Pos: &position.LineCol{Line: 1, Col: 40}}, errors.CodeValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.HighlightService().Highlight(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestHighlight_OffsetAtEOF(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc})

	res, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{
		Path:     "/src/lib.rs",
		Offset:   len(counterSrc),
		Features: highlight.AllEnabled(),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Ranges)
}

type failingParser struct{}

func (failingParser) Parse(context.Context, string, []byte) (*parser.ParsedFile, error) {
	return nil, errors.New(errors.CodeParse, "boom")
}

func TestHighlight_ParserFailure(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc}, WithParser(failingParser{}))

	_, err := a.HighlightService().Highlight(context.Background(), ports.HighlightRequest{Path: "/src/lib.rs"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParse))
}

func TestHighlight_Cancelled(t *testing.T) {
	a := newTestApp(t, map[string]string{"/src/lib.rs": counterSrc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.HighlightService().Highlight(ctx, ports.HighlightRequest{Path: "/src/lib.rs"})
	require.Error(t, err)
}

func TestApp_Allowed(t *testing.T) {
	a := newTestApp(t, nil)
	assert.True(t, a.Allowed("/src/lib.rs"))
	assert.True(t, a.Allowed("/deep/nested/dir/mod.rs"))
	assert.False(t, a.Allowed("/proj/target/debug/build.rs"))
	assert.False(t, a.Allowed("/src/lib.go"))
}

func TestApp_SetConfigKeepsOldOnError(t *testing.T) {
	a := newTestApp(t, nil)
	before := a.Config()

	bad := config.Default()
	bad.Sources.Include = []string{"src/[a"}
	err := a.SetConfig(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Same(t, before, a.Config())

	narrow := config.Default()
	narrow.Sources.Include = []string{"/only/**.rs"}
	require.NoError(t, a.SetConfig(narrow))
	assert.False(t, a.Allowed("/src/lib.rs"))
	assert.True(t, a.Allowed("/only/x/lib.rs"))
}

func TestApp_DefaultFeatures(t *testing.T) {
	cfg := config.Default()
	off := false
	cfg.Highlight.ClosureCaptures = &off
	a, err := New(cfg, WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)
	defer a.Close(context.Background())

	want := highlight.AllEnabled()
	want.ClosureCaptures = false
	assert.Equal(t, want, a.DefaultFeatures())
}

func TestHealthService_Check(t *testing.T) {
	a := newTestApp(t, nil)
	status := NewHealthService(a).Check(context.Background())
	assert.Equal(t, "up", status["status"])
	assert.Equal(t, "ok", status["parser"])
	assert.Equal(t, "ok", status["config"])
	assert.NotEmpty(t, status["heap_mb"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "down", NewHealthService(a).Check(ctx)["status"])
}
