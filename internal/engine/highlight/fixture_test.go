// # internal/engine/highlight/fixture_test.go
package highlight

import (
	"context"
	"sort"
	"strings"
	"testing"

	"relight/internal/engine/parser"
	"relight/internal/engine/resolver"
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cursorMarker = "$0"

// annotation is one expected highlight: a caret run under a source line,
// optionally followed by a category word.
type annotation struct {
	Range    syntax.TextRange
	Category string
}

type fixture struct {
	src    string
	offset int
	want   []annotation
}

// parseFixture strips the cursor marker and collects `// ^^^ category`
// annotations. Caret columns refer to the closest preceding line that is not
// itself an annotation.
func parseFixture(t *testing.T, text string) fixture {
	t.Helper()
	offset := strings.Index(text, cursorMarker)
	require.GreaterOrEqual(t, offset, 0, "fixture has no cursor")
	src := text[:offset] + text[offset+len(cursorMarker):]

	fx := fixture{src: src, offset: offset, want: []annotation{}}
	lineStart := 0
	prevStart := -1
	for _, line := range strings.SplitAfter(src, "\n") {
		if prevStart >= 0 && isAnnotationLine(line) {
			fx.want = append(fx.want, caretRuns(line, prevStart)...)
		} else {
			prevStart = lineStart
		}
		lineStart += len(line)
	}
	sortAnnotations(fx.want)
	return fx
}

func isAnnotationLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") && strings.Contains(trimmed, "^")
}

func caretRuns(line string, base int) []annotation {
	var out []annotation
	for col := 0; col < len(line); {
		if line[col] != '^' {
			col++
			continue
		}
		start := col
		for col < len(line) && line[col] == '^' {
			col++
		}
		rest := line[col:]
		if next := strings.IndexByte(rest, '^'); next >= 0 {
			rest = rest[:next]
		}
		category := ""
		if fields := strings.Fields(rest); len(fields) > 0 {
			category = fields[0]
		}
		out = append(out, annotation{
			Range:    syntax.NewRange(base+start, base+col),
			Category: category,
		})
	}
	return out
}

func sortAnnotations(as []annotation) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].Range.Start != as[j].Range.Start {
			return as[i].Range.Start < as[j].Range.Start
		}
		return as[i].Range.End < as[j].Range.End
	})
}

func toAnnotations(hl []HighlightedRange) []annotation {
	out := make([]annotation, 0, len(hl))
	for _, h := range hl {
		out = append(out, annotation{Range: h.Range, Category: h.Category.String()})
	}
	sortAnnotations(out)
	return out
}

func analyze(fx fixture) (*resolver.Snapshot, semantics.FilePosition) {
	tree := parser.ParseSource(fx.src)
	return resolver.Analyze(tree), semantics.FilePosition{File: 0, Offset: fx.offset}
}

func check(t *testing.T, text string) {
	t.Helper()
	checkWithConfig(t, text, AllEnabled())
}

func checkWithConfig(t *testing.T, text string, cfg Config) {
	t.Helper()
	fx := parseFixture(t, text)
	sema, pos := analyze(fx)
	got := Related(context.Background(), sema, cfg, pos)
	assert.Equal(t, fx.want, toAnnotations(got), "source:\n%s", fx.src)
}

func TestParseFixture(t *testing.T) {
	fx := parseFixture(t, `
fn f() {
    let x$0 = 1;
     // ^ write ^ read
}
`)
	// The marker sits right after `x`.
	assert.Equal(t, strings.Index(fx.src, "x =")+1, fx.offset)
	line := strings.Index(fx.src, "    let")
	assert.Equal(t, []annotation{
		{Range: syntax.NewRange(line+8, line+9), Category: "write"},
		{Range: syntax.NewRange(line+16, line+17), Category: "read"},
	}, fx.want)
}
