// # internal/ui/cli/render_test.go
package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/shared/position"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() ports.HighlightResult {
	src := "fn f() {\n\tlet v = 1;\n\tv\n}\n"
	return ports.HighlightResult{
		Path:    "src/f.rs",
		Offset:  14,
		Cursor:  position.LineCol{Line: 2, Col: 6},
		Token:   "v",
		Feature: highlight.FeatureReferences,
		Ranges: []ports.HighlightRange{
			{Start: 14, End: 15, From: position.LineCol{Line: 2, Col: 6}, To: position.LineCol{Line: 2, Col: 7}, Text: "v"},
			{Start: 22, End: 23, From: position.LineCol{Line: 3, Col: 2}, To: position.LineCol{Line: 3, Col: 3}, Category: "read", Text: "v"},
		},
		Source: []byte(src),
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, `src/f.rs:2:6 "v"`)
	assert.Contains(t, out, "references, 2 range(s)")
	assert.Contains(t, out, "2:6-2:7")
	assert.Contains(t, out, "3:2-3:3 read")
	assert.Contains(t, out, "    2 | \tlet v = 1;")

	// The caret sits under `v`, with the tab preserved in the padding.
	lines := strings.Split(out, "\n")
	var caret string
	for i, l := range lines {
		if strings.Contains(l, "\tlet v = 1;") {
			caret = lines[i+1]
			break
		}
	}
	assert.Equal(t, strings.Repeat(" ", 8)+"\t    ^", strings.TrimRight(caret, " "))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "references", got["feature"])
	assert.Equal(t, "v", got["token"])
	assert.Len(t, got["ranges"], 2)
	assert.NotContains(t, got, "Source")
}

func TestRenderText_NoRanges(t *testing.T) {
	res := ports.HighlightResult{Path: "a.rs", Cursor: position.LineCol{Line: 1, Col: 1}, Feature: highlight.FeatureNone, Source: []byte("")}
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, res))
	assert.Equal(t, "a.rs:1:1 none, 0 range(s)\n", buf.String())
}
