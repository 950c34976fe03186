// # internal/ui/cli/render.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"relight/internal/core/ports"
	"relight/internal/shared/position"

	"github.com/charmbracelet/lipgloss"
)

// RenderJSON writes res as indented JSON.
func RenderJSON(w io.Writer, res ports.HighlightResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// RenderText writes a header line, then every range with its source line
// and a caret underline.
func RenderText(w io.Writer, res ports.HighlightResult) error {
	var b strings.Builder
	header := fmt.Sprintf("%s:%s", res.Path, res.Cursor)
	if res.Token != "" {
		header += fmt.Sprintf(" %q", res.Token)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString(statusStyle.Render(fmt.Sprintf(" %s, %d range(s)", res.Feature, len(res.Ranges))))
	b.WriteByte('\n')

	index := position.NewIndex(res.Source)
	for _, r := range res.Ranges {
		b.WriteString(renderRange(index, res.Source, r))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderRange(index *position.Index, src []byte, r ports.HighlightRange) string {
	label := fmt.Sprintf("%s-%s", r.From, r.To)
	if r.Category != "" {
		label += " " + r.Category
	}

	lineStart, lineEnd := index.LineBounds(r.From.Line)
	line := string(src[lineStart:lineEnd])
	gutter := fmt.Sprintf("%5d | ", r.From.Line)

	// Ranges spanning lines are underlined to the end of their first line.
	end := r.End
	if end > lineEnd {
		end = lineEnd
	}
	width := end - r.Start
	if width < 1 {
		width = 1
	}
	pad := strings.Repeat(" ", len(gutter)) + caretPadding(line[:r.Start-lineStart])

	return lipgloss.JoinVertical(lipgloss.Left,
		"  "+statusStyle.Render(label),
		gutterStyle.Render(gutter)+line,
		pad+caretStyle.Render(strings.Repeat("^", width)),
	) + "\n"
}

// caretPadding keeps tabs so the carets line up under tabbed source.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, c := range prefix {
		if c == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// renderSource paints src with the highlighted ranges and the cursor, one
// numbered line per output line.
func renderSource(src []byte, ranges []ports.HighlightRange, cursor int) string {
	index := position.NewIndex(src)
	cats := make([]int, len(src)+1)
	names := []string{""}
	for _, r := range ranges {
		cat := len(names)
		names = append(names, r.Category)
		for i := r.Start; i < r.End && i < len(cats); i++ {
			cats[i] = cat
		}
	}

	var b strings.Builder
	for line := 1; line <= index.Lines(); line++ {
		start, end := index.LineBounds(line)
		b.WriteString(gutterStyle.Render(fmt.Sprintf("%4d ", line)))
		b.WriteString(paintLine(src, start, end, cats, names, cursor))
		if line < index.Lines() {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func paintLine(src []byte, start, end int, cats []int, names []string, cursor int) string {
	var b strings.Builder
	flush := func(from, to int) {
		if from >= to {
			return
		}
		text := strings.ReplaceAll(string(src[from:to]), "\t", "    ")
		if cats[from] == 0 {
			b.WriteString(text)
			return
		}
		b.WriteString(categoryStyle(names[cats[from]]).Render(text))
	}

	seg := start
	for i := start; i < end; i++ {
		if i == cursor {
			flush(seg, i)
			n := runeLen(src, i)
			b.WriteString(cursorStyle.Render(string(src[i : i+n])))
			i += n - 1
			seg = i + 1
			continue
		}
		if cats[i] != cats[seg] {
			flush(seg, i)
			seg = i
		}
	}
	flush(seg, end)
	if cursor == end {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}

func runeLen(src []byte, i int) int {
	n := 1
	for i+n < len(src) && src[i+n]&0xC0 == 0x80 {
		n++
	}
	return n
}
