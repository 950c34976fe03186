// # internal/shared/position/position.go

// Package position converts between byte offsets and 1-based line:column
// pairs. Columns count bytes, matching the offsets the engine works in.
package position

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LineCol is a 1-based line and column.
type LineCol struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

// Index maps offsets in one source text.
type Index struct {
	starts []int
	size   int
}

func NewIndex(src []byte) *Index {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{starts: starts, size: len(src)}
}

// Lines returns the number of lines, counting a trailing empty one.
func (ix *Index) Lines() int { return len(ix.starts) }

// Size is the length of the indexed text.
func (ix *Index) Size() int { return ix.size }

// LineCol maps offset to its position. Offsets past the end clamp to the end.
func (ix *Index) LineCol(offset int) LineCol {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.size {
		offset = ix.size
	}
	line := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset }) - 1
	return LineCol{Line: line + 1, Col: offset - ix.starts[line] + 1}
}

// Offset maps lc back to a byte offset. The column may point one past the
// last character of the line.
func (ix *Index) Offset(lc LineCol) (int, bool) {
	if lc.Line < 1 || lc.Line > len(ix.starts) || lc.Col < 1 {
		return 0, false
	}
	start := ix.starts[lc.Line-1]
	end := ix.size
	if lc.Line < len(ix.starts) {
		end = ix.starts[lc.Line] - 1
	}
	off := start + lc.Col - 1
	if off > end {
		return 0, false
	}
	return off, true
}

// LineBounds returns the byte range of line (1-based) without its newline.
func (ix *Index) LineBounds(line int) (start, end int) {
	if line < 1 || line > len(ix.starts) {
		return 0, 0
	}
	start = ix.starts[line-1]
	end = ix.size
	if line < len(ix.starts) {
		end = ix.starts[line] - 1
	}
	return start, end
}

// Parse reads "LINE:COL".
func Parse(s string) (LineCol, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return LineCol{}, fmt.Errorf("position %q: want LINE:COL", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return LineCol{}, fmt.Errorf("position %q: bad line", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return LineCol{}, fmt.Errorf("position %q: bad column", s)
	}
	return LineCol{Line: line, Col: col}, nil
}
