// # internal/engine/syntax/range.go
package syntax

import "fmt"

// TextRange is a half-open byte span [Start, End) into a file's text.
type TextRange struct {
	Start int
	End   int
}

func NewRange(start, end int) TextRange {
	if end < start {
		start, end = end, start
	}
	return TextRange{Start: start, End: end}
}

func (r TextRange) Len() int { return r.End - r.Start }

func (r TextRange) IsEmpty() bool { return r.Start == r.End }

// Cover returns the smallest range containing both r and o.
func (r TextRange) Cover(o TextRange) TextRange {
	return TextRange{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive treats the end offset as part of the range, matching
// how a cursor placed right after a token still touches it.
func (r TextRange) ContainsInclusive(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

func (r TextRange) ContainsRange(o TextRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// CoverOptional unions two optional ranges. Nil means absent.
func CoverOptional(a, b *TextRange) *TextRange {
	switch {
	case a != nil && b != nil:
		c := a.Cover(*b)
		return &c
	case a != nil:
		c := *a
		return &c
	case b != nil:
		c := *b
		return &c
	}
	return nil
}
