// # internal/engine/syntax/builder.go
package syntax

import "sort"

// Builder assembles a Tree top-down. Node ranges are computed from their
// children when the node is finished, so only tokens carry explicit ranges.
//
//	b := NewBuilder(src)
//	b.StartNode(SourceFile, FieldNone)
//	b.Token(FnKw, FieldNone, NewRange(0, 2))
//	b.FinishNode()
//	tree := b.Finish()
type Builder struct {
	t       *Tree
	stack   []NodeID
	lastEnd int
}

func NewBuilder(src []byte) *Builder {
	return &Builder{t: &Tree{src: src}}
}

func (b *Builder) push(k Kind, f Field, r TextRange) NodeID {
	id := NodeID(len(b.t.kinds))
	parent := None
	if n := len(b.stack); n > 0 {
		parent = b.stack[n-1]
		b.t.children[parent] = append(b.t.children[parent], id)
	}
	b.t.kinds = append(b.t.kinds, k)
	b.t.fields = append(b.t.fields, f)
	b.t.ranges = append(b.t.ranges, r)
	b.t.parents = append(b.t.parents, parent)
	b.t.children = append(b.t.children, nil)
	return id
}

// StartNode opens an interior node as the last child of the current node.
func (b *Builder) StartNode(k Kind, f Field) NodeID {
	id := b.push(k, f, TextRange{Start: b.lastEnd, End: b.lastEnd})
	b.stack = append(b.stack, id)
	return id
}

// Token appends a leaf to the current node.
func (b *Builder) Token(k Kind, f Field, r TextRange) NodeID {
	id := b.push(k, f, r)
	b.t.tokens = append(b.t.tokens, id)
	if r.End > b.lastEnd {
		b.lastEnd = r.End
	}
	return id
}

// FinishNode closes the current node.
func (b *Builder) FinishNode() {
	n := len(b.stack)
	if n == 0 {
		return
	}
	id := b.stack[n-1]
	b.stack = b.stack[:n-1]
	ch := b.t.children[id]
	if len(ch) > 0 {
		r := b.t.ranges[ch[0]]
		for _, c := range ch[1:] {
			r = r.Cover(b.t.ranges[c])
		}
		b.t.ranges[id] = r
	}
}

// Current returns the innermost open node.
func (b *Builder) Current() NodeID {
	if n := len(b.stack); n > 0 {
		return b.stack[n-1]
	}
	return None
}

// SetField retags an element after it was added.
func (b *Builder) SetField(id NodeID, f Field) {
	if b.t.valid(id) {
		b.t.fields[id] = f
	}
}

// Finish closes every open node and returns the tree. The builder must not be
// used afterwards.
func (b *Builder) Finish() *Tree {
	for len(b.stack) > 0 {
		b.FinishNode()
	}
	t := b.t
	ranges := t.ranges
	sort.SliceStable(t.tokens, func(i, j int) bool {
		return ranges[t.tokens[i]].Start < ranges[t.tokens[j]].Start
	})
	b.t = nil
	return t
}
