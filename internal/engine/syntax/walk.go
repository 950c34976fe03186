// # internal/engine/syntax/walk.go
package syntax

import "iter"

// Walk visits the subtree rooted at id in preorder. When enter returns false
// the children of that element are skipped; leave still runs for it. leave may
// be nil.
func (t *Tree) Walk(id NodeID, enter func(NodeID) bool, leave func(NodeID)) {
	if !t.valid(id) {
		return
	}
	if enter(id) {
		for _, c := range t.children[id] {
			t.Walk(c, enter, leave)
		}
	}
	if leave != nil {
		leave(id)
	}
}

// Descendants yields every element of the subtree rooted at id in preorder,
// id included.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !t.valid(cur) {
				continue
			}
			if !yield(cur) {
				return
			}
			ch := t.children[cur]
			for i := len(ch) - 1; i >= 0; i-- {
				stack = append(stack, ch[i])
			}
		}
	}
}
