// # internal/engine/highlight/captures.go
package highlight

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// closureCaptures highlights, for the closure owning a `|` or `move`
// token, the declaration and in-body uses of every captured local.
//
// A closure with no captures yields an empty, non-nil result.
func (a *analysis) closureCaptures(token syntax.NodeID) []HighlightedRange {
	t := a.tree
	closure, hops := syntax.None, 0
	for anc := range t.ParentAncestors(token) {
		if hops == 2 {
			break
		}
		if t.Kind(anc) == syntax.ClosureExpr {
			closure = anc
			break
		}
		hops++
	}
	body := t.Body(closure)
	if body == syntax.None {
		return nil
	}
	captures, ok := a.sema.ClosureCaptures(a.file, closure)
	if !ok {
		return nil
	}

	scope := semantics.FileRangeScope(a.file, t.Range(body))
	set := rangeSet{}
	for _, local := range captures {
		category := semantics.CategoryNone
		if a.sema.IsMutable(local) {
			category = semantics.CategoryWrite
		}
		for _, nav := range a.sema.DeclarationSites(local) {
			if nav.File == a.file && nav.FocusRange != nil {
				set.add(*nav.FocusRange, category)
			}
		}
		for _, ref := range a.sema.Usages(local, scope)[a.file] {
			set.add(ref.Range, ref.Category)
		}
	}
	return set.sorted()
}
