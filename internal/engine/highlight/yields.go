// # internal/engine/highlight/yields.go
package highlight

import "relight/internal/engine/syntax"

// yieldPoints highlights the `async` of the nearest async function, closure
// or block together with every `.await` suspending it.
func (a *analysis) yieldPoints(token syntax.NodeID) []HighlightedRange {
	t := a.tree
	async, body, found := syntax.None, syntax.None, false
search:
	for anc := range t.ParentAncestors(token) {
		switch t.Kind(anc) {
		case syntax.FnItem, syntax.ClosureExpr:
			async, body, found = t.AsyncToken(anc), t.Body(anc), true
			break search
		case syntax.BlockExpr:
			if kw := t.AsyncToken(anc); kw != syntax.None {
				async, body, found = kw, anc, true
				break search
			}
		}
	}
	if !found || async == syntax.None {
		return nil
	}

	set := rangeSet{}
	set.addToken(t, async)
	if body == syntax.None {
		return set.sorted()
	}
	walkExpr(t, body, isYieldBoundary, func(expr syntax.NodeID) {
		if t.Kind(expr) == syntax.AwaitExpr {
			set.addToken(t, t.Keyword(expr))
		}
	})
	return set.sorted()
}
