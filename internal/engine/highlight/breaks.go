// # internal/engine/highlight/breaks.go
package highlight

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// breakPoints highlights a loop or labeled block together with the breaks
// and continues that target it.
func (a *analysis) breakPoints(token syntax.NodeID) []HighlightedRange {
	t := a.tree
	parent := t.Parent(token)

	label, labeled := "", false
	switch t.Kind(parent) {
	case syntax.BreakExpr, syntax.ContinueExpr:
		if lt := t.Lifetime(parent); lt != syntax.None {
			label, labeled = t.Text(lt), true
		}
	case syntax.LoopExpr, syntax.WhileExpr, syntax.ForExpr:
		if lt := t.Lifetime(t.Label(parent)); lt != syntax.None {
			label, labeled = t.Text(lt), true
		}
	case syntax.BlockExpr:
		lt := t.Lifetime(t.Label(parent))
		if lt == syntax.None {
			return nil
		}
		label, labeled = t.Text(lt), true
	default:
		return nil
	}

	matches := func(target syntax.NodeID) bool {
		return !labeled || t.LabelText(target) == label
	}
	target := syntax.None
	for anc := range t.ParentAncestors(token) {
		kind := t.Kind(anc)
		if kind.IsLoop() && matches(anc) {
			target = anc
			break
		}
		if kind == syntax.BlockExpr && t.Label(anc) != syntax.None && matches(anc) {
			target = anc
			break
		}
	}
	if target == syntax.None {
		return nil
	}

	body, keyword := target, syntax.None
	if t.Kind(target).IsLoop() {
		body, keyword = t.Body(target), t.LoopKeyword(target)
	}
	set := rangeSet{}
	if r := coverRange(t, keyword, t.Label(target)); r != nil {
		set.add(*r, semantics.CategoryNone)
	}

	kind := t.Kind(token)
	wantBreaks := kind == syntax.ForKw || kind == syntax.WhileKw || kind == syntax.LoopKw || kind == syntax.BreakKw
	wantContinues := kind == syntax.ForKw || kind == syntax.WhileKw || kind == syntax.LoopKw || kind == syntax.ContinueKw
	for jump := range BreakAndContinueExprs(t, t.LabelText(target), body) {
		switch t.Kind(jump) {
		case syntax.BreakExpr:
			if !wantBreaks {
				continue
			}
		case syntax.ContinueExpr:
			if !wantContinues {
				continue
			}
		}
		if r := coverRange(t, t.Keyword(jump), t.Lifetime(jump)); r != nil {
			set.add(*r, semantics.CategoryNone)
		}
	}
	return set.sorted()
}
