// # internal/engine/highlight/tail.go
package highlight

import (
	"iter"

	"relight/internal/engine/syntax"
)

// TailExprs yields every expression whose value becomes the value of expr.
//
// Effect blocks (async, try, const) are yielded whole. A labeled block
// yields the breaks targeting it followed by the tails of its trailing
// expression. Conditionals and matches fan out into their branches, and a
// loop yields the breaks that leave it.
func TailExprs(t *syntax.Tree, expr syntax.NodeID) iter.Seq[syntax.NodeID] {
	return func(yield func(syntax.NodeID) bool) {
		forEachTail(t, expr, yield)
	}
}

func forEachTail(t *syntax.Tree, expr syntax.NodeID, yield func(syntax.NodeID) bool) bool {
	switch t.Kind(expr) {
	case syntax.ErrorNode:
		return true
	case syntax.BlockExpr:
		if t.IsEffectBlock(expr) {
			return yield(expr)
		}
		if t.Label(expr) != syntax.None {
			for brk := range BreakExprs(t, t.LabelText(expr), expr) {
				if !yield(brk) {
					return false
				}
			}
		}
		if tail := t.TailExpr(expr); tail != syntax.None {
			return forEachTail(t, tail, yield)
		}
		return true
	case syntax.IfExpr:
		for cur := expr; ; {
			then, els := t.IfBranches(cur)
			if then != syntax.None && !forEachTail(t, then, yield) {
				return false
			}
			if t.Kind(els) == syntax.IfExpr {
				cur = els
				continue
			}
			if els != syntax.None {
				return forEachTail(t, els, yield)
			}
			return true
		}
	case syntax.LoopExpr, syntax.WhileExpr, syntax.ForExpr:
		for brk := range BreakExprs(t, t.LabelText(expr), t.Body(expr)) {
			if !yield(brk) {
				return false
			}
		}
		return true
	case syntax.MatchExpr:
		for _, arm := range t.MatchArms(expr) {
			value := t.ChildByField(arm, syntax.FieldValue)
			if value == syntax.None {
				continue
			}
			if !forEachTail(t, value, yield) {
				return false
			}
		}
		return true
	}
	if expr == syntax.None || t.IsToken(expr) && !t.Kind(expr).IsExpr() {
		return true
	}
	return yield(expr)
}

// BreakAndContinueExprs yields the break and continue expressions that
// target container. With an empty label only unlabeled jumps at loop depth
// zero qualify; a labeled jump qualifies at any depth when its label
// matches. Nested items, closures and async/try/const blocks are separate
// control contexts and are not entered.
func BreakAndContinueExprs(t *syntax.Tree, label string, container syntax.NodeID) iter.Seq[syntax.NodeID] {
	return func(yield func(syntax.NodeID) bool) {
		if container == syntax.None {
			return
		}
		depth := 0
		stopped := false
		enter := func(id syntax.NodeID) bool {
			if stopped {
				return false
			}
			kind := t.Kind(id)
			switch {
			case kind.IsItem(), kind == syntax.ClosureExpr:
				return false
			case kind == syntax.BlockExpr && t.IsEffectBlock(id):
				return false
			case kind.IsLoop():
				depth++
			case kind == syntax.BlockExpr && t.Label(id) != syntax.None:
				depth++
			case kind == syntax.BreakExpr, kind == syntax.ContinueExpr:
				lt := t.Lifetime(id)
				matches := (depth == 0 && lt == syntax.None) ||
					(label != "" && lt != syntax.None && t.Text(lt) == label)
				if matches && !yield(id) {
					stopped = true
					return false
				}
			}
			return true
		}
		leave := func(id syntax.NodeID) {
			kind := t.Kind(id)
			if kind.IsLoop() || kind == syntax.BlockExpr && t.Label(id) != syntax.None && !t.IsEffectBlock(id) {
				depth--
			}
		}
		for _, child := range t.Children(container) {
			if stopped {
				return
			}
			t.Walk(child, enter, leave)
		}
	}
}

// BreakExprs is BreakAndContinueExprs restricted to break expressions.
func BreakExprs(t *syntax.Tree, label string, container syntax.NodeID) iter.Seq[syntax.NodeID] {
	return func(yield func(syntax.NodeID) bool) {
		for id := range BreakAndContinueExprs(t, label, container) {
			if t.Kind(id) == syntax.BreakExpr && !yield(id) {
				return
			}
		}
	}
}
