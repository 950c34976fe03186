// # internal/engine/highlight/exits.go
package highlight

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// exitScope is the nearest enclosing function-like context of a token.
type exitScope struct {
	anchors []syntax.NodeID
	body    syntax.NodeID
}

// exitPoints highlights every way control can leave the nearest function,
// closure or effect block.
func (a *analysis) exitPoints(token syntax.NodeID) []HighlightedRange {
	t := a.tree
	var scope *exitScope
search:
	for anc := range t.ParentAncestors(token) {
		switch t.Kind(anc) {
		case syntax.FnItem:
			scope = &exitScope{anchors: []syntax.NodeID{t.FnKeyword(anc)}, body: t.Body(anc)}
			break search
		case syntax.ClosureExpr:
			opening, closing := t.Pipes(t.ClosureParams(anc))
			scope = &exitScope{anchors: []syntax.NodeID{opening, closing}, body: t.Body(anc)}
			break search
		case syntax.BlockExpr:
			if t.IsEffectBlock(anc) {
				scope = &exitScope{anchors: []syntax.NodeID{t.BlockModifier(anc)}, body: anc}
				break search
			}
		}
	}
	if scope == nil {
		return nil
	}

	set := rangeSet{}
	for _, anchor := range scope.anchors {
		set.addToken(t, anchor)
	}
	if scope.body == syntax.None {
		return set.sorted()
	}

	walkExpr(t, scope.body, isExitBoundary, func(expr syntax.NodeID) {
		switch t.Kind(expr) {
		case syntax.ReturnExpr, syntax.TryExpr:
			set.addToken(t, t.Keyword(expr))
		case syntax.CallExpr, syntax.MacroCall:
			if a.sema.IsNever(a.file, expr) {
				set.add(t.Range(expr), semantics.CategoryNone)
			}
		}
	})

	tail := scope.body
	if t.Kind(tail) == syntax.BlockExpr {
		tail = t.TailExpr(tail)
	}
	for expr := range TailExprs(t, tail) {
		if t.Kind(expr) == syntax.BreakExpr {
			if kw := t.Keyword(expr); kw != syntax.None {
				set.addToken(t, kw)
				continue
			}
		}
		set.add(t.Range(expr), semantics.CategoryNone)
	}
	return set.sorted()
}

// isExitBoundary reports a nested context whose returns and `?` belong to
// itself.
func isExitBoundary(t *syntax.Tree, id syntax.NodeID) bool {
	switch t.Kind(id) {
	case syntax.ClosureExpr:
		return true
	case syntax.BlockExpr:
		return t.IsEffectBlock(id)
	}
	return false
}

// isYieldBoundary reports a nested context with its own await points.
func isYieldBoundary(t *syntax.Tree, id syntax.NodeID) bool {
	switch t.Kind(id) {
	case syntax.ClosureExpr:
		return true
	case syntax.BlockExpr:
		return t.Kind(t.BlockModifier(id)) == syntax.AsyncKw
	}
	return false
}

// walkExpr visits start and every node below it that belongs to the same
// control context. Nested items, generic arguments, token trees and the
// pattern and type of a let statement are skipped. Nodes for which boundary
// reports true are visited but not entered, except start itself.
func walkExpr(t *syntax.Tree, start syntax.NodeID, boundary func(*syntax.Tree, syntax.NodeID) bool, visit func(syntax.NodeID)) {
	t.Walk(start, func(id syntax.NodeID) bool {
		if t.IsToken(id) {
			return false
		}
		kind := t.Kind(id)
		if id != start {
			switch kind {
			case syntax.TypeArgs, syntax.TokenTree, syntax.Attr:
				return false
			}
			if kind.IsItem() {
				return false
			}
			if t.Kind(t.Parent(id)) == syntax.LetStmt {
				switch t.Field(id) {
				case syntax.FieldPattern, syntax.FieldType:
					return false
				}
			}
		}
		visit(id)
		return id == start || !boundary(t, id)
	}, nil)
}
