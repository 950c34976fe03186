// # internal/engine/syntax/ast.go
package syntax

// Typed accessors over the arena. Each one returns None when the element is
// absent or id has the wrong kind, so callers can chain them freely.

// FnKeyword returns the `fn` token of a function item.
func (t *Tree) FnKeyword(fn NodeID) NodeID {
	if t.Kind(fn) != FnItem {
		return None
	}
	return t.ChildOfKind(fn, FnKw)
}

// AsyncToken returns the `async` modifier of a function, closure or block.
func (t *Tree) AsyncToken(id NodeID) NodeID {
	switch t.Kind(id) {
	case FnItem, ClosureExpr, BlockExpr:
		return t.ChildOfKind(id, AsyncKw)
	}
	return None
}

// Body returns the body of a function, closure or loop.
func (t *Tree) Body(id NodeID) NodeID {
	switch t.Kind(id) {
	case FnItem, ClosureExpr, LoopExpr, WhileExpr, ForExpr, ConstItem, ModItem, TraitItem, ImplItem:
		return t.ChildByField(id, FieldBody)
	}
	return None
}

// BlockModifier returns the async, try, const or unsafe token introducing a
// block expression.
func (t *Tree) BlockModifier(block NodeID) NodeID {
	if t.Kind(block) != BlockExpr {
		return None
	}
	for _, c := range t.Children(block) {
		switch t.kinds[c] {
		case AsyncKw, TryKw, ConstKw, UnsafeKw:
			return c
		case LBrace:
			return None
		}
	}
	return None
}

// IsEffectBlock reports a block introduced by async, try or const. Such a
// block is a separate exit context.
func (t *Tree) IsEffectBlock(block NodeID) bool {
	switch t.Kind(t.BlockModifier(block)) {
	case AsyncKw, TryKw, ConstKw:
		return true
	}
	return false
}

// TailExpr returns the trailing expression of a block.
func (t *Tree) TailExpr(block NodeID) NodeID {
	if t.Kind(block) != BlockExpr {
		return None
	}
	return t.ChildByField(block, FieldTail)
}

// Label returns the `'name:` label of a loop or block.
func (t *Tree) Label(id NodeID) NodeID {
	switch t.Kind(id) {
	case LoopExpr, WhileExpr, ForExpr, BlockExpr:
		return t.ChildOfKind(id, Label)
	}
	return None
}

// Lifetime returns the lifetime token of a label, break or continue.
func (t *Tree) Lifetime(id NodeID) NodeID {
	switch t.Kind(id) {
	case Label, BreakExpr, ContinueExpr:
		return t.ChildOfKind(id, Lifetime)
	}
	return None
}

// LabelText returns the label name of a loop or block, or "".
func (t *Tree) LabelText(id NodeID) string {
	lt := t.Lifetime(t.Label(id))
	if lt == None {
		return ""
	}
	return t.Text(lt)
}

// LoopKeyword returns the introducing keyword of loop, while or for.
func (t *Tree) LoopKeyword(loop NodeID) NodeID {
	switch t.Kind(loop) {
	case LoopExpr:
		return t.ChildOfKind(loop, LoopKw)
	case WhileExpr:
		return t.ChildOfKind(loop, WhileKw)
	case ForExpr:
		return t.ChildOfKind(loop, ForKw)
	}
	return None
}

// Keyword returns the leading keyword of return, break, continue, try (`?`)
// and await expressions.
func (t *Tree) Keyword(expr NodeID) NodeID {
	switch t.Kind(expr) {
	case ReturnExpr:
		return t.ChildOfKind(expr, ReturnKw)
	case BreakExpr:
		return t.ChildOfKind(expr, BreakKw)
	case ContinueExpr:
		return t.ChildOfKind(expr, ContinueKw)
	case TryExpr:
		return t.ChildOfKind(expr, Question)
	case AwaitExpr:
		return t.ChildOfKind(expr, AwaitKw)
	}
	return None
}

// IfBranches returns the consequence block and the else branch, which is
// either a block or a nested if.
func (t *Tree) IfBranches(ifExpr NodeID) (then, els NodeID) {
	if t.Kind(ifExpr) != IfExpr {
		return None, None
	}
	return t.ChildByField(ifExpr, FieldConsequence), t.ChildByField(ifExpr, FieldAlternative)
}

// MatchArms returns the arms of a match expression.
func (t *Tree) MatchArms(match NodeID) []NodeID {
	list := t.ChildOfKind(match, MatchArmList)
	if list == None {
		return nil
	}
	var arms []NodeID
	for _, c := range t.Children(list) {
		if t.kinds[c] == MatchArm {
			arms = append(arms, c)
		}
	}
	return arms
}

// ClosureParams returns the `|...|` parameter list of a closure.
func (t *Tree) ClosureParams(closure NodeID) NodeID {
	if t.Kind(closure) != ClosureExpr {
		return None
	}
	return t.ChildOfKind(closure, ClosureParams)
}

// Pipes returns the opening and closing `|` of a closure parameter list.
func (t *Tree) Pipes(params NodeID) (opening, closing NodeID) {
	opening, closing = None, None
	for _, c := range t.Children(params) {
		if t.kinds[c] != Pipe {
			continue
		}
		if opening == None {
			opening = c
		} else {
			closing = c
		}
	}
	return opening, closing
}
