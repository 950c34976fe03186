// # internal/engine/resolver/bodies.go
package resolver

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// patCtx carries what a pattern binding inherits from its declaration.
type patCtx struct {
	root    syntax.NodeID
	node    syntax.NodeID
	ty      tyKey
	mutable bool
	// seen merges the bindings of or-pattern alternatives into one local.
	seen map[string]uint32
}

func (b *binder) bodies() {
	t := b.t
	for id := range t.Descendants(t.Root()) {
		switch t.Kind(id) {
		case syntax.FnItem:
			sc := newScope(b.itemScope(id))
			for _, p := range t.Children(t.ChildByField(id, syntax.FieldParameters)) {
				b.param(p, sc)
			}
			b.expr(t.Body(id), sc)
		case syntax.ConstItem, syntax.StaticItem:
			b.expr(t.ChildByField(id, syntax.FieldValue), newScope(b.itemScope(id)))
		case syntax.EnumItem:
			sc := newScope(b.itemScope(id))
			for _, v := range t.Children(t.ChildByField(id, syntax.FieldBody)) {
				if t.Kind(v) == syntax.Variant {
					b.expr(t.ChildByField(v, syntax.FieldValue), sc)
				}
			}
		}
	}
}

func isTypeKind(k syntax.Kind) bool {
	switch k {
	case syntax.RefType, syntax.PointerType, syntax.TupleType, syntax.ArrayType, syntax.FnType,
		syntax.NeverType, syntax.DynType, syntax.ImplTraitType, syntax.BoundedType,
		syntax.GenericType, syntax.QualifiedType, syntax.TypeArgs, syntax.TypeIdent, syntax.SelfTypeKw:
		return true
	}
	return false
}

// expr binds an expression or statement. Nested items are bound on their
// own from their item scope.
func (b *binder) expr(id syntax.NodeID, sc *scope) {
	t := b.t
	if id == syntax.None {
		return
	}
	kind := t.Kind(id)
	switch {
	case kind.IsItem(), kind == syntax.Attr:
		return
	case isTypeKind(kind):
		b.bindType(id, sc)
		return
	case kind == syntax.Ident:
		b.resolveName(id, sc, nsValue)
		return
	case kind == syntax.SelfKw:
		b.record(id, sc.lookup("self", nsValue))
		return
	case t.IsToken(id):
		return
	}

	switch kind {
	case syntax.Path:
		b.resolvePath(id, sc, nsValue)
	case syntax.BlockExpr:
		inner := newScope(sc)
		inner.mod = b.modules[id]
		b.declareLabel(id, inner)
		for _, c := range t.Children(id) {
			b.expr(c, inner)
		}
	case syntax.LetStmt:
		b.let(id, sc)
	case syntax.ClosureExpr:
		b.closure(id, sc)
	case syntax.ForExpr:
		b.expr(t.ChildByField(id, syntax.FieldValue), sc)
		inner := newScope(sc)
		b.declareLabel(id, inner)
		pat := t.ChildByField(id, syntax.FieldPattern)
		b.bindPattern(pat, inner, &patCtx{root: pat, node: pat})
		b.expr(t.Body(id), inner)
	case syntax.WhileExpr:
		inner := newScope(sc)
		b.declareLabel(id, inner)
		b.cond(t.ChildByField(id, syntax.FieldCondition), inner)
		b.expr(t.Body(id), inner)
	case syntax.LoopExpr:
		inner := newScope(sc)
		b.declareLabel(id, inner)
		b.expr(t.Body(id), inner)
	case syntax.IfExpr:
		inner := newScope(sc)
		b.cond(t.ChildByField(id, syntax.FieldCondition), inner)
		then, els := t.IfBranches(id)
		b.expr(then, inner)
		b.expr(els, sc)
	case syntax.MatchExpr:
		b.expr(t.ChildByField(id, syntax.FieldValue), sc)
		for _, arm := range t.MatchArms(id) {
			b.matchArm(arm, sc)
		}
	case syntax.BreakExpr, syntax.ContinueExpr:
		if lt := t.Lifetime(id); lt != syntax.None {
			if def, ok := sc.label(t.Text(lt)); ok {
				b.record(lt, []uint32{def})
			}
		}
		for _, c := range t.Children(id) {
			if t.Kind(c) != syntax.Lifetime {
				b.expr(c, sc)
			}
		}
	case syntax.FieldExpr:
		b.fieldExpr(id, sc)
	case syntax.StructExpr:
		b.structExpr(id, sc)
	case syntax.MacroCall:
		b.macroCall(id, sc)
	default:
		for _, c := range t.Children(id) {
			b.expr(c, sc)
		}
	}
}

// declareLabel defines the `'name:` label of a loop or block in sc.
func (b *binder) declareLabel(id syntax.NodeID, sc *scope) {
	t := b.t
	lt := t.Lifetime(t.Label(id))
	if lt == syntax.None {
		return
	}
	def := b.newDef(semantics.DefLabel, t.Text(lt), lt, t.Label(id))
	b.declare(lt, def)
	if sc.labels == nil {
		sc.labels = map[string]uint32{}
	}
	sc.labels[t.Text(lt)] = def
}

func (b *binder) let(id syntax.NodeID, sc *scope) {
	t := b.t
	value := t.ChildByField(id, syntax.FieldValue)
	b.expr(value, sc)
	b.expr(t.ChildByField(id, syntax.FieldAlternative), sc)

	var ty tyKey
	if tn := t.ChildByField(id, syntax.FieldType); tn != syntax.None {
		ty = b.bindType(tn, sc)
	} else if value != syntax.None {
		ty = b.infer(value, sc)
	}
	pat := t.ChildByField(id, syntax.FieldPattern)
	b.bindPattern(pat, sc, &patCtx{
		root:    pat,
		node:    id,
		ty:      ty,
		mutable: t.ChildOfKind(id, syntax.MutKw) != syntax.None,
	})
}

// cond binds an if or while condition. `let` conditions add their
// bindings to sc, which covers the guarded block.
func (b *binder) cond(id syntax.NodeID, sc *scope) {
	t := b.t
	switch t.Kind(id) {
	case syntax.LetCond:
		value := t.ChildByField(id, syntax.FieldValue)
		b.expr(value, sc)
		pat := t.ChildByField(id, syntax.FieldPattern)
		b.bindPattern(pat, sc, &patCtx{root: pat, node: id, ty: b.infer(value, sc)})
	case syntax.LetChain:
		for _, c := range t.Children(id) {
			b.cond(c, sc)
		}
	default:
		b.expr(id, sc)
	}
}

func (b *binder) matchArm(arm syntax.NodeID, sc *scope) {
	t := b.t
	inner := newScope(sc)
	pc := &patCtx{node: arm}
	for _, c := range t.Children(t.ChildByField(arm, syntax.FieldPattern)) {
		switch {
		case t.Field(c) == syntax.FieldCondition:
			b.cond(c, inner)
		case t.Kind(c) == syntax.IfKw:
		default:
			pc.root = c
			b.bindPattern(c, inner, pc)
		}
	}
	b.expr(t.ChildByField(arm, syntax.FieldValue), inner)
}

func (b *binder) param(p syntax.NodeID, sc *scope) {
	t := b.t
	switch t.Kind(p) {
	case syntax.SelfParam:
		tok := t.ChildOfKind(p, syntax.SelfKw)
		mutable := t.ChildOfKind(p, syntax.MutKw) != syntax.None && t.ChildOfKind(p, syntax.Amp) == syntax.None
		b.bindLocal(tok, sc, &patCtx{root: tok, node: p, ty: sc.self(), mutable: mutable})
	case syntax.Param:
		pat := t.ChildByField(p, syntax.FieldPattern)
		ty, ok := b.paramTypes[p]
		if !ok {
			ty = b.bindType(t.ChildByField(p, syntax.FieldType), sc)
		}
		b.bindPattern(pat, sc, &patCtx{
			root:    pat,
			node:    p,
			ty:      ty,
			mutable: t.ChildOfKind(p, syntax.MutKw) != syntax.None,
		})
	}
}

func (b *binder) closure(id syntax.NodeID, sc *scope) {
	t := b.t
	inner := newScope(sc)
	if _, ok := b.captures[id]; !ok {
		b.captures[id] = []uint32{}
	}
	for _, c := range t.Children(t.ClosureParams(id)) {
		switch t.Kind(c) {
		case syntax.Pipe, syntax.Comma:
		case syntax.Param:
			b.param(c, inner)
		default:
			b.bindPattern(c, inner, &patCtx{root: c, node: c})
		}
	}
	b.bindType(t.ChildByField(id, syntax.FieldReturnType), inner)

	b.closures = append(b.closures, id)
	b.expr(t.Body(id), inner)
	b.closures = b.closures[:len(b.closures)-1]
}

// bindPattern declares the bindings of a pattern in sc and records the
// paths, constants and fields it mentions.
func (b *binder) bindPattern(id syntax.NodeID, sc *scope, pc *patCtx) {
	t := b.t
	if id == syntax.None {
		return
	}
	switch t.Kind(id) {
	case syntax.Ident:
		if defs := sc.lookup(t.Text(id), nsValue); len(defs) > 0 && b.isPatternConst(defs[0]) {
			b.record(id, defs)
			return
		}
		b.bindLocal(id, sc, pc)
	case syntax.SelfKw:
		b.bindLocal(id, sc, pc)
	case syntax.MutPat:
		for _, c := range t.Children(id) {
			if t.Kind(c) == syntax.Ident {
				b.bindLocal(c, sc, &patCtx{root: c, node: pc.node, ty: pc.ty, mutable: true, seen: pc.seen})
				continue
			}
			if t.Kind(c) != syntax.MutKw {
				b.bindPattern(c, sc, pc)
			}
		}
	case syntax.CapturedPat:
		bound := false
		for _, c := range t.Children(id) {
			if !bound && t.Kind(c) == syntax.Ident {
				b.bindLocal(c, sc, pc)
				bound = true
				continue
			}
			b.bindPattern(c, sc, pc)
		}
	case syntax.TupleStructPat:
		path := t.ChildByField(id, syntax.FieldType)
		b.resolvePath(path, sc, nsValue)
		for _, c := range t.Children(id) {
			if c != path {
				b.bindPattern(c, sc, pc)
			}
		}
	case syntax.StructPat:
		path := t.ChildByField(id, syntax.FieldType)
		owner := b.typeOwner(b.resolvePath(path, sc, nsType), sc, path)
		for _, fp := range t.Children(id) {
			if t.Kind(fp) == syntax.FieldPat {
				b.fieldPattern(fp, owner, sc, pc)
			}
		}
	case syntax.Path:
		b.resolvePath(id, sc, nsValue)
	case syntax.OrPat:
		if pc.seen == nil {
			pc.seen = map[string]uint32{}
		}
		for _, c := range t.Children(id) {
			b.bindPattern(c, sc, pc)
		}
	case syntax.RangePat:
		for _, c := range t.Children(id) {
			b.expr(c, sc)
		}
	case syntax.MacroCall, syntax.TokenTree:
	default:
		if t.IsToken(id) {
			return
		}
		for _, c := range t.Children(id) {
			b.bindPattern(c, sc, pc)
		}
	}
}

// fieldPattern binds `field: pat` and the `field` shorthand. The shorthand
// token names both the field and the new local.
func (b *binder) fieldPattern(fp syntax.NodeID, owner tyKey, sc *scope, pc *patCtx) {
	t := b.t
	name := t.ChildByField(fp, syntax.FieldName)
	if name == syntax.None {
		return
	}
	fields := b.fieldOf(owner, t.Text(name), 0)
	if sub := t.ChildByField(fp, syntax.FieldPattern); sub != syntax.None {
		b.record(name, fields)
		b.bindPattern(sub, sc, pc)
		return
	}
	var ty tyKey
	if len(fields) > 0 {
		ty = b.defs[fields[0]].ty
	}
	b.bindLocal(name, sc, &patCtx{
		root:    name,
		node:    fp,
		ty:      ty,
		mutable: t.ChildOfKind(fp, syntax.MutKw) != syntax.None,
		seen:    pc.seen,
	})
	b.record(name, fields)
}

// isPatternConst reports definitions that an identifier pattern matches
// against instead of binding: constants and unit structs or variants.
func (b *binder) isPatternConst(id uint32) bool {
	d := b.defs[id]
	switch d.kind {
	case semantics.DefConst, semantics.DefAssocConst, semantics.DefStatic:
		return true
	case semantics.DefStruct, semantics.DefVariant:
		return d.valueLike && len(d.members) == 0
	}
	return false
}

func (b *binder) bindLocal(tok syntax.NodeID, sc *scope, pc *patCtx) {
	t := b.t
	if tok == syntax.None {
		return
	}
	name := t.Text(tok)
	if pc.seen != nil {
		if id, ok := pc.seen[name]; ok {
			b.defs[id].sites = append(b.defs[id].sites, tok)
			b.declare(tok, id)
			return
		}
	}
	node := pc.node
	if node == syntax.None {
		node = tok
	}
	id := b.newDef(semantics.DefLocal, name, tok, node)
	d := b.defs[id]
	d.sites = []syntax.NodeID{tok}
	d.mutable = pc.mutable && tok == pc.root
	if tok == pc.root {
		d.ty = pc.ty
	}
	sc.bind(nsValue, name, id)
	b.declare(tok, id)
	if pc.seen != nil {
		pc.seen[name] = id
	}
}

// typeOwner picks the struct, union or variant a struct literal or
// pattern names.
func (b *binder) typeOwner(defs []uint32, sc *scope, path syntax.NodeID) tyKey {
	if b.t.Kind(path) == syntax.SelfTypeKw {
		return sc.self()
	}
	for _, id := range defs {
		switch b.defs[id].kind {
		case semantics.DefStruct, semantics.DefUnion, semantics.DefVariant:
			return defKey(id)
		case semantics.DefTypeAlias:
			return b.defs[id].ty
		}
	}
	return ""
}

func (b *binder) fieldExpr(id syntax.NodeID, sc *scope) {
	t := b.t
	value := t.ChildByField(id, syntax.FieldValue)
	b.expr(value, sc)
	field := t.ChildByField(id, syntax.FieldField)
	if field == syntax.None {
		return
	}
	recv := b.infer(value, sc)
	name := t.Text(field)
	if isMethodCallee(t, id) {
		b.record(field, b.method(recv, name))
		return
	}
	b.record(field, b.fieldOf(recv, name, 0))
}

// isMethodCallee reports a field expression in callee position:
// `x.f()` or `x.f::<T>()`.
func isMethodCallee(t *syntax.Tree, id syntax.NodeID) bool {
	callee := id
	if p := t.Parent(id); t.Kind(p) == syntax.GenericFnExpr {
		callee = p
	}
	return t.Kind(t.Parent(callee)) == syntax.CallExpr && t.Field(callee) == syntax.FieldFunction
}

func (b *binder) structExpr(id syntax.NodeID, sc *scope) {
	t := b.t
	name := t.ChildByField(id, syntax.FieldName)
	owner := b.typeOwner(b.resolvePath(name, sc, nsType), sc, name)
	for _, c := range t.Children(t.ChildByField(id, syntax.FieldBody)) {
		switch t.Kind(c) {
		case syntax.FieldInit:
			f := t.ChildByField(c, syntax.FieldField)
			b.record(f, b.fieldOf(owner, t.Text(f), 0))
			b.expr(t.ChildByField(c, syntax.FieldValue), sc)
		case syntax.ShorthandFieldInit:
			tok := t.ChildOfKind(c, syntax.Ident)
			if tok == syntax.None {
				continue
			}
			b.record(tok, b.fieldOf(owner, t.Text(tok), 0))
			b.record(tok, sc.lookup(t.Text(tok), nsValue))
		default:
			b.expr(c, sc)
		}
	}
}

func (b *binder) macroCall(id syntax.NodeID, sc *scope) {
	t := b.t
	path := t.ChildByField(id, syntax.FieldMacro)
	if t.Kind(path) == syntax.Path {
		b.resolvePath(path, sc, nsMacro)
	} else {
		b.resolveName(path, sc, nsMacro)
	}
	name := t.Text(lastSegment(t, path))
	b.macroArgs(t.ChildOfKind(id, syntax.TokenTree), sc, formatMacros[name])
}

// macroArgs binds identifiers inside a macro argument list by name. Only
// names that resolve to values are recorded; everything else is opaque
// tokens. For format-like macros the placeholders of the first string
// literal are bound as well.
func (b *binder) macroArgs(tt syntax.NodeID, sc *scope, format bool) {
	t := b.t
	toks := t.Children(tt)
	kindAt := func(i int) syntax.Kind {
		if i < 0 || i >= len(toks) {
			return syntax.KindInvalid
		}
		return t.Kind(toks[i])
	}
	firstString := true
	for i, c := range toks {
		switch t.Kind(c) {
		case syntax.TokenTree:
			b.macroArgs(c, sc, false)
		case syntax.String:
			if format && firstString {
				b.formatRefs(c, sc)
			}
			firstString = false
		case syntax.SelfKw:
			b.record(c, sc.lookup("self", nsValue))
		case syntax.Ident:
			switch kindAt(i - 1) {
			case syntax.Dot, syntax.ColonColon:
				continue
			}
			switch kindAt(i + 1) {
			case syntax.Bang, syntax.ColonColon, syntax.Eq:
				continue
			}
			if defs := sc.lookup(t.Text(c), nsValue); len(defs) > 0 {
				b.record(c, defs)
			}
		}
	}
}

func (b *binder) formatRefs(str syntax.NodeID, sc *scope) {
	t := b.t
	for _, ph := range placeholders(t.Text(str), t.Range(str).Start) {
		if !ph.named() {
			continue
		}
		if defs := sc.lookup(ph.name, nsValue); len(defs) > 0 {
			b.recordRange(str, ph.arg, defs)
		}
	}
}
