// # internal/engine/resolver/signatures.go
package resolver

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// signatures binds everything outside bodies. Generic parameters come
// first, then impl and trait headers so that `Self` and supertraits are
// known, then the remaining declared types.
func (b *binder) signatures() {
	t := b.t
	var items []syntax.NodeID
	for id := range t.Descendants(t.Root()) {
		if t.Kind(id).IsItem() {
			items = append(items, id)
		}
	}

	for _, item := range items {
		b.declareGenerics(item)
	}
	for _, item := range items {
		switch t.Kind(item) {
		case syntax.ImplItem:
			b.implHeader(item)
		case syntax.TraitItem:
			b.traitHeader(item)
		}
	}
	for _, item := range items {
		b.bounds(item)
		b.declaredTypes(item)
	}
	for _, item := range items {
		if t.Kind(item) == syntax.MacroRulesItem {
			b.macroNever(item)
		}
	}
}

func (b *binder) declareGenerics(item syntax.NodeID) {
	t := b.t
	params := t.ChildByField(item, syntax.FieldTypeParameters)
	if params == syntax.None {
		params = t.ChildOfKind(item, syntax.TypeParams)
	}
	for _, p := range t.Children(params) {
		switch t.Kind(p) {
		case syntax.TypeParam:
			name := typeParamName(t, p)
			if name == syntax.None {
				continue
			}
			id := b.newDef(semantics.DefTypeParam, t.Text(name), name, p)
			b.declare(name, id)
			b.items[p] = id
			if b.typeParams[item] == nil {
				b.typeParams[item] = map[string][]uint32{}
			}
			b.typeParams[item][t.Text(name)] = []uint32{id}
		case syntax.ConstParam:
			name := t.ChildByField(p, syntax.FieldName)
			if name == syntax.None {
				continue
			}
			id := b.newDef(semantics.DefConst, t.Text(name), name, p)
			b.declare(name, id)
			if b.constParams[item] == nil {
				b.constParams[item] = map[string][]uint32{}
			}
			b.constParams[item][t.Text(name)] = []uint32{id}
		}
	}
}

// typeParamName handles both `T: Bound` shapes the grammar produces.
func typeParamName(t *syntax.Tree, p syntax.NodeID) syntax.NodeID {
	if n := t.ChildByField(p, syntax.FieldName); n != syntax.None {
		if t.Kind(n) == syntax.TypeParam {
			return typeParamName(t, n)
		}
		return n
	}
	if n := t.ChildByField(p, syntax.FieldLeft); n != syntax.None {
		return n
	}
	return t.ChildOfKind(p, syntax.TypeIdent)
}

func (b *binder) implHeader(item syntax.NodeID) {
	t := b.t
	impl := b.impls[item]
	sc := b.itemScope(item)
	if trait := t.ChildByField(item, syntax.FieldTrait); trait != syntax.None {
		if id, ok := b.bindType(trait, sc).def(); ok && b.defs[id].kind == semantics.DefTrait {
			impl.trait = int32(id)
		}
	}
	impl.selfKey = b.bindType(t.ChildByField(item, syntax.FieldType), sc)
	if impl.selfKey != "" {
		b.byKey[impl.selfKey] = append(b.byKey[impl.selfKey], impl)
	}
	if impl.trait == noOwner {
		return
	}
	trait := b.defs[impl.trait]
	for name, ids := range impl.items {
		targets := trait.members[name]
		if len(targets) == 0 {
			continue
		}
		for _, id := range ids {
			b.defs[id].traitItem = int32(targets[0])
			b.defs[targets[0]].implItems = append(b.defs[targets[0]].implItems, id)
		}
	}
}

func (b *binder) traitHeader(item syntax.NodeID) {
	t := b.t
	id, ok := b.items[item]
	if !ok {
		return
	}
	sc := b.itemScope(item)
	for _, c := range t.Children(t.ChildByField(item, syntax.FieldBounds)) {
		if sup, ok := b.bindType(c, sc).def(); ok && b.defs[sup].kind == semantics.DefTrait {
			b.defs[id].supertraits = append(b.defs[id].supertraits, sup)
		}
	}
}

// bounds attaches trait bounds to generic parameters, from the parameter
// list and from the where clause.
func (b *binder) bounds(item syntax.NodeID) {
	t := b.t
	sc := b.itemScope(item)
	params := t.ChildByField(item, syntax.FieldTypeParameters)
	if params == syntax.None {
		params = t.ChildOfKind(item, syntax.TypeParams)
	}
	for _, p := range t.Children(params) {
		switch t.Kind(p) {
		case syntax.TypeParam:
			b.paramBounds(p, sc)
		case syntax.ConstParam:
			b.bindType(t.ChildByField(p, syntax.FieldType), sc)
		}
	}
	for _, pred := range t.Children(t.ChildOfKind(item, syntax.WhereClause)) {
		if t.Kind(pred) != syntax.WherePred {
			continue
		}
		target, ok := b.bindType(t.ChildByField(pred, syntax.FieldLeft), sc).def()
		isParam := ok && b.defs[target].kind == semantics.DefTypeParam
		for _, c := range t.Children(t.ChildByField(pred, syntax.FieldBounds)) {
			bound, ok := b.bindType(c, sc).def()
			if isParam && ok && b.defs[bound].kind == semantics.DefTrait {
				b.defs[target].bounds = append(b.defs[target].bounds, bound)
			}
		}
	}
}

func (b *binder) paramBounds(p syntax.NodeID, sc *scope) {
	t := b.t
	if inner := t.ChildByField(p, syntax.FieldName); t.Kind(inner) == syntax.TypeParam {
		b.paramBounds(inner, sc)
	}
	id, ok := b.items[p]
	if !ok {
		if inner := t.ChildByField(p, syntax.FieldName); inner != syntax.None {
			id, ok = b.items[inner]
		}
	}
	for _, c := range t.Children(t.ChildByField(p, syntax.FieldBounds)) {
		bound, isDef := b.bindType(c, sc).def()
		if ok && isDef && b.defs[bound].kind == semantics.DefTrait {
			b.defs[id].bounds = append(b.defs[id].bounds, bound)
		}
	}
	b.bindType(t.ChildByField(p, syntax.FieldDefault), sc)
}

// declaredTypes binds field, parameter, return, const and alias types.
func (b *binder) declaredTypes(item syntax.NodeID) {
	t := b.t
	sc := b.itemScope(item)
	switch t.Kind(item) {
	case syntax.FnItem:
		for _, p := range t.Children(t.ChildByField(item, syntax.FieldParameters)) {
			switch t.Kind(p) {
			case syntax.Param:
				b.paramTypes[p] = b.bindType(t.ChildByField(p, syntax.FieldType), sc)
			case syntax.SelfParam:
				for _, c := range t.Children(p) {
					if t.Field(c) == syntax.FieldType {
						b.bindType(c, sc)
					}
				}
				b.paramTypes[p] = sc.self()
			}
		}
		ret := t.ChildByField(item, syntax.FieldReturnType)
		if id, ok := b.items[item]; ok {
			b.defs[id].ty = b.bindType(ret, sc)
			b.defs[id].never = t.Kind(ret) == syntax.NeverType
		} else {
			b.bindType(ret, sc)
		}
	case syntax.StructItem, syntax.UnionItem:
		b.fieldTypes(t.ChildByField(item, syntax.FieldBody), sc)
	case syntax.EnumItem:
		for _, v := range t.Children(t.ChildByField(item, syntax.FieldBody)) {
			if t.Kind(v) == syntax.Variant {
				b.fieldTypes(t.ChildByField(v, syntax.FieldBody), sc)
			}
		}
	case syntax.ConstItem, syntax.StaticItem, syntax.TypeAliasItem:
		k := b.bindType(t.ChildByField(item, syntax.FieldType), sc)
		if id, ok := b.items[item]; ok {
			b.defs[id].ty = k
		}
		b.bindType(t.ChildByField(item, syntax.FieldBounds), sc)
	}
}

func (b *binder) fieldTypes(list syntax.NodeID, sc *scope) {
	t := b.t
	for _, c := range t.Children(list) {
		ty := c
		if t.Kind(c) == syntax.FieldDecl {
			ty = t.ChildByField(c, syntax.FieldType)
		} else if t.Field(c) != syntax.FieldType {
			continue
		}
		k := b.bindType(ty, sc)
		if id, ok := b.items[c]; ok {
			b.defs[id].ty = k
		}
	}
}

// macroNever marks a macro_rules definition as diverging when its first
// rule expands to a call of a diverging function or macro.
func (b *binder) macroNever(item syntax.NodeID) {
	t := b.t
	id, ok := b.items[item]
	if !ok {
		return
	}
	rule := t.ChildOfKind(item, syntax.MacroRule)
	rhs := t.ChildByField(rule, syntax.FieldRight)
	if rhs == syntax.None {
		return
	}
	var toks []syntax.NodeID
	for _, c := range t.Children(rhs) {
		switch t.Kind(c) {
		case syntax.LParen, syntax.RParen, syntax.LBrace, syntax.RBrace, syntax.LBrack, syntax.RBrack, syntax.Comment:
			if len(toks) == 0 {
				continue
			}
		}
		toks = append(toks, c)
		if len(toks) == 2 {
			break
		}
	}
	if len(toks) < 2 || t.Kind(toks[0]) != syntax.Ident {
		return
	}
	name := t.Text(toks[0])
	sc := b.itemScope(item)
	switch {
	case t.Kind(toks[1]) == syntax.TokenTree:
		for _, fn := range sc.lookup(name, nsValue) {
			if b.defs[fn].never {
				b.defs[id].never = true
			}
		}
	case t.Kind(toks[1]) == syntax.Bang:
		if neverMacros[name] {
			b.defs[id].never = true
		}
		for _, m := range sc.lookup(name, nsMacro) {
			if m != id && b.defs[m].never {
				b.defs[id].never = true
			}
		}
	}
}

// neverMacros are the standard macros that always diverge.
var neverMacros = map[string]bool{
	"panic":         true,
	"unreachable":   true,
	"todo":          true,
	"unimplemented": true,
}
