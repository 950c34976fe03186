// # internal/engine/resolver/paths.go
package resolver

import (
	"strings"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// maxAliasDepth bounds alias chasing so that `type A = B; type B = A;`
// terminates.
const maxAliasDepth = 8

// itemScope returns the lookup scope of an item signature: the hoisted
// items of every enclosing block up to its module, the generics of its
// trait or impl and its own generics.
func (b *binder) itemScope(item syntax.NodeID) *scope {
	if sc, ok := b.itemScopes[item]; ok {
		return sc
	}
	var chain []*module
	for anc := range b.t.ParentAncestors(item) {
		m, ok := b.modules[anc]
		if !ok {
			continue
		}
		chain = append(chain, m)
		if m.isModule {
			break
		}
	}
	var sc *scope
	for i := len(chain) - 1; i >= 0; i-- {
		s := newScope(sc)
		s.mod = chain[i]
		sc = s
	}
	if owner := b.ownerOf(item); owner != syntax.None {
		sc = b.genericScope(owner, sc)
	}
	sc = b.genericScope(item, sc)
	b.itemScopes[item] = sc
	return sc
}

func (b *binder) genericScope(item syntax.NodeID, parent *scope) *scope {
	s := newScope(parent)
	s.names[nsType] = b.typeParams[item]
	s.names[nsValue] = b.constParams[item]
	switch b.t.Kind(item) {
	case syntax.ImplItem:
		s.impl = b.impls[item]
	case syntax.TraitItem, syntax.StructItem, syntax.EnumItem, syntax.UnionItem:
		if id, ok := b.items[item]; ok {
			s.selfKey = defKey(id)
		}
	}
	return s
}

// resolveName resolves a single identifier in ns and records it. Value
// lookups fall back to types so that unit structs and modules used as
// expressions still resolve.
func (b *binder) resolveName(tok syntax.NodeID, sc *scope, ns namespace) []uint32 {
	name := b.t.Text(tok)
	defs := sc.lookup(name, ns)
	if len(defs) == 0 && ns == nsValue {
		defs = sc.lookup(name, nsType)
	}
	b.record(tok, defs)
	return defs
}

// resolvePath resolves a path in ns, recording every segment, and returns
// the definitions of its last segment.
func (b *binder) resolvePath(id syntax.NodeID, sc *scope, ns namespace) []uint32 {
	t := b.t
	switch t.Kind(id) {
	case syntax.Ident, syntax.TypeIdent:
		return b.resolveName(id, sc, ns)
	case syntax.SelfKw:
		if ns == nsValue {
			if defs := sc.lookup("self", nsValue); len(defs) > 0 {
				b.record(id, defs)
				return defs
			}
		}
		if m := sc.module(); m != nil && m.def != noOwner {
			return []uint32{uint32(m.def)}
		}
	case syntax.SuperKw:
		if m := parentModule(sc.module()); m != nil && m.def != noOwner {
			return []uint32{uint32(m.def)}
		}
	case syntax.CrateKw:
		return []uint32{uint32(b.root.def)}
	case syntax.SelfTypeKw:
		if id, ok := sc.self().def(); ok {
			return []uint32{id}
		}
	case syntax.GenericType:
		for _, c := range t.Children(id) {
			if t.Kind(c) == syntax.TypeArgs {
				b.bindType(c, sc)
			}
		}
		return b.resolvePath(t.ChildByField(id, syntax.FieldType), sc, ns)
	case syntax.Path:
		qual := t.ChildByField(id, syntax.FieldPath)
		name := t.ChildByField(id, syntax.FieldName)
		if name == syntax.None {
			return nil
		}
		if t.Kind(name) == syntax.SuperKw {
			for _, q := range b.resolvePath(qual, sc, nsType) {
				if d := b.defs[q]; d.module != nil {
					if p := parentModule(d.module); p != nil && p.def != noOwner {
						return []uint32{uint32(p.def)}
					}
				}
			}
			return nil
		}
		var keys []tyKey
		if qual == syntax.None {
			keys = []tyKey{defKey(uint32(b.root.def))}
		} else {
			keys = b.pathKeys(qual, sc)
		}
		var defs []uint32
		for _, k := range keys {
			defs = append(defs, b.member(k, t.Text(name), ns, 0)...)
		}
		b.record(name, defs)
		return defs
	}
	return nil
}

// pathKeys resolves the qualifier of a path to the type keys members are
// looked up in.
func (b *binder) pathKeys(id syntax.NodeID, sc *scope) []tyKey {
	t := b.t
	switch t.Kind(id) {
	case syntax.SelfTypeKw:
		if k := sc.self(); k != "" {
			return []tyKey{k}
		}
		return nil
	case syntax.QualifiedType:
		return []tyKey{b.bindType(id, sc)}
	}
	defs := b.resolvePath(id, sc, nsType)
	if len(defs) == 0 {
		return []tyKey{textKey(t, id)}
	}
	keys := make([]tyKey, 0, len(defs))
	for _, d := range defs {
		keys = append(keys, defKey(d))
	}
	return keys
}

// textKey keys an unresolved type by its head: `i32`, `()`, `Vec`.
func textKey(t *syntax.Tree, id syntax.NodeID) tyKey {
	switch t.Kind(id) {
	case syntax.GenericType:
		return textKey(t, t.ChildByField(id, syntax.FieldType))
	case syntax.Path:
		return textKey(t, t.ChildByField(id, syntax.FieldName))
	case syntax.RefType, syntax.PointerType:
		return textKey(t, t.ChildByField(id, syntax.FieldType))
	}
	return tyKey(strings.Join(strings.Fields(t.Text(id)), ""))
}

func parentModule(m *module) *module {
	if m == nil {
		return nil
	}
	for p := m.parent; p != nil; p = p.parent {
		if p.isModule {
			return p
		}
	}
	return nil
}

// member looks name up inside the type or module keyed by key.
func (b *binder) member(key tyKey, name string, ns namespace, depth int) []uint32 {
	if depth > maxAliasDepth {
		return nil
	}
	if id, ok := key.def(); ok && int(id) < len(b.defs) {
		d := b.defs[id]
		switch d.kind {
		case semantics.DefModule:
			return d.module.get(name, ns)
		case semantics.DefEnum:
			if v := d.members[name]; len(v) > 0 {
				return v
			}
		case semantics.DefTrait:
			return b.traitItem(id, name)
		case semantics.DefTypeParam:
			var out []uint32
			for _, bound := range d.bounds {
				out = append(out, b.traitItem(bound, name)...)
			}
			return out
		case semantics.DefTypeAlias:
			if d.ty != "" {
				return b.member(d.ty, name, ns, depth+1)
			}
		}
	}
	return b.implMember(key, name)
}

// implMember prefers inherent impl items over trait impl items, and falls
// back to provided trait items.
func (b *binder) implMember(key tyKey, name string) []uint32 {
	var inherent, viaTrait []uint32
	for _, impl := range b.byKey[key] {
		ids := impl.items[name]
		if impl.trait == noOwner {
			inherent = append(inherent, ids...)
		} else {
			viaTrait = append(viaTrait, ids...)
		}
	}
	if len(inherent) > 0 {
		return inherent
	}
	if len(viaTrait) > 0 {
		return viaTrait
	}
	for _, impl := range b.byKey[key] {
		if impl.trait == noOwner {
			continue
		}
		if ids := b.traitItem(uint32(impl.trait), name); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// traitItem finds name among the items of trait and its supertraits.
func (b *binder) traitItem(trait uint32, name string) []uint32 {
	seen := map[uint32]bool{}
	queue := []uint32{trait}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] || int(cur) >= len(b.defs) {
			continue
		}
		seen[cur] = true
		d := b.defs[cur]
		if d.kind != semantics.DefTrait {
			continue
		}
		if ids := d.members[name]; len(ids) > 0 {
			return ids
		}
		queue = append(queue, d.supertraits...)
	}
	return nil
}

// method resolves a method call. Without a receiver type the name alone
// decides, as long as every candidate belongs to one trait item family.
func (b *binder) method(recv tyKey, name string) []uint32 {
	if recv != "" {
		var fns []uint32
		for _, id := range b.member(recv, name, nsValue, 0) {
			if b.defs[id].kind == semantics.DefAssocFunction {
				fns = append(fns, id)
			}
		}
		if len(fns) > 0 {
			return fns
		}
	}
	family := int64(-1)
	var only uint32
	count := 0
	for id, d := range b.defs {
		if d.kind != semantics.DefAssocFunction || d.name != name {
			continue
		}
		root := int64(id)
		if d.traitItem != noOwner {
			root = int64(d.traitItem)
		}
		if family >= 0 && family != root {
			return nil
		}
		family = root
		only = uint32(id)
		count++
	}
	switch {
	case count == 0:
		return nil
	case count == 1:
		return []uint32{only}
	}
	return []uint32{uint32(family)}
}

// fieldOf resolves a named or positional field on a value of type key.
func (b *binder) fieldOf(key tyKey, name string, depth int) []uint32 {
	id, ok := key.def()
	if !ok || int(id) >= len(b.defs) || depth > maxAliasDepth {
		return nil
	}
	d := b.defs[id]
	switch d.kind {
	case semantics.DefStruct, semantics.DefUnion, semantics.DefVariant:
		var out []uint32
		for _, m := range d.members[name] {
			if b.defs[m].kind == semantics.DefField {
				out = append(out, m)
			}
		}
		return out
	case semantics.DefTypeAlias:
		return b.fieldOf(d.ty, name, depth+1)
	}
	return nil
}

// bindType records every reference inside a type and returns its key.
func (b *binder) bindType(id syntax.NodeID, sc *scope) tyKey {
	t := b.t
	if id == syntax.None {
		return ""
	}
	switch t.Kind(id) {
	case syntax.TypeIdent:
		defs := b.resolveName(id, sc, nsType)
		if len(defs) > 0 {
			return defKey(defs[0])
		}
		return tyKey(t.Text(id))
	case syntax.Ident:
		defs := b.resolveName(id, sc, nsValue)
		if len(defs) > 0 {
			return defKey(defs[0])
		}
		return ""
	case syntax.SelfTypeKw:
		return sc.self()
	case syntax.Path, syntax.GenericType:
		defs := b.resolvePath(id, sc, nsType)
		if len(defs) > 0 {
			return defKey(defs[0])
		}
		return textKey(t, id)
	case syntax.RefType, syntax.PointerType:
		var inner tyKey
		for _, c := range t.Children(id) {
			if k := b.bindType(c, sc); t.Field(c) == syntax.FieldType {
				inner = k
			}
		}
		return inner
	case syntax.TupleType:
		empty := true
		for _, c := range t.Children(id) {
			if !t.IsToken(c) || t.Kind(c) == syntax.TypeIdent {
				empty = false
				b.bindType(c, sc)
			}
		}
		if empty {
			return "()"
		}
		return ""
	case syntax.NeverType:
		return "!"
	case syntax.QualifiedType:
		inner, trait := tyKey(""), tyKey("")
		for _, c := range t.Children(id) {
			if t.IsToken(c) && t.Kind(c) != syntax.TypeIdent && t.Kind(c) != syntax.SelfTypeKw {
				continue
			}
			k := b.bindType(c, sc)
			if t.Field(c) == syntax.FieldAlias {
				trait = k
			} else if inner == "" {
				inner = k
			}
		}
		if trait != "" {
			return trait
		}
		return inner
	case syntax.DynType, syntax.ImplTraitType, syntax.BoundedType, syntax.TypeBoundList:
		var first tyKey
		for _, c := range t.Children(id) {
			if k := b.bindType(c, sc); first == "" && k != "" {
				first = k
			}
		}
		return first
	case syntax.ArrayType, syntax.FnType, syntax.TypeArgs:
		for _, c := range t.Children(id) {
			if t.Kind(c).IsExpr() && !t.IsToken(c) {
				b.expr(c, sc)
				continue
			}
			b.bindType(c, sc)
		}
		return ""
	}
	if t.IsToken(id) {
		return ""
	}
	for _, c := range t.Children(id) {
		b.bindType(c, sc)
	}
	return ""
}

// infer computes the type key of an already bound expression from the
// recorded classifications. It never records anything.
func (b *binder) infer(id syntax.NodeID, sc *scope) tyKey {
	t := b.t
	switch t.Kind(id) {
	case syntax.ParenExpr:
		for _, c := range t.Children(id) {
			if !t.IsToken(c) || t.Kind(c).IsExpr() {
				return b.infer(c, sc)
			}
		}
	case syntax.RefExpr, syntax.UnaryExpr:
		ch := t.Children(id)
		if len(ch) > 0 {
			return b.infer(ch[len(ch)-1], sc)
		}
	case syntax.UnitExpr:
		return "()"
	case syntax.Ident, syntax.SelfKw:
		return b.valueType(b.classes[id])
	case syntax.Path:
		return b.valueType(b.classes[t.ChildByField(id, syntax.FieldName)])
	case syntax.StructExpr:
		name := t.ChildByField(id, syntax.FieldName)
		if t.Kind(name) == syntax.SelfTypeKw {
			return sc.self()
		}
		return b.typeOfDefs(b.classes[lastSegment(t, name)])
	case syntax.CallExpr:
		callee := b.classes[lastSegment(t, t.ChildByField(id, syntax.FieldFunction))]
		for _, c := range callee {
			d := b.defs[c]
			switch d.kind {
			case semantics.DefFunction, semantics.DefAssocFunction:
				return d.ty
			case semantics.DefStruct:
				return defKey(c)
			case semantics.DefVariant:
				if d.owner != noOwner {
					return defKey(uint32(d.owner))
				}
			}
		}
	case syntax.FieldExpr:
		return b.valueType(b.classes[t.ChildByField(id, syntax.FieldField)])
	case syntax.BlockExpr:
		return b.infer(t.TailExpr(id), sc)
	case syntax.IfExpr:
		then, _ := t.IfBranches(id)
		return b.infer(then, sc)
	}
	return ""
}

// valueType is the type of a value that names defs.
func (b *binder) valueType(defs []uint32) tyKey {
	for _, id := range defs {
		d := b.defs[id]
		switch d.kind {
		case semantics.DefLocal, semantics.DefField, semantics.DefConst, semantics.DefStatic, semantics.DefAssocConst:
			return d.ty
		case semantics.DefStruct:
			return defKey(id)
		case semantics.DefVariant:
			if d.owner != noOwner {
				return defKey(uint32(d.owner))
			}
		}
	}
	return ""
}

// typeOfDefs is the type named by defs in type position.
func (b *binder) typeOfDefs(defs []uint32) tyKey {
	for _, id := range defs {
		d := b.defs[id]
		switch d.kind {
		case semantics.DefStruct, semantics.DefUnion, semantics.DefEnum, semantics.DefTypeParam:
			return defKey(id)
		case semantics.DefVariant:
			if d.owner != noOwner {
				return defKey(uint32(d.owner))
			}
		case semantics.DefTypeAlias:
			return d.ty
		}
	}
	return ""
}

// lastSegment returns the token naming what a path or callee refers to.
func lastSegment(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	switch t.Kind(id) {
	case syntax.Path:
		return t.ChildByField(id, syntax.FieldName)
	case syntax.GenericType:
		return lastSegment(t, t.ChildByField(id, syntax.FieldType))
	case syntax.GenericFnExpr:
		return lastSegment(t, t.ChildByField(id, syntax.FieldFunction))
	case syntax.FieldExpr:
		return t.ChildByField(id, syntax.FieldField)
	case syntax.ParenExpr:
		for _, c := range t.Children(id) {
			if !t.IsToken(c) || t.Kind(c).IsExpr() {
				return lastSegment(t, c)
			}
		}
		return syntax.None
	}
	return id
}
