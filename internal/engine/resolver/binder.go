// # internal/engine/resolver/binder.go
package resolver

import (
	"strconv"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// binder builds a fileIndex in four passes:
//
//  1. collect declares every item, field, variant and module;
//  2. imports binds `use` trees into their modules;
//  3. signatures resolves impl headers, bounds and declared types;
//  4. bodies walks expressions with lexical scopes, binding locals and
//     recording every reference.
type binder struct {
	*fileIndex
	t *syntax.Tree

	itemScopes  map[syntax.NodeID]*scope
	typeParams  map[syntax.NodeID]map[string][]uint32
	constParams map[syntax.NodeID]map[string][]uint32
	paramTypes  map[syntax.NodeID]tyKey
	seenUsage   map[uint32]map[usage]bool
	closures    []syntax.NodeID
}

func bind(id semantics.FileID, path string, tree *syntax.Tree) *fileIndex {
	b := &binder{
		fileIndex: &fileIndex{
			id:       id,
			path:     path,
			tree:     tree,
			classes:  map[syntax.NodeID][]uint32{},
			usages:   map[uint32][]usage{},
			captures: map[syntax.NodeID][]uint32{},
			modules:  map[syntax.NodeID]*module{},
			impls:    map[syntax.NodeID]*implInfo{},
			byKey:    map[tyKey][]*implInfo{},
			items:    map[syntax.NodeID]uint32{},
			formats:  map[syntax.TextRange][]uint32{},
		},
		t:           tree,
		itemScopes:  map[syntax.NodeID]*scope{},
		typeParams:  map[syntax.NodeID]map[string][]uint32{},
		constParams: map[syntax.NodeID]map[string][]uint32{},
		paramTypes:  map[syntax.NodeID]tyKey{},
		seenUsage:   map[uint32]map[usage]bool{},
	}
	b.collect()
	// A second round picks up imports that go through other imports.
	b.imports()
	b.imports()
	b.signatures()
	b.bodies()
	return b.fileIndex
}

func (b *binder) newDef(kind semantics.DefKind, name string, nameTok, node syntax.NodeID) uint32 {
	id := uint32(len(b.defs))
	b.defs = append(b.defs, &defInfo{
		kind:      kind,
		name:      name,
		nameTok:   nameTok,
		node:      node,
		owner:     noOwner,
		traitItem: noOwner,
	})
	return id
}

func (b *binder) addMember(owner, member uint32) {
	d := b.defs[owner]
	if d.members == nil {
		d.members = map[string][]uint32{}
	}
	name := b.defs[member].name
	d.members[name] = append(d.members[name], member)
	d.order = append(d.order, member)
	b.defs[member].owner = int32(owner)
}

// declare marks tok as the name of def.
func (b *binder) declare(tok syntax.NodeID, def uint32) {
	if tok == syntax.None {
		return
	}
	for _, existing := range b.classes[tok] {
		if existing == def {
			return
		}
	}
	b.classes[tok] = append(b.classes[tok], def)
}

// record registers tok as a reference to every def in defs.
func (b *binder) record(tok syntax.NodeID, defs []uint32) {
	if tok == syntax.None {
		return
	}
	for _, def := range defs {
		b.declare(tok, def)
		b.addUsage(tok, b.t.Range(tok), def)
	}
}

// recordRange registers a reference that covers only part of tok, such as
// a named placeholder inside a format string. The token itself is not
// classified.
func (b *binder) recordRange(tok syntax.NodeID, r syntax.TextRange, defs []uint32) {
	for _, def := range defs {
		b.addUsage(tok, r, def)
	}
	if len(defs) > 0 {
		b.formats[r] = defs
	}
}

func (b *binder) addUsage(tok syntax.NodeID, r syntax.TextRange, def uint32) {
	u := usage{rng: r, category: b.category(def, tok)}
	seen := b.seenUsage[def]
	if seen == nil {
		seen = map[usage]bool{}
		b.seenUsage[def] = seen
	}
	if !seen[u] {
		seen[u] = true
		b.usages[def] = append(b.usages[def], u)
	}
	b.noteCapture(def)
}

// noteCapture adds a local to every enclosing closure that does not
// declare it.
func (b *binder) noteCapture(def uint32) {
	d := b.defs[def]
	if d.kind != semantics.DefLocal || len(d.sites) == 0 {
		return
	}
	declared := b.t.Range(d.sites[0])
	for _, closure := range b.closures {
		if b.t.Range(closure).ContainsRange(declared) {
			continue
		}
		known := false
		for _, c := range b.captures[closure] {
			if c == def {
				known = true
				break
			}
		}
		if !known {
			b.captures[closure] = append(b.captures[closure], def)
		}
	}
}

// category classifies one reference. Locals and fields are reads unless
// the reference ends the left side of an assignment; other definitions
// are imports inside `use` and uncategorized elsewhere.
func (b *binder) category(def uint32, tok syntax.NodeID) semantics.UsageCategory {
	t := b.t
	switch b.defs[def].kind {
	case semantics.DefLocal, semantics.DefField:
		for anc := range t.ParentAncestors(tok) {
			switch t.Kind(anc) {
			case syntax.BinExpr:
				return semantics.CategoryRead
			case syntax.AssignExpr:
				lhs := t.ChildByField(anc, syntax.FieldLeft)
				if lhs != syntax.None && t.Range(lhs).End == t.Range(tok).End {
					return semantics.CategoryWrite
				}
				return semantics.CategoryRead
			}
		}
		return semantics.CategoryRead
	}
	for anc := range t.ParentAncestors(tok) {
		if t.Kind(anc) == syntax.UseItem {
			return semantics.CategoryImport
		}
	}
	return semantics.CategoryNone
}

// containerOf returns the module or block that directly holds id.
func (b *binder) containerOf(id syntax.NodeID) *module {
	for anc := range b.t.ParentAncestors(id) {
		if m, ok := b.modules[anc]; ok {
			return m
		}
	}
	return b.root
}

// ownerOf returns the trait or impl an associated item belongs to.
func (b *binder) ownerOf(item syntax.NodeID) syntax.NodeID {
	t := b.t
	list := t.Parent(item)
	if t.Kind(list) != syntax.ItemList {
		return syntax.None
	}
	switch owner := t.Parent(list); t.Kind(owner) {
	case syntax.TraitItem, syntax.ImplItem:
		return owner
	}
	return syntax.None
}

func (b *binder) collect() {
	t := b.t
	root := t.Root()
	b.root = newModule(root, nil, true)
	b.modules[root] = b.root
	rootDef := b.newDef(semantics.DefModule, "crate", syntax.None, root)
	b.defs[rootDef].module = b.root
	b.root.def = int32(rootDef)

	t.Walk(root, func(id syntax.NodeID) bool {
		if t.IsToken(id) {
			return false
		}
		kind := t.Kind(id)
		switch {
		case kind == syntax.BlockExpr:
			b.modules[id] = newModule(id, b.containerOf(id), false)
		case kind.IsItem():
			b.declareItem(id)
		}
		return true
	}, nil)
}

func (b *binder) declareItem(id syntax.NodeID) {
	t := b.t
	kind := t.Kind(id)
	if kind == syntax.ImplItem {
		b.impls[id] = &implInfo{node: id, trait: noOwner, items: map[string][]uint32{}}
		return
	}
	nameTok := t.ChildByField(id, syntax.FieldName)
	if nameTok == syntax.None {
		return
	}
	owner := b.ownerOf(id)

	var dk semantics.DefKind
	ns := nsType
	switch kind {
	case syntax.FnItem:
		dk, ns = semantics.DefFunction, nsValue
		if owner != syntax.None {
			dk = semantics.DefAssocFunction
		}
	case syntax.StructItem:
		dk = semantics.DefStruct
	case syntax.UnionItem:
		dk = semantics.DefUnion
	case syntax.EnumItem:
		dk = semantics.DefEnum
	case syntax.TraitItem:
		dk = semantics.DefTrait
	case syntax.ModItem:
		dk = semantics.DefModule
	case syntax.ConstItem:
		dk, ns = semantics.DefConst, nsValue
		if owner != syntax.None {
			dk = semantics.DefAssocConst
		}
	case syntax.StaticItem:
		dk, ns = semantics.DefStatic, nsValue
	case syntax.TypeAliasItem:
		dk = semantics.DefTypeAlias
		if owner != syntax.None {
			dk = semantics.DefAssocType
		}
	case syntax.MacroRulesItem:
		dk, ns = semantics.DefMacro, nsMacro
	default:
		return
	}

	did := b.newDef(dk, t.Text(nameTok), nameTok, id)
	b.items[id] = did
	b.declare(nameTok, did)
	d := b.defs[did]

	container := b.containerOf(id)
	switch {
	case owner != syntax.None && t.Kind(owner) == syntax.TraitItem:
		if trait, ok := b.items[owner]; ok {
			b.addMember(trait, did)
		}
	case owner != syntax.None:
		impl := b.impls[owner]
		impl.items[d.name] = append(impl.items[d.name], did)
	default:
		container.add(ns, d.name, did)
		d.owner = container.def
	}

	switch kind {
	case syntax.ModItem:
		m := newModule(id, container, true)
		m.def = int32(did)
		d.module = m
		b.modules[id] = m
	case syntax.StructItem, syntax.UnionItem:
		if b.declareFields(did, t.ChildByField(id, syntax.FieldBody)) && kind == syntax.StructItem {
			d.valueLike = true
			container.add(nsValue, d.name, did)
		}
	case syntax.EnumItem:
		for _, v := range t.Children(t.ChildByField(id, syntax.FieldBody)) {
			if t.Kind(v) != syntax.Variant {
				continue
			}
			vn := t.ChildByField(v, syntax.FieldName)
			if vn == syntax.None {
				continue
			}
			vid := b.newDef(semantics.DefVariant, t.Text(vn), vn, v)
			b.declare(vn, vid)
			b.items[v] = vid
			b.addMember(did, vid)
			b.defs[vid].valueLike = b.declareFields(vid, t.ChildByField(v, syntax.FieldBody))
		}
	}
}

// declareFields declares the fields of a struct, union or variant body and
// reports whether the owner is also a value: a unit or tuple shape.
func (b *binder) declareFields(owner uint32, list syntax.NodeID) bool {
	t := b.t
	if list == syntax.None {
		return true
	}
	tuple := t.ChildOfKind(list, syntax.LParen) != syntax.None
	idx := 0
	for _, c := range t.Children(list) {
		switch {
		case t.Kind(c) == syntax.FieldDecl:
			nt := t.ChildByField(c, syntax.FieldName)
			if nt == syntax.None {
				continue
			}
			fid := b.newDef(semantics.DefField, t.Text(nt), nt, c)
			b.declare(nt, fid)
			b.items[c] = fid
			b.addMember(owner, fid)
		case tuple && t.Field(c) == syntax.FieldType:
			fid := b.newDef(semantics.DefField, strconv.Itoa(idx), syntax.None, c)
			b.items[c] = fid
			b.addMember(owner, fid)
			idx++
		}
	}
	return tuple
}

// namespacesOf lists the namespaces a definition occupies.
func (b *binder) namespacesOf(id uint32) []namespace {
	d := b.defs[id]
	switch d.kind {
	case semantics.DefFunction, semantics.DefConst, semantics.DefStatic, semantics.DefLocal,
		semantics.DefAssocFunction, semantics.DefAssocConst:
		return []namespace{nsValue}
	case semantics.DefMacro:
		return []namespace{nsMacro}
	case semantics.DefVariant, semantics.DefStruct:
		if d.valueLike {
			return []namespace{nsType, nsValue}
		}
	}
	return []namespace{nsType}
}
