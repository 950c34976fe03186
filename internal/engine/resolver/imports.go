// # internal/engine/resolver/imports.go
package resolver

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// imports binds every `use` tree into the module or block holding it.
// Paths are relative to that module; `crate`, `self` and `super` anchor
// them explicitly. Paths into other crates stay unresolved.
func (b *binder) imports() {
	t := b.t
	for id := range t.Descendants(t.Root()) {
		if t.Kind(id) != syntax.UseItem {
			continue
		}
		m := b.containerOf(id)
		b.useTree(t.ChildByField(id, syntax.FieldArgument), nil, false, m)
	}
}

// useTree binds one use tree. prefix holds the definitions named by the
// enclosing `a::b::{...}` path; hasPrefix distinguishes an empty
// resolution from no prefix at all.
func (b *binder) useTree(id syntax.NodeID, prefix []uint32, hasPrefix bool, m *module) {
	t := b.t
	switch t.Kind(id) {
	case syntax.Ident, syntax.TypeIdent, syntax.Path:
		defs := b.usePath(id, prefix, hasPrefix, m)
		if name := lastSegment(t, id); t.Kind(name) == syntax.Ident || t.Kind(name) == syntax.TypeIdent {
			b.importAs(m, t.Text(name), defs)
		}
	case syntax.SelfKw:
		// `use a::{self}` re-imports the prefix under its own name.
		for _, d := range prefix {
			b.importAs(m, b.defs[d].name, []uint32{d})
		}
	case syntax.UseTree:
		if alias := t.ChildByField(id, syntax.FieldAlias); alias != syntax.None {
			defs := b.usePath(t.ChildByField(id, syntax.FieldPath), prefix, hasPrefix, m)
			b.importAs(m, t.Text(alias), defs)
			return
		}
		if list := t.ChildByField(id, syntax.FieldUseList); list != syntax.None {
			path := t.ChildByField(id, syntax.FieldPath)
			inner := prefix
			if path != syntax.None {
				inner = b.usePath(path, prefix, hasPrefix, m)
			} else if !hasPrefix {
				inner = []uint32{uint32(b.root.def)}
			}
			b.useTree(list, inner, true, m)
			return
		}
		if isGlob(t, id) {
			var targets []uint32
			for _, c := range t.Children(id) {
				if !t.IsToken(c) || t.Kind(c) == syntax.Ident || t.Kind(c).IsKeyword() {
					targets = b.usePath(c, prefix, hasPrefix, m)
					break
				}
			}
			if len(targets) == 0 && hasPrefix {
				targets = prefix
			}
			b.importGlob(m, targets)
			return
		}
		for _, c := range t.Children(id) {
			if t.IsToken(c) && t.Kind(c) != syntax.Ident && t.Kind(c) != syntax.TypeIdent && t.Kind(c) != syntax.SelfKw {
				continue
			}
			b.useTree(c, prefix, hasPrefix, m)
		}
	}
}

func isGlob(t *syntax.Tree, id syntax.NodeID) bool {
	for _, c := range t.Children(id) {
		if t.Kind(c) == syntax.Punct && t.Text(c) == "*" {
			return true
		}
	}
	return false
}

// usePath resolves a path inside a use tree and records each segment.
func (b *binder) usePath(id syntax.NodeID, prefix []uint32, hasPrefix bool, m *module) []uint32 {
	t := b.t
	switch t.Kind(id) {
	case syntax.Ident, syntax.TypeIdent:
		name := t.Text(id)
		var defs []uint32
		if hasPrefix {
			for _, p := range prefix {
				defs = append(defs, b.membersNamed(p, name)...)
			}
		} else {
			defs = b.moduleNamed(m, name)
		}
		b.record(id, defs)
		return defs
	case syntax.SelfKw:
		if hasPrefix {
			return prefix
		}
		if mod := nearestModule(m); mod != nil && mod.def != noOwner {
			return []uint32{uint32(mod.def)}
		}
	case syntax.SuperKw:
		base := nearestModule(m)
		if hasPrefix && len(prefix) > 0 && b.defs[prefix[0]].module != nil {
			base = b.defs[prefix[0]].module
		}
		if p := parentModule(base); p != nil && p.def != noOwner {
			return []uint32{uint32(p.def)}
		}
	case syntax.CrateKw:
		return []uint32{uint32(b.root.def)}
	case syntax.Path:
		qual := t.ChildByField(id, syntax.FieldPath)
		inner, innerSet := prefix, hasPrefix
		if qual != syntax.None {
			inner, innerSet = b.usePath(qual, prefix, hasPrefix, m), true
		} else if !hasPrefix {
			inner, innerSet = []uint32{uint32(b.root.def)}, true
		}
		return b.usePath(t.ChildByField(id, syntax.FieldName), inner, innerSet, m)
	}
	return nil
}

// moduleNamed looks an unqualified use segment up in m and its enclosing
// blocks.
func (b *binder) moduleNamed(m *module, name string) []uint32 {
	for cur := m; cur != nil; cur = cur.parent {
		var out []uint32
		for ns := namespace(0); ns < nsCount; ns++ {
			out = append(out, cur.names[ns][name]...)
		}
		if len(out) > 0 {
			return out
		}
		if cur.isModule {
			break
		}
	}
	return nil
}

// membersNamed returns every member called name of a module, enum or
// trait across all namespaces.
func (b *binder) membersNamed(owner uint32, name string) []uint32 {
	d := b.defs[owner]
	switch d.kind {
	case semantics.DefModule:
		var out []uint32
		for ns := namespace(0); ns < nsCount; ns++ {
			out = append(out, d.module.names[ns][name]...)
		}
		return out
	case semantics.DefEnum, semantics.DefTrait:
		return d.members[name]
	}
	return nil
}

func (b *binder) importAs(m *module, name string, defs []uint32) {
	for _, d := range defs {
		for _, ns := range b.namespacesOf(d) {
			m.add(ns, name, d)
		}
	}
}

func (b *binder) importGlob(m *module, targets []uint32) {
	for _, target := range targets {
		d := b.defs[target]
		switch d.kind {
		case semantics.DefModule:
			if d.module == m {
				continue
			}
			for ns := namespace(0); ns < nsCount; ns++ {
				for name, ids := range d.module.names[ns] {
					for _, id := range ids {
						m.add(ns, name, id)
					}
				}
			}
		case semantics.DefEnum:
			for _, v := range d.order {
				b.importAs(m, b.defs[v].name, []uint32{v})
			}
		}
	}
}

func nearestModule(m *module) *module {
	for cur := m; cur != nil; cur = cur.parent {
		if cur.isModule {
			return cur
		}
	}
	return nil
}
