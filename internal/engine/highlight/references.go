// # internal/engine/highlight/references.go
package highlight

import (
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// references highlights the declarations and in-file usages of whatever the
// token refers to. A positional format placeholder highlights just itself.
func (a *analysis) references(token syntax.NodeID, offset int) []HighlightedRange {
	t := a.tree
	var defs []semantics.Definition
	if r, def, ok := a.sema.FormatArgsTemplate(a.file, token, offset); ok {
		if def == nil {
			return []HighlightedRange{{Range: r, Category: semantics.CategoryNone}}
		}
		defs = []semantics.Definition{*def}
	} else {
		defs = a.findDefs(token)
	}

	set := rangeSet{}
	for _, def := range defs {
		if def.Kind == semantics.DefTrait {
			if scope := traitUseScope(t, token); scope != syntax.None {
				search := semantics.FileRangeScope(a.file, t.Range(scope))
				for _, item := range a.sema.TraitItemsWithSupertraits(def) {
					for _, ref := range a.sema.Usages(item, search)[a.file] {
						set.add(ref.Range, ref.Category)
					}
				}
			}
		}

		category := semantics.CategoryNone
		if def.Kind == semantics.DefLocal && a.sema.IsMutable(def) {
			category = semantics.CategoryWrite
		}
		for _, nav := range a.sema.DeclarationSites(def) {
			if nav.File == a.file && nav.FocusRange != nil {
				set.add(*nav.FocusRange, category)
			}
		}
	}

	for _, def := range defs {
		for _, ref := range a.sema.Usages(def, semantics.SingleFile(a.file))[a.file] {
			set.add(ref.Range, ref.Category)
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set.sorted()
}

// findDefs classifies the token and its macro-expanded counterparts,
// keeping first-seen order.
func (a *analysis) findDefs(token syntax.NodeID) []semantics.Definition {
	seen := map[semantics.Definition]bool{}
	var defs []semantics.Definition
	for _, tok := range a.sema.DescendIntoMacros(a.file, token) {
		for _, def := range a.sema.ClassifyToken(a.file, tok) {
			if !seen[def] {
				seen[def] = true
				defs = append(defs, def)
			}
		}
	}
	return defs
}

// traitUseScope returns the region in which usages of a trait's items count
// as uses of the trait itself: the enclosing module for an import, or the
// enclosing item for a generic bound.
func traitUseScope(t *syntax.Tree, token syntax.NodeID) syntax.NodeID {
	path := token
	for t.Kind(t.Parent(path)) == syntax.Path {
		path = t.Parent(path)
	}
	parent := t.Parent(path)

	switch t.Kind(parent) {
	case syntax.UseItem, syntax.UseTree:
		return t.NearestAncestor(parent, func(id syntax.NodeID) bool {
			k := t.Kind(id)
			return k == syntax.SourceFile || k == syntax.ModItem
		})
	case syntax.GenericType:
		parent = t.Parent(parent)
	}
	if t.Kind(parent) != syntax.TypeBoundList {
		return syntax.None
	}
	switch t.Kind(t.Parent(parent)) {
	case syntax.TypeParam, syntax.WherePred:
		return t.NearestAncestor(parent, func(id syntax.NodeID) bool {
			return t.Kind(id).IsItem()
		})
	}
	return syntax.None
}
