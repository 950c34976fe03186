// # internal/engine/resolver/snapshot.go
package resolver

import (
	"sort"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

// Snapshot is an immutable view of a Database. It implements
// semantics.Semantics and is safe for concurrent use.
type Snapshot struct {
	files []*fileIndex
}

var _ semantics.Semantics = (*Snapshot)(nil)

func (s *Snapshot) file(id semantics.FileID) *fileIndex {
	if int(id) >= len(s.files) {
		return nil
	}
	return s.files[id]
}

func (s *Snapshot) defInfo(def semantics.Definition) (*fileIndex, *defInfo) {
	f := s.file(def.File)
	if f == nil {
		return nil, nil
	}
	d := f.def(def.ID)
	if d == nil || d.kind != def.Kind {
		return nil, nil
	}
	return f, d
}

func toDefinition(f *fileIndex, id uint32) semantics.Definition {
	return semantics.Definition{Kind: f.defs[id].kind, File: f.id, ID: id}
}

func (s *Snapshot) Parse(file semantics.FileID) *syntax.Tree {
	if f := s.file(file); f != nil {
		return f.tree
	}
	return nil
}

// DescendIntoMacros is the identity: macro arguments are bound in place.
func (s *Snapshot) DescendIntoMacros(_ semantics.FileID, token syntax.NodeID) []syntax.NodeID {
	return []syntax.NodeID{token}
}

func (s *Snapshot) ClassifyToken(file semantics.FileID, token syntax.NodeID) []semantics.Definition {
	f := s.file(file)
	if f == nil {
		return nil
	}
	ids := f.classes[token]
	out := make([]semantics.Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, toDefinition(f, id))
	}
	return out
}

func (s *Snapshot) FormatArgsTemplate(file semantics.FileID, token syntax.NodeID, offset int) (syntax.TextRange, *semantics.Definition, bool) {
	f := s.file(file)
	if f == nil {
		return syntax.TextRange{}, nil, false
	}
	t := f.tree
	if t.Kind(token) != syntax.String || !isFormatString(t, token) {
		return syntax.TextRange{}, nil, false
	}
	for _, ph := range placeholders(t.Text(token), t.Range(token).Start) {
		if !ph.full.ContainsInclusive(offset) || offset == ph.full.Start {
			continue
		}
		if !ph.named() {
			r := ph.arg
			if r.IsEmpty() {
				r = ph.full
			}
			return r, nil, true
		}
		if ids := f.formats[ph.arg]; len(ids) > 0 {
			def := toDefinition(f, ids[0])
			return ph.arg, &def, true
		}
		return ph.arg, nil, true
	}
	return syntax.TextRange{}, nil, false
}

// isFormatString reports the first string literal directly inside the
// arguments of a format-like macro.
func isFormatString(t *syntax.Tree, tok syntax.NodeID) bool {
	tt := t.Parent(tok)
	call := t.Parent(tt)
	if t.Kind(tt) != syntax.TokenTree || t.Kind(call) != syntax.MacroCall {
		return false
	}
	if !formatMacros[t.Text(lastSegment(t, t.ChildByField(call, syntax.FieldMacro)))] {
		return false
	}
	for _, c := range t.Children(tt) {
		if t.Kind(c) == syntax.String {
			return c == tok
		}
	}
	return false
}

// Usages returns the recorded references of def inside scope. A trait item
// is also used by the impl items that implement it and by their
// references.
func (s *Snapshot) Usages(def semantics.Definition, scope semantics.SearchScope) map[semantics.FileID][]semantics.FileReference {
	f, d := s.defInfo(def)
	if d == nil {
		return nil
	}
	var refs []semantics.FileReference
	add := func(r syntax.TextRange, c semantics.UsageCategory) {
		if scope.Contains(f.id, r) {
			refs = append(refs, semantics.FileReference{Range: r, Category: c})
		}
	}
	for _, u := range f.usages[def.ID] {
		add(u.rng, u.category)
	}
	for _, impl := range d.implItems {
		if tok := f.defs[impl].nameTok; tok != syntax.None {
			add(f.tree.Range(tok), semantics.CategoryNone)
		}
		for _, u := range f.usages[impl] {
			add(u.rng, u.category)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Range.Start != refs[j].Range.Start {
			return refs[i].Range.Start < refs[j].Range.Start
		}
		return refs[i].Category < refs[j].Category
	})
	return map[semantics.FileID][]semantics.FileReference{f.id: refs}
}

// IsNever reports calls of functions returning `!` and invocations of
// diverging macros.
func (s *Snapshot) IsNever(file semantics.FileID, expr syntax.NodeID) bool {
	f := s.file(file)
	if f == nil {
		return false
	}
	t := f.tree
	var name syntax.NodeID
	switch t.Kind(expr) {
	case syntax.CallExpr:
		name = lastSegment(t, t.ChildByField(expr, syntax.FieldFunction))
	case syntax.MacroCall:
		name = lastSegment(t, t.ChildByField(expr, syntax.FieldMacro))
		ids := f.classes[name]
		if len(ids) == 0 {
			return neverMacros[t.Text(name)]
		}
	default:
		return false
	}
	for _, id := range f.classes[name] {
		if f.defs[id].never {
			return true
		}
	}
	return false
}

func (s *Snapshot) IsMutable(def semantics.Definition) bool {
	_, d := s.defInfo(def)
	return d != nil && d.kind == semantics.DefLocal && d.mutable
}

func (s *Snapshot) DeclarationSites(def semantics.Definition) []semantics.NavigationTarget {
	f, d := s.defInfo(def)
	if d == nil {
		return nil
	}
	t := f.tree
	full := t.Range(d.node)
	if d.kind == semantics.DefLocal {
		out := make([]semantics.NavigationTarget, 0, len(d.sites))
		for _, site := range d.sites {
			r := t.Range(site)
			out = append(out, semantics.NavigationTarget{File: f.id, FullRange: full, FocusRange: &r})
		}
		return out
	}
	nav := semantics.NavigationTarget{File: f.id, FullRange: full}
	if d.nameTok != syntax.None {
		r := t.Range(d.nameTok)
		nav.FocusRange = &r
	}
	return []semantics.NavigationTarget{nav}
}

func (s *Snapshot) ClosureCaptures(file semantics.FileID, closure syntax.NodeID) ([]semantics.Definition, bool) {
	f := s.file(file)
	if f == nil || f.tree.Kind(closure) != syntax.ClosureExpr {
		return nil, false
	}
	ids := f.captures[closure]
	out := make([]semantics.Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, toDefinition(f, id))
	}
	return out, true
}

func (s *Snapshot) TraitItemsWithSupertraits(trait semantics.Definition) []semantics.Definition {
	f, d := s.defInfo(trait)
	if d == nil || d.kind != semantics.DefTrait {
		return nil
	}
	seen := map[uint32]bool{}
	queue := []uint32{trait.ID}
	var out []semantics.Definition
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, item := range f.defs[cur].order {
			out = append(out, toDefinition(f, item))
		}
		queue = append(queue, f.defs[cur].supertraits...)
	}
	return out
}
