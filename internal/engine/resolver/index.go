// # internal/engine/resolver/index.go
package resolver

import (
	"strconv"
	"strings"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"
)

type namespace uint8

const (
	nsType namespace = iota
	nsValue
	nsMacro
	nsCount
)

// tyKey names a type for member lookup. Resolved types are keyed by their
// definition ("#12"); everything else by its textual head ("i32", "()").
type tyKey string

func defKey(id uint32) tyKey { return tyKey("#" + strconv.FormatUint(uint64(id), 10)) }

func (k tyKey) def() (uint32, bool) {
	if !strings.HasPrefix(string(k), "#") {
		return 0, false
	}
	n, err := strconv.ParseUint(string(k[1:]), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

const noOwner = -1

// defInfo is everything the index knows about one definition.
type defInfo struct {
	kind    semantics.DefKind
	name    string
	nameTok syntax.NodeID
	node    syntax.NodeID
	// sites lists every binding token of a local; or-patterns bind one
	// local at several places.
	sites   []syntax.NodeID
	mutable bool
	never   bool
	// ty is the value type of locals, fields and consts, the return type
	// of functions and the target of type aliases.
	ty tyKey
	// owner is the enum of a variant, the struct or variant of a field,
	// the trait of a trait item and the module of a module item.
	owner int32
	// members holds fields of structs and variants, variants of enums and
	// items of traits, keyed by name.
	members     map[string][]uint32
	order       []uint32
	supertraits []uint32
	bounds      []uint32
	// traitItem links an impl item to the trait item it implements;
	// implItems is the reverse edge.
	traitItem int32
	implItems []uint32
	module    *module
	// valueLike marks unit and tuple structs and variants, which also live
	// in the value namespace.
	valueLike bool
}

type usage struct {
	rng      syntax.TextRange
	category semantics.UsageCategory
}

// module holds the items declared directly in a source file, module or
// block. Items are visible throughout their container.
type module struct {
	node     syntax.NodeID
	def      int32
	parent   *module
	isModule bool
	names    [nsCount]map[string][]uint32
}

func newModule(node syntax.NodeID, parent *module, isModule bool) *module {
	m := &module{node: node, def: noOwner, parent: parent, isModule: isModule}
	for i := range m.names {
		m.names[i] = map[string][]uint32{}
	}
	return m
}

func (m *module) add(ns namespace, name string, id uint32) {
	for _, existing := range m.names[ns][name] {
		if existing == id {
			return
		}
	}
	m.names[ns][name] = append(m.names[ns][name], id)
}

func (m *module) get(name string, ns namespace) []uint32 {
	if ids := m.names[ns][name]; len(ids) > 0 {
		return ids
	}
	for other := namespace(0); other < nsCount; other++ {
		if other == ns || other == nsMacro {
			continue
		}
		if ids := m.names[other][name]; len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// implInfo is one impl block.
type implInfo struct {
	node    syntax.NodeID
	selfKey tyKey
	trait   int32
	items   map[string][]uint32
}

// scope is one level of lexical lookup. Locals, generic parameters and
// labels live in names and labels; hoisted items come from mod.
type scope struct {
	parent  *scope
	names   [nsCount]map[string][]uint32
	labels  map[string]uint32
	mod     *module
	impl    *implInfo
	selfKey tyKey
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent}
}

func (s *scope) bind(ns namespace, name string, id uint32) {
	if s.names[ns] == nil {
		s.names[ns] = map[string][]uint32{}
	}
	s.names[ns][name] = []uint32{id}
}

func (s *scope) lookup(name string, ns namespace) []uint32 {
	for cur := s; cur != nil; cur = cur.parent {
		if ids := cur.names[ns][name]; len(ids) > 0 {
			return ids
		}
		if cur.mod != nil {
			if ids := cur.mod.names[ns][name]; len(ids) > 0 {
				return ids
			}
		}
	}
	return nil
}

func (s *scope) label(name string) (uint32, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.labels[name]; ok {
			return id, true
		}
	}
	return 0, false
}

func (s *scope) self() tyKey {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.impl != nil && cur.impl.selfKey != "" {
			return cur.impl.selfKey
		}
		if cur.selfKey != "" {
			return cur.selfKey
		}
	}
	return ""
}

// module returns the nearest enclosing source file or `mod` item.
func (s *scope) module() *module {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.mod != nil && cur.mod.isModule {
			return cur.mod
		}
	}
	return nil
}

// fileIndex is the fully bound form of one file. It is immutable once
// built.
type fileIndex struct {
	id      semantics.FileID
	path    string
	tree    *syntax.Tree
	defs    []*defInfo
	classes map[syntax.NodeID][]uint32
	usages  map[uint32][]usage
	// captures lists, per closure, the outer locals it refers to in first
	// use order.
	captures map[syntax.NodeID][]uint32
	root     *module
	modules  map[syntax.NodeID]*module
	impls    map[syntax.NodeID]*implInfo
	byKey    map[tyKey][]*implInfo
	items    map[syntax.NodeID]uint32
	// formats maps a named format placeholder to what it names.
	formats map[syntax.TextRange][]uint32
}

func (f *fileIndex) def(id uint32) *defInfo {
	if int(id) >= len(f.defs) {
		return nil
	}
	return f.defs[id]
}
