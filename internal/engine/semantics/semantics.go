// Package semantics defines the query surface the highlighter needs from a
// name-resolution backend, plus the value types that cross it.
package semantics

import (
	"fmt"

	"relight/internal/engine/syntax"
)

// FileID identifies a file inside one Semantics snapshot.
type FileID uint32

type FilePosition struct {
	File   FileID
	Offset int
}

type FileRange struct {
	File  FileID
	Range syntax.TextRange
}

// DefKind classifies a Definition.
type DefKind uint8

const (
	DefLocal DefKind = iota + 1
	DefModule
	DefTrait
	DefFunction
	DefAssocFunction
	DefAssocConst
	DefAssocType
	DefStruct
	DefEnum
	DefVariant
	DefUnion
	DefField
	DefConst
	DefStatic
	DefTypeAlias
	DefTypeParam
	DefMacro
	DefLabel
)

var defKindNames = map[DefKind]string{
	DefLocal:         "local",
	DefModule:        "module",
	DefTrait:         "trait",
	DefFunction:      "function",
	DefAssocFunction: "assoc_function",
	DefAssocConst:    "assoc_const",
	DefAssocType:     "assoc_type",
	DefStruct:        "struct",
	DefEnum:          "enum",
	DefVariant:       "variant",
	DefUnion:         "union",
	DefField:         "field",
	DefConst:         "const",
	DefStatic:        "static",
	DefTypeAlias:     "type_alias",
	DefTypeParam:     "type_param",
	DefMacro:         "macro",
	DefLabel:         "label",
}

func (k DefKind) String() string {
	if s, ok := defKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DefKind(%d)", uint8(k))
}

// Definition is an opaque, comparable handle to a named entity. Only the
// backend that produced it can interpret ID.
type Definition struct {
	Kind DefKind
	File FileID
	ID   uint32
}

func (d Definition) String() string {
	return fmt.Sprintf("%s#%d@%d", d.Kind, d.ID, d.File)
}

// UsageCategory classifies one occurrence of a definition. The zero value
// means "no category".
type UsageCategory uint8

const (
	CategoryNone UsageCategory = iota
	CategoryRead
	CategoryWrite
	CategoryImport
)

func (c UsageCategory) String() string {
	switch c {
	case CategoryRead:
		return "read"
	case CategoryWrite:
		return "write"
	case CategoryImport:
		return "import"
	}
	return ""
}

// FileReference is one occurrence of a definition inside a file.
type FileReference struct {
	Range    syntax.TextRange
	Category UsageCategory
}

// SearchScope bounds a usage search to a whole file or to a range in it.
type SearchScope struct {
	File  FileID
	Range *syntax.TextRange
}

func SingleFile(file FileID) SearchScope {
	return SearchScope{File: file}
}

func FileRangeScope(file FileID, r syntax.TextRange) SearchScope {
	return SearchScope{File: file, Range: &r}
}

// Contains reports whether r in file lies inside the scope.
func (s SearchScope) Contains(file FileID, r syntax.TextRange) bool {
	if file != s.File {
		return false
	}
	return s.Range == nil || s.Range.ContainsRange(r)
}

// NavigationTarget locates a declaration. FocusRange is the name of the
// declared entity when it has one.
type NavigationTarget struct {
	File       FileID
	FullRange  syntax.TextRange
	FocusRange *syntax.TextRange
}

// Semantics is one read-only snapshot of name resolution over a set of
// parsed files. Implementations must be safe for concurrent readers.
type Semantics interface {
	// Parse returns the syntax tree of file, or nil when unknown.
	Parse(file FileID) *syntax.Tree
	// DescendIntoMacros maps a token to its expanded forms. A backend
	// without macro expansion returns the token itself.
	DescendIntoMacros(file FileID, token syntax.NodeID) []syntax.NodeID
	// ClassifyToken returns every definition the token names.
	ClassifyToken(file FileID, token syntax.NodeID) []Definition
	// FormatArgsTemplate resolves a placeholder inside a format string
	// literal. ok is false when offset is not on a placeholder; def is nil
	// when the placeholder names no definition.
	FormatArgsTemplate(file FileID, token syntax.NodeID, offset int) (r syntax.TextRange, def *Definition, ok bool)
	// Usages returns the occurrences of def inside scope, grouped by file.
	Usages(def Definition, scope SearchScope) map[FileID][]FileReference
	// IsNever reports whether a call, method call or macro call diverges.
	IsNever(file FileID, expr syntax.NodeID) bool
	IsMutable(def Definition) bool
	DeclarationSites(def Definition) []NavigationTarget
	// ClosureCaptures lists the locals captured by a closure. ok is false
	// when the closure could not be typed at all.
	ClosureCaptures(file FileID, closure syntax.NodeID) (captures []Definition, ok bool)
	// TraitItemsWithSupertraits lists the associated items of a trait and
	// of every trait it transitively extends.
	TraitItemsWithSupertraits(trait Definition) []Definition
}
