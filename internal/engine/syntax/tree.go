// # internal/engine/syntax/tree.go
package syntax

import (
	"iter"
	"sort"
)

// NodeID addresses an element of a Tree. Tokens and nodes share one index
// space.
type NodeID int32

// None is the absent element.
const None NodeID = -1

// Field records the role an element plays inside its parent.
type Field uint8

const (
	FieldNone Field = iota
	FieldName
	FieldBody
	FieldCondition
	FieldConsequence
	FieldAlternative
	FieldValue
	FieldPattern
	FieldParameters
	FieldReturnType
	FieldType
	FieldTrait
	FieldFunction
	FieldArguments
	FieldBounds
	FieldLeft
	FieldRight
	FieldPath
	FieldField
	FieldMacro
	FieldTail
	FieldLabel
	FieldArgument
	FieldAlias
	FieldUseList
	FieldTypeParameters
	FieldOperator
	FieldElement
	FieldIndex
	FieldDefault
)

var fieldNames = map[string]Field{
	"name":            FieldName,
	"body":            FieldBody,
	"condition":       FieldCondition,
	"consequence":     FieldConsequence,
	"alternative":     FieldAlternative,
	"value":           FieldValue,
	"pattern":         FieldPattern,
	"parameters":      FieldParameters,
	"return_type":     FieldReturnType,
	"type":            FieldType,
	"trait":           FieldTrait,
	"function":        FieldFunction,
	"arguments":       FieldArguments,
	"bounds":          FieldBounds,
	"left":            FieldLeft,
	"right":           FieldRight,
	"path":            FieldPath,
	"field":           FieldField,
	"macro":           FieldMacro,
	"label":           FieldLabel,
	"argument":        FieldArgument,
	"alias":           FieldAlias,
	"list":            FieldUseList,
	"type_parameters": FieldTypeParameters,
	"operator":        FieldOperator,
	"element":         FieldElement,
	"index":           FieldIndex,
	"default_type":    FieldDefault,
}

// FieldByName maps a grammar field name to a Field. Unknown names map to
// FieldNone.
func FieldByName(name string) Field {
	return fieldNames[name]
}

// Tree is an immutable arena holding one parsed file. Parent links live in a
// separate index table so that traversals only ever hold NodeIDs.
type Tree struct {
	src      []byte
	kinds    []Kind
	fields   []Field
	ranges   []TextRange
	parents  []NodeID
	children [][]NodeID
	tokens   []NodeID
}

func (t *Tree) Source() []byte { return t.src }

// Root returns the file node. It is always the first element.
func (t *Tree) Root() NodeID {
	if len(t.kinds) == 0 {
		return None
	}
	return 0
}

func (t *Tree) Len() int { return len(t.kinds) }

func (t *Tree) valid(id NodeID) bool { return id >= 0 && int(id) < len(t.kinds) }

func (t *Tree) Kind(id NodeID) Kind {
	if !t.valid(id) {
		return KindInvalid
	}
	return t.kinds[id]
}

func (t *Tree) Field(id NodeID) Field {
	if !t.valid(id) {
		return FieldNone
	}
	return t.fields[id]
}

func (t *Tree) Range(id NodeID) TextRange {
	if !t.valid(id) {
		return TextRange{}
	}
	return t.ranges[id]
}

func (t *Tree) Text(id NodeID) string {
	r := t.Range(id)
	if r.End > len(t.src) {
		return ""
	}
	return string(t.src[r.Start:r.End])
}

func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return None
	}
	return t.parents[id]
}

func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return t.children[id]
}

func (t *Tree) IsToken(id NodeID) bool { return t.Kind(id).IsToken() }

// ChildByField returns the first child tagged with f.
func (t *Tree) ChildByField(id NodeID, f Field) NodeID {
	for _, c := range t.Children(id) {
		if t.fields[c] == f {
			return c
		}
	}
	return None
}

// ChildrenByField returns every child tagged with f.
func (t *Tree) ChildrenByField(id NodeID, f Field) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.fields[c] == f {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first direct child of kind k.
func (t *Tree) ChildOfKind(id NodeID, k Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.kinds[c] == k {
			return c
		}
	}
	return None
}

// FirstToken returns the leftmost token in the subtree rooted at id.
func (t *Tree) FirstToken(id NodeID) NodeID {
	for t.valid(id) && !t.IsToken(id) {
		ch := t.Children(id)
		if len(ch) == 0 {
			return None
		}
		id = ch[0]
	}
	return id
}

// Ancestors yields id and then every enclosing element up to the root.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for cur := id; t.valid(cur); cur = t.parents[cur] {
			if !yield(cur) {
				return
			}
		}
	}
}

// ParentAncestors is Ancestors without the starting element.
func (t *Tree) ParentAncestors(id NodeID) iter.Seq[NodeID] {
	return t.Ancestors(t.Parent(id))
}

// NearestAncestor returns the first element of Ancestors(id) for which match
// holds.
func (t *Tree) NearestAncestor(id NodeID, match func(NodeID) bool) NodeID {
	for a := range t.Ancestors(id) {
		if match(a) {
			return a
		}
	}
	return None
}

// Tokens yields every token in source order.
func (t *Tree) Tokens() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for _, tok := range t.tokens {
			if !yield(tok) {
				return
			}
		}
	}
}

// TokensAtOffset returns the tokens touching offset, in source order. A
// cursor sitting between two adjacent tokens touches both.
func (t *Tree) TokensAtOffset(offset int) []NodeID {
	i := sort.Search(len(t.tokens), func(i int) bool {
		return t.ranges[t.tokens[i]].End >= offset
	})
	var out []NodeID
	for ; i < len(t.tokens); i++ {
		r := t.ranges[t.tokens[i]]
		if r.Start > offset {
			break
		}
		if r.ContainsInclusive(offset) {
			out = append(out, t.tokens[i])
		}
	}
	return out
}

// TokensIn returns the tokens fully inside r, in source order.
func (t *Tree) TokensIn(r TextRange) []NodeID {
	i := sort.Search(len(t.tokens), func(i int) bool {
		return t.ranges[t.tokens[i]].Start >= r.Start
	})
	var out []NodeID
	for ; i < len(t.tokens); i++ {
		tr := t.ranges[t.tokens[i]]
		if tr.Start >= r.End {
			break
		}
		if r.ContainsRange(tr) {
			out = append(out, t.tokens[i])
		}
	}
	return out
}

// CoveringElement returns the deepest element whose range contains r.
func (t *Tree) CoveringElement(r TextRange) NodeID {
	cur := t.Root()
	if cur == None || !t.Range(cur).ContainsRange(r) {
		return None
	}
	for {
		next := None
		for _, c := range t.Children(cur) {
			if t.ranges[c].ContainsRange(r) {
				next = c
				break
			}
		}
		if next == None {
			return cur
		}
		cur = next
	}
}
