// # internal/engine/parser/engine.go
package parser

import (
	"relight/internal/engine/syntax"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// lowerHandler lowers one tree-sitter node into the arena. The default path
// maps the node kind through nodeKinds and lowers the children in order.
type lowerHandler func(l *lowerer, node *sitter.Node, field syntax.Field)

// lowerer walks a tree-sitter CST once and drives a syntax.Builder.
type lowerer struct {
	b        *syntax.Builder
	src      []byte
	handlers map[string]lowerHandler
	errors   int
}

// Lower converts a tree-sitter Rust tree into an arena tree.
func Lower(root *sitter.Node, src []byte) (*syntax.Tree, int) {
	l := &lowerer{
		b:        syntax.NewBuilder(src),
		src:      src,
		handlers: defaultHandlers(),
	}
	l.b.StartNode(syntax.SourceFile, syntax.FieldNone)
	if root != nil {
		l.children(root)
	}
	l.b.FinishNode()
	return l.b.Finish(), l.errors
}

func defaultHandlers() map[string]lowerHandler {
	return map[string]lowerHandler{
		"function_modifiers": (*lowerer).transparent,
		"else_clause":        (*lowerer).elseClause,
		"block":              (*lowerer).block,
		"async_block":        (*lowerer).modifiedBlock,
		"unsafe_block":       (*lowerer).modifiedBlock,
		"const_block":        (*lowerer).modifiedBlock,
		"try_block":          (*lowerer).modifiedBlock,
		"gen_block":          (*lowerer).modifiedBlock,
		"label":              (*lowerer).lifetime,
		"lifetime":           (*lowerer).lifetime,
		"boolean_literal":    (*lowerer).boolean,
		"ERROR":              (*lowerer).errorNode,
	}
}

func rangeOf(n *sitter.Node) syntax.TextRange {
	return syntax.TextRange{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (l *lowerer) lower(n *sitter.Node, field syntax.Field) {
	if n == nil || n.IsMissing() {
		return
	}
	if n.StartByte() == n.EndByte() && n.ChildCount() == 0 {
		return
	}
	kind := n.Kind()
	if !n.IsNamed() {
		l.b.Token(anonymousKind(kind), field, rangeOf(n))
		return
	}
	if h, ok := l.handlers[kind]; ok {
		h(l, n, field)
		return
	}
	if tk, ok := tokenKinds[kind]; ok {
		// The grammar has no node for `Self`; it arrives as an identifier.
		if (tk == syntax.Ident || tk == syntax.TypeIdent) && string(l.src[n.StartByte():n.EndByte()]) == "Self" {
			tk = syntax.SelfTypeKw
		}
		l.b.Token(tk, field, rangeOf(n))
		return
	}
	nk, ok := nodeKinds[kind]
	if !ok {
		if n.ChildCount() == 0 {
			l.b.Token(syntax.Punct, field, rangeOf(n))
			return
		}
		nk = syntax.OtherNode
	}
	l.b.StartNode(nk, field)
	l.children(n)
	l.b.FinishNode()
}

// children lowers every child of n into the current node. A `label`
// directly followed by `:` becomes a Label node.
func (l *lowerer) children(n *sitter.Node) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		field := syntax.FieldByName(n.FieldNameForChild(uint32(i)))
		if child.Kind() == "label" && i+1 < count {
			if next := n.Child(i + 1); next != nil && !next.IsNamed() && next.Kind() == ":" {
				l.b.StartNode(syntax.Label, syntax.FieldLabel)
				l.b.Token(syntax.Lifetime, syntax.FieldNone, rangeOf(child))
				l.b.Token(syntax.Colon, syntax.FieldNone, rangeOf(next))
				l.b.FinishNode()
				i++
				continue
			}
		}
		l.lower(child, field)
	}
}

func (l *lowerer) transparent(n *sitter.Node, _ syntax.Field) {
	l.children(n)
}

// elseClause inlines `else <branch>` into the enclosing if so that the
// branch is tagged as its alternative.
func (l *lowerer) elseClause(n *sitter.Node, _ syntax.Field) {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.IsNamed() && child.Kind() != "line_comment" && child.Kind() != "block_comment" {
			l.lower(child, syntax.FieldAlternative)
			continue
		}
		l.lower(child, syntax.FieldNone)
	}
}

func (l *lowerer) block(n *sitter.Node, field syntax.Field) {
	l.b.StartNode(syntax.BlockExpr, field)
	l.blockContents(n)
	l.b.FinishNode()
}

// modifiedBlock flattens `async {}`, `unsafe {}`, `const {}` and `try {}`
// into a single block whose first token is the modifier.
func (l *lowerer) modifiedBlock(n *sitter.Node, field syntax.Field) {
	l.b.StartNode(syntax.BlockExpr, field)
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "block" {
			l.blockContents(child)
			continue
		}
		l.lower(child, syntax.FieldNone)
	}
	l.b.FinishNode()
}

// blockContents lowers the statements of a block and tags its trailing
// expression as the tail. A block-like expression statement without a
// terminating `;` in last position is the tail too.
func (l *lowerer) blockContents(n *sitter.Node) {
	count := n.ChildCount()
	tail := -1
	for i := int(count) - 1; i >= 0; i-- {
		child := n.Child(uint(i))
		if child == nil || !child.IsNamed() || isComment(child.Kind()) {
			continue
		}
		if isTailCandidate(child) {
			tail = i
		}
		break
	}
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "label" && i+1 < count {
			if next := n.Child(i + 1); next != nil && next.Kind() == ":" {
				l.b.StartNode(syntax.Label, syntax.FieldLabel)
				l.b.Token(syntax.Lifetime, syntax.FieldNone, rangeOf(child))
				l.b.Token(syntax.Colon, syntax.FieldNone, rangeOf(next))
				l.b.FinishNode()
				i++
				continue
			}
		}
		if int(i) == tail {
			if child.Kind() == "expression_statement" {
				l.lower(child.NamedChild(0), syntax.FieldTail)
			} else {
				l.lower(child, syntax.FieldTail)
			}
			continue
		}
		l.lower(child, syntax.FieldNone)
	}
}

var statementKinds = map[string]bool{
	"let_declaration":          true,
	"empty_statement":          true,
	"attribute_item":           true,
	"inner_attribute_item":     true,
	"macro_definition":         true,
	"use_declaration":          true,
	"extern_crate_declaration": true,
	"function_item":            true,
	"function_signature_item":  true,
	"struct_item":              true,
	"enum_item":                true,
	"union_item":               true,
	"trait_item":               true,
	"impl_item":                true,
	"mod_item":                 true,
	"const_item":               true,
	"static_item":              true,
	"type_item":                true,
	"foreign_mod_item":         true,
	"associated_type":          true,
	"label":                    true,
}

func isTailCandidate(n *sitter.Node) bool {
	kind := n.Kind()
	if kind == "expression_statement" {
		last := n.Child(n.ChildCount() - 1)
		return n.NamedChildCount() == 1 && last != nil && last.IsNamed()
	}
	return !statementKinds[kind] && kind != "ERROR"
}

func isComment(kind string) bool {
	return kind == "line_comment" || kind == "block_comment"
}

// lifetime collapses `'name` into a single token. Inside loops and blocks
// the `label:` prefix is handled by children.
func (l *lowerer) lifetime(n *sitter.Node, field syntax.Field) {
	if field == syntax.FieldNone && n.Kind() == "label" {
		field = syntax.FieldLabel
	}
	l.b.Token(syntax.Lifetime, field, rangeOf(n))
}

func (l *lowerer) boolean(n *sitter.Node, field syntax.Field) {
	kind := syntax.FalseKw
	if string(l.src[n.StartByte():n.EndByte()]) == "true" {
		kind = syntax.TrueKw
	}
	l.b.Token(kind, field, rangeOf(n))
}

func (l *lowerer) errorNode(n *sitter.Node, field syntax.Field) {
	l.errors++
	l.b.StartNode(syntax.ErrorNode, field)
	l.children(n)
	l.b.FinishNode()
}

func anonymousKind(text string) syntax.Kind {
	if k, ok := punctKinds[text]; ok {
		return k
	}
	if k, ok := keywordKinds[text]; ok {
		return k
	}
	for _, r := range text {
		if !unicode.IsLetter(r) && r != '_' {
			return syntax.Punct
		}
	}
	if text == "_" || text == "" {
		return syntax.Punct
	}
	return syntax.Keyword
}
