// # internal/engine/parser/parser_test.go
package parser

import (
	"context"
	"strings"
	"testing"

	"relight/internal/core/errors"
	"relight/internal/engine/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesOfKind(tree *syntax.Tree, k syntax.Kind) []syntax.NodeID {
	var out []syntax.NodeID
	for id := range tree.Descendants(tree.Root()) {
		if tree.Kind(id) == k {
			out = append(out, id)
		}
	}
	return out
}

func TestParser_RejectsNonRust(t *testing.T) {
	p := NewParser(1)
	defer p.Close()

	_, err := p.Parse(context.Background(), "main.go", []byte("package main"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestParser_CountsErrors(t *testing.T) {
	p := NewParser(1)
	defer p.Close()

	file, err := p.Parse(context.Background(), "lib.rs", []byte("fn main() { foo()); }"))
	require.NoError(t, err)
	assert.Equal(t, "lib.rs", file.Path)
	assert.Greater(t, file.ErrorNodes, 0)
	assert.NotEmpty(t, nodesOfKind(file.Tree, syntax.ErrorNode))
}

func TestLower_TokensCoverSource(t *testing.T) {
	src := "fn add(a: u32, b: u32) -> u32 { a + b }\n"
	tree := ParseSource(src)

	assert.Equal(t, syntax.SourceFile, tree.Kind(tree.Root()))
	var words []string
	for tok := range tree.Tokens() {
		words = append(words, tree.Text(tok))
	}
	assert.Equal(t, strings.Fields("fn add ( a : u32 , b : u32 ) -> u32 { a + b }"), words)
}

func TestLower_BlockTail(t *testing.T) {
	tree := ParseSource(`fn f() -> u32 {
    let x = 1;
    if x > 0 { 1 } else { 2 }
}
fn g() { h(); }`)
	fns := nodesOfKind(tree, syntax.FnItem)
	require.Len(t, fns, 2)

	tail := tree.TailExpr(tree.Body(fns[0]))
	require.Equal(t, syntax.IfExpr, tree.Kind(tail))
	then, els := tree.IfBranches(tail)
	assert.Equal(t, "1", tree.Text(tree.TailExpr(then)))
	assert.Equal(t, "2", tree.Text(tree.TailExpr(els)))

	assert.Equal(t, syntax.None, tree.TailExpr(tree.Body(fns[1])))
}

func TestLower_ElseIfChain(t *testing.T) {
	tree := ParseSource(`fn f() { if a { } else if b { } else { } }`)
	ifs := nodesOfKind(tree, syntax.IfExpr)
	require.Len(t, ifs, 2)
	_, els := tree.IfBranches(ifs[0])
	assert.Equal(t, ifs[1], els)
	_, last := tree.IfBranches(ifs[1])
	assert.Equal(t, syntax.BlockExpr, tree.Kind(last))
}

func TestLower_Labels(t *testing.T) {
	tree := ParseSource(`fn f() {
    'outer: loop {
        'blk: { break 'blk; }
        continue 'outer;
    }
}`)
	loops := nodesOfKind(tree, syntax.LoopExpr)
	require.Len(t, loops, 1)
	assert.Equal(t, "'outer", tree.LabelText(loops[0]))
	assert.Equal(t, "loop", tree.Text(tree.LoopKeyword(loops[0])))

	var labeled []syntax.NodeID
	for _, b := range nodesOfKind(tree, syntax.BlockExpr) {
		if tree.Label(b) != syntax.None {
			labeled = append(labeled, b)
		}
	}
	require.Len(t, labeled, 1)
	assert.Equal(t, "'blk", tree.LabelText(labeled[0]))

	brk := nodesOfKind(tree, syntax.BreakExpr)
	require.Len(t, brk, 1)
	assert.Equal(t, "'blk", tree.Text(tree.Lifetime(brk[0])))
	cont := nodesOfKind(tree, syntax.ContinueExpr)
	require.Len(t, cont, 1)
	assert.Equal(t, "continue", tree.Text(tree.Keyword(cont[0])))
}

func TestLower_ModifiedBlocks(t *testing.T) {
	tree := ParseSource(`async fn f() {
    async move { 1 };
    unsafe { 2 };
}`)
	fn := nodesOfKind(tree, syntax.FnItem)[0]
	assert.Equal(t, "async", tree.Text(tree.AsyncToken(fn)))

	mods := map[string]bool{}
	for _, b := range nodesOfKind(tree, syntax.BlockExpr) {
		if m := tree.BlockModifier(b); m != syntax.None {
			mods[tree.Text(m)] = tree.IsEffectBlock(b)
			assert.NotEqual(t, syntax.None, tree.TailExpr(b))
		}
	}
	assert.Equal(t, map[string]bool{"async": true, "unsafe": false}, mods)
}

func TestLower_Closure(t *testing.T) {
	tree := ParseSource(`fn f() { let c = move |a, b| a + b; }`)
	closures := nodesOfKind(tree, syntax.ClosureExpr)
	require.Len(t, closures, 1)
	open, closing := tree.Pipes(tree.ClosureParams(closures[0]))
	require.NotEqual(t, syntax.None, open)
	require.NotEqual(t, syntax.None, closing)
	assert.Less(t, tree.Range(open).Start, tree.Range(closing).Start)
	assert.Equal(t, syntax.BinExpr, tree.Kind(tree.Body(closures[0])))
	assert.NotEqual(t, syntax.None, tree.ChildOfKind(closures[0], syntax.MoveKw))
}

func TestLower_ExitTokens(t *testing.T) {
	tree := ParseSource(`fn f() -> Option<u8> { let v = g()?; return Some(v); }`)
	try := nodesOfKind(tree, syntax.TryExpr)
	require.Len(t, try, 1)
	assert.Equal(t, syntax.Question, tree.Kind(tree.Keyword(try[0])))
	ret := nodesOfKind(tree, syntax.ReturnExpr)
	require.Len(t, ret, 1)
	assert.Equal(t, "return", tree.Text(tree.Keyword(ret[0])))
	assert.NotEmpty(t, nodesOfKind(tree, syntax.ThinArrow))
}

func TestLower_SelfType(t *testing.T) {
	tree := ParseSource(`impl S { fn new() -> Self { Self { } } }`)
	assert.Len(t, nodesOfKind(tree, syntax.SelfTypeKw), 2)
}

func TestIsRustPath(t *testing.T) {
	assert.True(t, IsRustPath("src/lib.rs"))
	assert.True(t, IsRustPath("MAIN.RS"))
	assert.False(t, IsRustPath("main.go"))
	assert.False(t, IsRustPath("rs"))
}
