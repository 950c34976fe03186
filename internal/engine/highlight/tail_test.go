// # internal/engine/highlight/tail_test.go
package highlight

import (
	"testing"

	"relight/internal/engine/parser"
	"relight/internal/engine/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstOfKind(t *testing.T, tree *syntax.Tree, k syntax.Kind) syntax.NodeID {
	t.Helper()
	for id := range tree.Descendants(tree.Root()) {
		if tree.Kind(id) == k {
			return id
		}
	}
	require.Failf(t, "kind not found", "%v", k)
	return syntax.None
}

func texts(tree *syntax.Tree, ids []syntax.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tree.Text(id))
	}
	return out
}

func collect(seq func(func(syntax.NodeID) bool)) []syntax.NodeID {
	var out []syntax.NodeID
	for id := range seq {
		out = append(out, id)
	}
	return out
}

func TestTailExprs_IfAndMatch(t *testing.T) {
	tree := parser.ParseSource(`fn f() -> u32 {
    if a { 1 } else if b { 2 } else { match c { _ => 3, } }
}`)
	body := tree.Body(firstOfKind(t, tree, syntax.FnItem))
	tails := collect(TailExprs(tree, tree.TailExpr(body)))
	assert.Equal(t, []string{"1", "2", "3"}, texts(tree, tails))
}

func TestTailExprs_EffectBlockIsOpaque(t *testing.T) {
	tree := parser.ParseSource(`fn f() { async { 1 } }`)
	body := tree.Body(firstOfKind(t, tree, syntax.FnItem))
	tail := tree.TailExpr(body)
	assert.Equal(t, []syntax.NodeID{tail}, collect(TailExprs(tree, tail)))
}

func TestTailExprs_EarlyStop(t *testing.T) {
	tree := parser.ParseSource(`fn f() -> u32 { if a { 1 } else { 2 } }`)
	body := tree.Body(firstOfKind(t, tree, syntax.FnItem))
	var seen []string
	for id := range TailExprs(tree, tree.TailExpr(body)) {
		seen = append(seen, tree.Text(id))
		break
	}
	assert.Equal(t, []string{"1"}, seen)
}

func TestBreakAndContinueExprs_Depth(t *testing.T) {
	tree := parser.ParseSource(`fn f() {
    'a: loop {
        break;
        continue;
        loop { break; break 'a; }
        let c = || loop { break 'a; };
        fn inner() { loop { break; } }
    }
}`)
	loop := firstOfKind(t, tree, syntax.LoopExpr)
	body := tree.Body(loop)

	unlabeled := collect(BreakAndContinueExprs(tree, "", body))
	assert.Equal(t, []string{"break", "continue"}, texts(tree, unlabeled))

	labeled := collect(BreakAndContinueExprs(tree, "'a", body))
	assert.Equal(t, []string{"break", "continue", "break 'a"}, texts(tree, labeled))

	breaks := collect(BreakExprs(tree, "'a", body))
	assert.Equal(t, []string{"break", "break 'a"}, texts(tree, breaks))
}
