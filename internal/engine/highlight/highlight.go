// Package highlight finds the ranges related to the construct under a
// cursor: references of a name, exit points of a function, yield points of
// an async scope, break targets of a loop and captures of a closure.
//
// Every request is a pure traversal over an immutable tree plus read-only
// queries against a semantics.Semantics snapshot. A nil result means
// "nothing to highlight"; there are no error returns.
package highlight

import (
	"context"
	"sort"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"

	"github.com/rs/zerolog"
)

// Config toggles each analyzer. The zero value disables everything.
type Config struct {
	References      bool `toml:"references" json:"references"`
	ExitPoints      bool `toml:"exit_points" json:"exit_points"`
	BreakPoints     bool `toml:"break_points" json:"break_points"`
	ClosureCaptures bool `toml:"closure_captures" json:"closure_captures"`
	YieldPoints     bool `toml:"yield_points" json:"yield_points"`
}

// AllEnabled returns a Config with every analyzer on.
func AllEnabled() Config {
	return Config{References: true, ExitPoints: true, BreakPoints: true, ClosureCaptures: true, YieldPoints: true}
}

// HighlightedRange is one result. Category is CategoryNone for anything
// that is not a read, write or import of a name.
type HighlightedRange struct {
	Range    syntax.TextRange
	Category semantics.UsageCategory
}

// Feature names the analyzer that served a request.
type Feature string

const (
	FeatureNone            Feature = "none"
	FeatureReferences      Feature = "references"
	FeatureExitPoints      Feature = "exit_points"
	FeatureBreakPoints     Feature = "break_points"
	FeatureClosureCaptures Feature = "closure_captures"
	FeatureYieldPoints     Feature = "yield_points"
)

// Related returns the ranges related to the token at pos, or nil.
func Related(ctx context.Context, sema semantics.Semantics, cfg Config, pos semantics.FilePosition) []HighlightedRange {
	res, _ := Dispatch(ctx, sema, cfg, pos)
	return res
}

// Dispatch is Related that also reports which analyzer ran.
func Dispatch(ctx context.Context, sema semantics.Semantics, cfg Config, pos semantics.FilePosition) ([]HighlightedRange, Feature) {
	tree := sema.Parse(pos.File)
	if tree == nil {
		return nil, FeatureNone
	}
	token := TokenAt(tree, pos.Offset)
	if token == syntax.None {
		return nil, FeatureNone
	}

	a := &analysis{sema: sema, file: pos.File, tree: tree}
	kind := tree.Kind(token)
	parentKind := tree.Kind(tree.Parent(token))

	var feature Feature
	var res []HighlightedRange
	switch {
	case kind == syntax.Question && cfg.ExitPoints && parentKind == syntax.TryExpr:
		feature, res = FeatureExitPoints, a.exitPoints(token)
	case (kind == syntax.FnKw || kind == syntax.ReturnKw || kind == syntax.ThinArrow) && cfg.ExitPoints:
		feature, res = FeatureExitPoints, a.exitPoints(token)
	case (kind == syntax.AwaitKw || kind == syntax.AsyncKw) && cfg.YieldPoints:
		feature, res = FeatureYieldPoints, a.yieldPoints(token)
	case kind == syntax.ForKw && cfg.BreakPoints && parentKind == syntax.ForExpr:
		feature, res = FeatureBreakPoints, a.breakPoints(token)
	case (kind == syntax.BreakKw || kind == syntax.LoopKw || kind == syntax.WhileKw || kind == syntax.ContinueKw) && cfg.BreakPoints:
		feature, res = FeatureBreakPoints, a.breakPoints(token)
	case (kind == syntax.Pipe || kind == syntax.MoveKw) && cfg.ClosureCaptures:
		feature, res = FeatureClosureCaptures, a.closureCaptures(token)
	case cfg.References:
		feature, res = FeatureReferences, a.references(token, pos.Offset)
	default:
		feature = FeatureNone
	}

	zerolog.Ctx(ctx).Debug().
		Stringer("token", kind).
		Stringer("range", tree.Range(token)).
		Str("feature", string(feature)).
		Int("results", len(res)).
		Msg("highlight dispatched")
	return res, feature
}

type analysis struct {
	sema semantics.Semantics
	file semantics.FileID
	tree *syntax.Tree
}

// tokenPriority ranks candidate tokens sharing the cursor offset. `?` wins
// when the cursor sits in `await$0?`.
func tokenPriority(k syntax.Kind) int {
	switch {
	case k == syntax.Question, k == syntax.ThinArrow:
		return 4
	case k.IsKeyword():
		return 3
	case k.IsIdent(), k == syntax.IntNumber:
		return 2
	case k == syntax.Pipe:
		return 1
	}
	return 0
}

// TokenAt returns the token a request at offset is about, or syntax.None.
func TokenAt(tree *syntax.Tree, offset int) syntax.NodeID {
	return pickBestToken(tree, tree.TokensAtOffset(offset))
}

// pickBestToken returns the highest priority token. On a tie the first
// token in scan order wins.
func pickBestToken(tree *syntax.Tree, tokens []syntax.NodeID) syntax.NodeID {
	best, bestPrio := syntax.None, -1
	for _, tok := range tokens {
		if p := tokenPriority(tree.Kind(tok)); p > bestPrio {
			best, bestPrio = tok, p
		}
	}
	return best
}

// rangeSet deduplicates results by (range, category).
type rangeSet map[HighlightedRange]struct{}

func (s rangeSet) add(r syntax.TextRange, c semantics.UsageCategory) {
	s[HighlightedRange{Range: r, Category: c}] = struct{}{}
}

func (s rangeSet) addToken(tree *syntax.Tree, tok syntax.NodeID) {
	if tok != syntax.None {
		s.add(tree.Range(tok), semantics.CategoryNone)
	}
}

// sorted returns the set ordered by start, end and category. The result is
// never nil.
func (s rangeSet) sorted() []HighlightedRange {
	out := make([]HighlightedRange, 0, len(s))
	for hl := range s {
		out = append(out, hl)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End < b.Range.End
		}
		return a.Category < b.Category
	})
	return out
}

// coverRange unions the ranges of two optional elements.
func coverRange(tree *syntax.Tree, a, b syntax.NodeID) *syntax.TextRange {
	var ra, rb *syntax.TextRange
	if a != syntax.None {
		r := tree.Range(a)
		ra = &r
	}
	if b != syntax.None {
		r := tree.Range(b)
		rb = &r
	}
	return syntax.CoverOptional(ra, rb)
}
