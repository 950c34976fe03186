// # internal/engine/parser/parser.go
package parser

import (
	"context"
	"relight/internal/core/errors"
	"relight/internal/engine/syntax"
	"relight/internal/shared/observability"
	"time"

	"github.com/rs/zerolog"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParsedFile is one lowered source file. The arena tree owns a copy-free view
// of Source.
type ParsedFile struct {
	Path       string
	Source     []byte
	Tree       *syntax.Tree
	ErrorNodes int
}

type Parser struct {
	pool *ParserPool
}

func NewParser(poolSize int) *Parser {
	return &Parser{pool: NewParserPool(RustLanguage(), poolSize)}
}

// Parse runs tree-sitter over src and lowers the result. Syntax errors do
// not fail the parse; they are kept as ERROR nodes and counted.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*ParsedFile, error) {
	if !IsRustPath(path) {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, "unsupported language"),
			errors.CtxPath, path,
		)
	}

	start := time.Now()
	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tsTree := sp.ParseCtx(ctx, src, nil)
	if tsTree == nil {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeParse, "parse cancelled")
		}
		return nil, errors.AddContext(
			errors.New(errors.CodeParse, "tree-sitter returned no tree"),
			errors.CtxPath, path,
		)
	}
	defer tsTree.Close()

	tree, errs := Lower(tsTree.RootNode(), src)
	observability.ParseDuration.Observe(time.Since(start).Seconds())

	if errs > 0 {
		zerolog.Ctx(ctx).Debug().Str("path", path).Int("error_nodes", errs).Msg("parsed with syntax errors")
	}
	return &ParsedFile{Path: path, Source: src, Tree: tree, ErrorNodes: errs}, nil
}

// ParseSource parses src with a throwaway parser. Meant for tests and
// one-off callers.
func ParseSource(src string) *syntax.Tree {
	buf := []byte(src)
	sp := sitter.NewParser()
	defer sp.Close()
	_ = sp.SetLanguage(RustLanguage())
	tsTree := sp.Parse(buf, nil)
	if tsTree == nil {
		tree, _ := Lower(nil, buf)
		return tree
	}
	defer tsTree.Close()
	tree, _ := Lower(tsTree.RootNode(), buf)
	return tree
}

func (p *Parser) Close() { p.pool.Close() }
