// # internal/engine/parser/pool.go
package parser

import (
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parser instances to avoid the per-request
// allocation overhead of sitter.NewParser() / parser.Close().
//
// At most maxIdle parsers are kept between requests; surplus parsers are
// closed on Put.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Concurrency: safe for use by multiple goroutines simultaneously.
type ParserPool struct {
	lang *sitter.Language
	idle chan *sitter.Parser

	// Tracking
	leases   map[*sitter.Parser]time.Time
	leasesMu sync.Mutex
}

// NewParserPool creates a pool for the given language grammar.
// The language must remain valid for the lifetime of the pool.
func NewParserPool(lang *sitter.Language, maxIdle int) *ParserPool {
	if maxIdle < 1 {
		maxIdle = 1
	}
	return &ParserPool{
		lang:   lang,
		idle:   make(chan *sitter.Parser, maxIdle),
		leases: make(map[*sitter.Parser]time.Time),
	}
}

// Get retrieves an idle parser, or allocates a new one. The returned parser
// is already configured for the pool's language.
func (p *ParserPool) Get() *sitter.Parser {
	var sp *sitter.Parser
	select {
	case sp = <-p.idle:
	default:
		sp = sitter.NewParser()
	}
	// Ensure the language is set in case the parser was Reset() externally.
	_ = sp.SetLanguage(p.lang)

	p.leasesMu.Lock()
	p.leases[sp] = time.Now()
	p.leasesMu.Unlock()

	return sp
}

// Put returns a parser for reuse. The parser is reset before being stored
// so that no references to previous parse trees are retained. Callers must
// not use sp after calling Put.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}

	p.leasesMu.Lock()
	delete(p.leases, sp)
	p.leasesMu.Unlock()

	sp.Reset()
	select {
	case p.idle <- sp:
	default:
		sp.Close()
	}
}

// Stats returns the number of leased and idle parsers.
func (p *ParserPool) Stats() (active, idle int) {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	return len(p.leases), len(p.idle)
}

// Close releases every idle parser.
func (p *ParserPool) Close() {
	for {
		select {
		case sp := <-p.idle:
			sp.Close()
		default:
			return
		}
	}
}
