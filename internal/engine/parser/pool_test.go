// # internal/engine/parser/pool_test.go
package parser

import (
	"sync"
	"testing"
)

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 2)

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if active, _ := pool.Stats(); active != 1 {
		t.Fatalf("expected 1 active lease, got %d", active)
	}

	pool.Put(sp)
	active, idle := pool.Stats()
	if active != 0 || idle != 1 {
		t.Fatalf("expected 0 active / 1 idle after Put, got %d / %d", active, idle)
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 1)

	// Put(nil) must be a no-op.
	pool.Put(nil)
}

func TestParserPool_ClosesSurplus(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 1)

	a, b := pool.Get(), pool.Get()
	pool.Put(a)
	pool.Put(b)

	if _, idle := pool.Stats(); idle != 1 {
		t.Fatalf("expected idle capped at 1, got %d", idle)
	}
	pool.Close()
	if _, idle := pool.Stats(); idle != 0 {
		t.Fatalf("expected empty pool after Close, got %d", idle)
	}
}

func TestParserPool_ParsesValidRust(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 1)

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte("fn main() {}\n"), nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree for valid Rust source")
	}
	defer tree.Close()

	if root := tree.RootNode(); root == nil || root.HasError() {
		t.Fatal("expected error-free root node")
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 4)

	const goroutines = 20
	const iters = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	src := []byte("fn run() { loop { break; } }\n")

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}

	wg.Wait()
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(RustLanguage(), 1)

	sp := pool.Get()
	sp.Reset() // Simulate external reset before Put.
	pool.Put(sp)

	sp2 := pool.Get()
	defer pool.Put(sp2)

	tree := sp2.Parse([]byte("fn ok() {}\n"), nil)
	if tree == nil {
		t.Fatal("parser should still parse correctly after Get")
	}
	defer tree.Close()
}
