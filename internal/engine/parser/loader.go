// # internal/engine/parser/loader.go
package parser

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var (
	rustOnce sync.Once
	rustLang *sitter.Language
)

// RustLanguage returns the shared tree-sitter grammar for Rust.
func RustLanguage() *sitter.Language {
	rustOnce.Do(func() {
		rustLang = sitter.NewLanguage(tree_sitter_rust.Language())
	})
	return rustLang
}

// IsRustPath reports whether path names a Rust source file.
func IsRustPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".rs")
}
