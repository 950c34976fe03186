// # internal/engine/resolver/database.go
package resolver

import (
	"context"
	"sync"
	"time"

	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"

	"github.com/rs/zerolog"
)

// Database owns the bound index of every known file. Files are bound
// eagerly on SetFile; readers work on Snapshots, which never change.
type Database struct {
	mu     sync.RWMutex
	files  []*fileIndex
	byPath map[string]semantics.FileID
}

func NewDatabase() *Database {
	return &Database{byPath: make(map[string]semantics.FileID)}
}

// SetFile binds tree as the content of path and returns its FileID. A path
// keeps its FileID across updates.
func (db *Database) SetFile(ctx context.Context, path string, tree *syntax.Tree) semantics.FileID {
	db.mu.RLock()
	id, known := db.byPath[path]
	if !known {
		id = semantics.FileID(len(db.files))
	}
	db.mu.RUnlock()

	start := time.Now()
	idx := bind(id, path, tree)
	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("defs", len(idx.defs)).
		Dur("elapsed", time.Since(start)).
		Msg("file bound")

	db.mu.Lock()
	defer db.mu.Unlock()
	if existing, ok := db.byPath[path]; ok {
		idx.id = existing
		db.files[existing] = idx
		return existing
	}
	idx.id = semantics.FileID(len(db.files))
	db.files = append(db.files, idx)
	db.byPath[path] = idx.id
	return idx.id
}

// FileID returns the id of a previously set path.
func (db *Database) FileID(path string) (semantics.FileID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.byPath[path]
	return id, ok
}

func (db *Database) Snapshot() *Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	files := make([]*fileIndex, len(db.files))
	copy(files, db.files)
	return &Snapshot{files: files}
}

// Analyze binds a single tree and returns a snapshot holding only it, as
// FileID 0.
func Analyze(tree *syntax.Tree) *Snapshot {
	return &Snapshot{files: []*fileIndex{bind(0, "", tree)}}
}
