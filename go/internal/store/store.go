// Package store is the durable key/value layer behind the session
// engine. Every field is persisted under its own fixed key, reads fall
// back to a typed default when a key is absent or unparsable, and writes
// are best-effort: failures are logged and never surfaced to the user
// action that triggered them.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Open opens (or creates) the embedded database at dir.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", dir, err)
	}
	return db, nil
}
