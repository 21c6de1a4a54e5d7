// Package sqlite exposes the SQLite store for programs that embed the boards
// grouping engine while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// NewBackend creates a new SQLite store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dataDir,
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
