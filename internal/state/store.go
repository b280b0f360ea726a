// Package state keeps the run history of procedure scripts in SQLite.
//
// The store implements core.RunStore. Its schema is managed by goose
// migrations embedded in the binary.
package state

import (
	"github.com/leapstack-labs/leapsp/pkg/core"
)

var _ core.RunStore = (*SQLiteStore)(nil)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"
