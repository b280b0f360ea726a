// Package sqlite provides an embedded SQLite target backed by the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapsp/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

var defaultPragmas = map[string]string{
	"busy_timeout": "5000",
	"foreign_keys": "1",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance. A nil logger discards output.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database file at cfg.Path, or a fresh in-memory database
// when the path is empty or ":memory:". Every cfg.Options entry is applied as
// a PRAGMA on each pooled connection.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg.Path, cfg.Options, uuid.NewString())
	a.Logger.Debug("connecting to sqlite", slog.String("path", cfg.Path))
	return a.Open(ctx, "sqlite", dsn, cfg)
}

// buildDSN renders the driver DSN. In-memory databases use a named shared
// cache so that every connection in the pool sees the same tables.
func buildDSN(path string, options map[string]string, name string) string {
	pragmas := make(map[string]string, len(defaultPragmas)+len(options))
	for k, v := range defaultPragmas {
		pragmas[k] = v
	}
	for k, v := range options {
		pragmas[strings.ToLower(k)] = v
	}

	keys := make([]string, 0, len(pragmas))
	for k := range pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make([]string, 0, len(keys)+2)
	if path == "" || path == MemoryPath {
		path = "file:leapsp-" + name
		q = append(q, "mode=memory", "cache=shared")
	}
	for _, k := range keys {
		q = append(q, "_pragma="+url.QueryEscape(fmt.Sprintf("%s(%s)", k, pragmas[k])))
	}
	return path + "?" + strings.Join(q, "&")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
