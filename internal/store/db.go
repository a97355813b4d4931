// Package store persists the footprint-factor catalog in SQLite.
//
// The catalog holds reference materials with their embodied carbon. It fills
// missing factors during report preparation and seeds the materials listing
// served by the API.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/logging"
)

const driverName = "sqlite"

// Catalog wraps a sql.DB connection to the footprint catalog.
type Catalog struct {
	conn *sql.DB
}

// Open opens or creates the catalog at the given path and migrates it.
// It creates the parent directory if it does not exist.
func Open(ctx context.Context, dbPath string) (*Catalog, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperr.FromForeign(fmt.Errorf("creating catalog directory: %w", err))
		}
	}

	conn, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, apperr.FromForeign(fmt.Errorf("opening catalog %s: %w", dbPath, err))
	}

	// WAL gives concurrent readers while an import runs.
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, apperr.FromForeign(fmt.Errorf("enabling WAL: %w", err))
	}

	return open(ctx, conn, dbPath)
}

// OpenInMemory opens an in-memory catalog, useful for testing.
func OpenInMemory(ctx context.Context) (*Catalog, error) {
	conn, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, apperr.FromForeign(err)
	}
	// Every pooled connection would get its own empty in-memory database.
	conn.SetMaxOpenConns(1)

	return open(ctx, conn, ":memory:")
}

func open(ctx context.Context, conn *sql.DB, dbPath string) (*Catalog, error) {
	c := &Catalog{conn: conn}
	if err := c.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, apperr.FromForeign(err)
	}

	logging.FromContext(ctx).Debug().
		Str("component", "store").
		Str("path", dbPath).
		Msg("catalog opened")
	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.conn.Close()
}
