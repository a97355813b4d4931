package store

import (
	"context"
	"fmt"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the schema up to date.
func (c *Catalog) Migrate(ctx context.Context) error {
	if _, err := c.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version, err := c.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if version < 1 {
		if err := c.migrateV1(ctx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
func (c *Catalog) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := c.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrateV1 creates the materials table.
func (c *Catalog) migrateV1(ctx context.Context) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS materials (
			name_key         TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			type             TEXT,
			unit             TEXT,
			supplier         TEXT,
			embodied_carbon  REAL,
			recycled_content REAL,
			locally_sourced  BOOLEAN,
			recyclable       BOOLEAN,
			updated_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_type ON materials(type COLLATE NOCASE)`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}
