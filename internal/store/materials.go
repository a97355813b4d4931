package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
)

// ErrMaterialNotFound is returned by Lookup for names absent from the catalog.
var ErrMaterialNotFound = errors.New("material not found in catalog")

const materialColumns = `name, type, unit, supplier, embodied_carbon,
	recycled_content, locally_sourced, recyclable`

// nameKey is the case-insensitive catalog key for a material name.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ImportMaterials upserts materials keyed by case-insensitive name in one
// transaction and returns the number written.
func (c *Catalog) ImportMaterials(ctx context.Context, materials []ingest.Material) (int, error) {
	log := logging.FromContext(ctx)

	for i, m := range materials {
		if nameKey(m.Name) == "" {
			return 0, apperr.Validation("materials[%d] must have a non-empty name", i)
		}
	}

	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.FromForeign(fmt.Errorf("starting import: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO materials (name_key, `+materialColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			unit = excluded.unit,
			supplier = excluded.supplier,
			embodied_carbon = excluded.embodied_carbon,
			recycled_content = excluded.recycled_content,
			locally_sourced = excluded.locally_sourced,
			recyclable = excluded.recyclable,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, apperr.FromForeign(fmt.Errorf("preparing import: %w", err))
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range materials {
		if _, err := stmt.ExecContext(ctx,
			nameKey(m.Name), strings.TrimSpace(m.Name),
			nullString(m.Type), nullString(m.Unit), nullString(m.Supplier),
			nullFloat(m.EmbodiedCarbon), nullFloat(m.RecycledContent),
			nullBool(m.LocallySourced), nullBool(m.Recyclable),
			now,
		); err != nil {
			return 0, apperr.FromForeign(fmt.Errorf("importing material %q: %w", m.Name, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.FromForeign(fmt.Errorf("committing import: %w", err))
	}

	log.Info().
		Str("component", "store").
		Str("operation", "import_materials").
		Int("count", len(materials)).
		Msg("catalog materials imported")
	return len(materials), nil
}

// ListMaterials returns every catalog material ordered by name.
func (c *Catalog) ListMaterials(ctx context.Context) ([]ingest.Material, error) {
	rows, err := c.conn.QueryContext(ctx,
		"SELECT "+materialColumns+" FROM materials ORDER BY name_key")
	if err != nil {
		return nil, apperr.FromForeign(fmt.Errorf("listing materials: %w", err))
	}
	defer rows.Close()

	out := []ingest.Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, apperr.FromForeign(fmt.Errorf("scanning material: %w", err))
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromForeign(fmt.Errorf("listing materials: %w", err))
	}
	return out, nil
}

// Count returns the number of catalog materials.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM materials").Scan(&n); err != nil {
		return 0, apperr.FromForeign(fmt.Errorf("counting materials: %w", err))
	}
	return n, nil
}

// Lookup returns the catalog material with the given name, compared
// case-insensitively.
func (c *Catalog) Lookup(ctx context.Context, name string) (ingest.Material, error) {
	row := c.conn.QueryRowContext(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE name_key = ?", nameKey(name))
	m, err := scanMaterial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ingest.Material{}, apperr.Wrap(apperr.KindNotFound, ErrMaterialNotFound, "material %q", name)
	}
	if err != nil {
		return ingest.Material{}, apperr.FromForeign(fmt.Errorf("looking up material %q: %w", name, err))
	}
	return m, nil
}

// EmbodiedCarbon resolves a factor by exact name, then by the average of
// catalog materials sharing materialType. Unknown materials report ok=false.
func (c *Catalog) EmbodiedCarbon(ctx context.Context, name, materialType string) (float64, bool, error) {
	var factor sql.NullFloat64
	err := c.conn.QueryRowContext(ctx,
		"SELECT embodied_carbon FROM materials WHERE name_key = ?", nameKey(name)).Scan(&factor)
	switch {
	case err == nil && factor.Valid:
		return factor.Float64, true, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("looking up factor for %q: %w", name, err)
	}

	if strings.TrimSpace(materialType) == "" {
		return 0, false, nil
	}

	err = c.conn.QueryRowContext(ctx,
		`SELECT AVG(embodied_carbon) FROM materials
		 WHERE type = ? COLLATE NOCASE AND embodied_carbon IS NOT NULL`,
		strings.TrimSpace(materialType)).Scan(&factor)
	if err != nil {
		return 0, false, fmt.Errorf("looking up factor for type %q: %w", materialType, err)
	}
	return factor.Float64, factor.Valid, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterial(s scanner) (ingest.Material, error) {
	var (
		m                          ingest.Material
		typ, unit, supplier        sql.NullString
		embodied, recycled         sql.NullFloat64
		locallySourced, recyclable sql.NullBool
	)
	if err := s.Scan(&m.Name, &typ, &unit, &supplier, &embodied, &recycled, &locallySourced, &recyclable); err != nil {
		return ingest.Material{}, err
	}
	m.Type = stringPtr(typ)
	m.Unit = stringPtr(unit)
	m.Supplier = stringPtr(supplier)
	m.EmbodiedCarbon = floatPtr(embodied)
	m.RecycledContent = floatPtr(recycled)
	m.LocallySourced = boolPtr(locallySourced)
	m.Recyclable = boolPtr(recyclable)
	return m, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
