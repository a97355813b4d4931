package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/ingest"
)

var _ engine.FactorSource = (*Catalog)(nil)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }
func b(v bool) *bool       { return &v }

func seeded(t *testing.T) *Catalog {
	t.Helper()
	ctx := context.Background()
	c, err := OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.ImportMaterials(ctx, []ingest.Material{
		{Name: "Steel Rebar", Type: s("metal"), EmbodiedCarbon: f(1.9), RecycledContent: f(60)},
		{Name: "Aluminium Sheet", Type: s("Metal"), EmbodiedCarbon: f(8.1), Recyclable: b(true)},
		{Name: "Concrete C30", Type: s("concrete"), EmbodiedCarbon: f(0.13), Unit: s("kg")},
		{Name: "Cork Board", Type: s("insulation"), LocallySourced: b(false)},
	})
	require.NoError(t, err)
	return c
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	require.NoError(t, c.Migrate(ctx))
	v, err := c.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestImportMaterials_Upsert(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	n, err := c.ImportMaterials(ctx, []ingest.Material{{Name: "steel rebar", EmbodiedCarbon: f(1.2)}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	m, err := c.Lookup(ctx, "STEEL REBAR")
	require.NoError(t, err)
	assert.Equal(t, "steel rebar", m.Name)
	require.NotNil(t, m.EmbodiedCarbon)
	assert.InDelta(t, 1.2, *m.EmbodiedCarbon, 1e-9)
	assert.Nil(t, m.Type, "upsert replaces the whole row")
}

func TestImportMaterials_RejectsBlankName(t *testing.T) {
	c := seeded(t)
	_, err := c.ImportMaterials(context.Background(), []ingest.Material{{Name: "ok"}, {Name: "  "}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "materials[1]")

	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n, "nothing written")
}

func TestListMaterials(t *testing.T) {
	list, err := seeded(t).ListMaterials(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)

	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Aluminium Sheet", "Concrete C30", "Cork Board", "Steel Rebar"}, names)

	cork := list[2]
	assert.Nil(t, cork.EmbodiedCarbon)
	require.NotNil(t, cork.LocallySourced)
	assert.False(t, *cork.LocallySourced)
	assert.Equal(t, "kg", *list[1].Unit)
}

func TestLookup_NotFound(t *testing.T) {
	_, err := seeded(t).Lookup(context.Background(), "Unobtainium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaterialNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEmbodiedCarbon(t *testing.T) {
	c := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name, materialType string
		want               float64
		wantOK             bool
	}{
		{name: "concrete c30", want: 0.13, wantOK: true},
		{name: "Unknown beam", materialType: "METAL", want: 5.0, wantOK: true},
		{name: "Unknown beam", materialType: "glass"},
		{name: "Unknown beam"},
		{name: "Cork Board"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.materialType, func(t *testing.T) {
			got, ok, err := c.EmbodiedCarbon(ctx, tt.name, tt.materialType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	c, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = c.ImportMaterials(ctx, []ingest.Material{{Name: "Timber", EmbodiedCarbon: f(0.3)}})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.EmbodiedCarbon(ctx, "timber", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 0.3, got, 1e-9)
}
