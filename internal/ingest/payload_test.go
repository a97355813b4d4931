package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/ingest"
)

func TestParsePayload_Valid(t *testing.T) {
	body := `{
		"materials": [{"name": "Concrete", "quantity": 100, "embodiedCarbon": 0.9, "locallySourced": true}],
		"transport": [{"type": "truck", "distance": 600, "fuelType": "diesel"}],
		"energy": [{"source": "solar", "consumption": 1000}]
	}`

	p, err := ingest.ParsePayload([]byte(body))
	require.NoError(t, err)

	require.Len(t, p.Materials, 1)
	assert.Equal(t, "Concrete", p.Materials[0].Name)
	require.NotNil(t, p.Materials[0].Quantity)
	assert.InDelta(t, 100.0, *p.Materials[0].Quantity, 1e-9)
	assert.Nil(t, p.Materials[0].RecycledContent)
	assert.True(t, *p.Materials[0].LocallySourced)

	require.Len(t, p.Transport, 1)
	assert.Equal(t, "diesel", ingest.Lower(p.Transport[0].FuelType))

	require.Len(t, p.Energy, 1)
	assert.Equal(t, "solar", p.Energy[0].Identifier())
	assert.True(t, p.HasMaterials)
	assert.True(t, p.HasTransport)
	assert.True(t, p.HasEnergy)
	assert.Nil(t, p.Lifecycle)
}

func TestParsePayload_EmptyArrayCountsAsPresent(t *testing.T) {
	p, err := ingest.ParsePayload([]byte(`{"materials": []}`))
	require.NoError(t, err)
	assert.True(t, p.HasMaterials)
	assert.False(t, p.HasEnergy)
	assert.Empty(t, p.Materials)
}

func TestParsePayload_CalculatorSections(t *testing.T) {
	body := `{
		"energy": [{"source": "grid"}],
		"lifecycle": {"manufacturing": {"carbon": 0.5}},
		"circularEconomy": {"materialReuseRate": 0.6},
		"lifecycleCost": {"lifespan": 20, "discountRate": 0.04}
	}`
	p, err := ingest.ParsePayload([]byte(body))
	require.NoError(t, err)

	require.NotNil(t, p.Lifecycle)
	require.NotNil(t, p.Lifecycle.Manufacturing)
	assert.InDelta(t, 0.5, *p.Lifecycle.Manufacturing.Carbon, 1e-9)
	require.NotNil(t, p.CircularEconomy)
	assert.InDelta(t, 0.6, *p.CircularEconomy.MaterialReuseRate, 1e-9)
	require.NotNil(t, p.LifecycleCost)
	assert.Equal(t, 20, *p.LifecycleCost.Lifespan)
}

func TestParsePayload_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    apperr.Kind
		message string
	}{
		{"not json", `{not json`, apperr.KindMalformedRequest, "not valid JSON"},
		{"array body", `[1,2]`, apperr.KindMalformedRequest, "not valid JSON"},
		{"null body", `null`, apperr.KindMalformedRequest, "JSON object"},
		{"empty object", `{}`, apperr.KindValidation, "at least one of materials, transport, or energy is required"},
		{"only nulls", `{"materials": null}`, apperr.KindValidation, "at least one of"},
		{"materials not array", `{"materials": {"name": "x"}}`, apperr.KindValidation, "materials must be an array"},
		{"energy string", `{"energy": "solar"}`, apperr.KindValidation, "energy must be an array"},
		{"material missing name", `{"materials": [{"name": "a"}, {"quantity": 1}]}`, apperr.KindValidation, "materials[1]"},
		{"material name not string", `{"materials": [{"name": 5}]}`, apperr.KindValidation, "materials[0]"},
		{"transport missing type", `{"transport": [{"distance": 5}]}`, apperr.KindValidation, "transport[0]"},
		{"energy missing source", `{"energy": [{"source": ""}]}`, apperr.KindValidation, "energy[0]"},
		{"element not object", `{"energy": [3]}`, apperr.KindValidation, "energy[0] must be an object"},
		{"bad attribute type", `{"materials": [{"name": "a", "quantity": "lots"}]}`, apperr.KindValidation, "materials[0] has an invalid field"},
		{"bad lifecycle section", `{"energy": [{"source": "x"}], "lifecycleCost": {"lifespan": "long"}}`, apperr.KindValidation, "lifecycleCost is invalid"},
		{"blank identifier", `{"materials": [{"name": "   "}]}`, apperr.KindValidation, `materials[0] must have a non-empty "name" field`},
		{"huge lifespan", `{"materials": [{"name": "Steel"}], "lifecycleCost": {"lifespan": 20000000}}`, apperr.KindValidation, "lifecycleCost.lifespan must be between 1 and 200"},
		{"zero lifespan", `{"materials": [{"name": "Steel"}], "lifecycleCost": {"lifespan": 0}}`, apperr.KindValidation, "lifecycleCost.lifespan"},
		{"discount rate near -1", `{"materials": [{"name": "Steel"}], "lifecycleCost": {"discountRate": -0.99, "lifespan": 50}}`, apperr.KindValidation, "lifecycleCost.discountRate must be between"},
		{"inflation rate too high", `{"materials": [{"name": "Steel"}], "lifecycleCost": {"inflationRate": 5}}`, apperr.KindValidation, "lifecycleCost.inflationRate"},
		{"escalation too low", `{"materials": [{"name": "Steel"}], "lifecycleCost": {"energyCostEscalation": -1}}`, apperr.KindValidation, "lifecycleCost.energyCostEscalation"},
		{"embodied carbon overflow", `{"materials": [{"name": "Steel", "embodiedCarbon": 1e308, "quantity": 10}]}`, apperr.KindValidation, "materials[0].embodiedCarbon must be between"},
		{"nested magnitude", `{"energy": [{"source": "grid"}], "lifecycle": {"usePhase": {"carbon": -5e20}}}`, apperr.KindValidation, "lifecycle.usePhase.carbon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.ParsePayload([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParsePayload_BoundaryValuesAccepted(t *testing.T) {
	body := `{
		"materials": [{"name": "Steel", "quantity": 1e12, "embodiedCarbon": -1e12}],
		"lifecycleCost": {"lifespan": 200, "discountRate": -0.5, "inflationRate": 1, "energyCostEscalation": 0}
	}`
	p, err := ingest.ParsePayload([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, p.LifecycleCost)
	assert.Equal(t, 200, *p.LifecycleCost.Lifespan)
}

func TestLoadPayload(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"materials": [{"name": "Steel"}]}`), 0o600))

	yamlPath := filepath.Join(dir, "project.yaml")
	yamlBody := "materials:\n  - name: Timber\n    recycledContent: 60\ntransport:\n  - type: rail\n    isElectric: true\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlBody), 0o600))

	t.Run("json", func(t *testing.T) {
		p, err := ingest.LoadPayload(t.Context(), jsonPath)
		require.NoError(t, err)
		require.Len(t, p.Materials, 1)
		assert.Equal(t, "Steel", p.Materials[0].Name)
	})

	t.Run("yaml", func(t *testing.T) {
		p, err := ingest.LoadPayload(t.Context(), yamlPath)
		require.NoError(t, err)
		require.Len(t, p.Materials, 1)
		assert.InDelta(t, 60.0, *p.Materials[0].RecycledContent, 1e-9)
		require.Len(t, p.Transport, 1)
		assert.True(t, *p.Transport[0].IsElectric)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ingest.LoadPayload(t.Context(), filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("bad yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yml")
		require.NoError(t, os.WriteFile(bad, []byte("materials: [unclosed"), 0o600))
		_, err := ingest.LoadPayload(t.Context(), bad)
		require.Error(t, err)
		assert.Equal(t, apperr.KindMalformedRequest, apperr.KindOf(err))
	})
}
