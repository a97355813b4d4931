package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoscore/internal/analysis"
	"github.com/rshade/ecoscore/internal/ingest"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }
func s(v string) *string   { return &v }

func TestAnalyzeMaterials_Empty(t *testing.T) {
	got := analysis.AnalyzeMaterials(nil)
	assert.Zero(t, got.Count)
	assert.Zero(t, got.AverageEmbodiedCarbon)
	assert.Zero(t, got.SustainablePercentage)
	assert.Zero(t, got.DataCompleteness)
	assert.NotNil(t, got.ByType)
	assert.NotNil(t, got.HighCarbonMaterials)
}

func TestAnalyzeMaterials(t *testing.T) {
	items := []ingest.Material{
		{Name: "Concrete", Type: s("aggregate"), Quantity: f(100), EmbodiedCarbon: f(0.5), RecycledContent: f(60)},
		{Name: "Steel", Type: s("metal"), Quantity: f(10), EmbodiedCarbon: f(1.5), LocallySourced: b(false)},
		{Name: "Timber", Quantity: f(20), LocallySourced: b(true), Recyclable: b(true)},
		{Name: "Glass"},
	}

	got := analysis.AnalyzeMaterials(items)

	assert.Equal(t, 4, got.Count)
	assert.InDelta(t, 130.0, got.TotalQuantity, 1e-9)
	assert.InDelta(t, 100*0.5+10*1.5, got.TotalEmbodiedCarbon, 1e-9)
	assert.InDelta(t, 1.0, got.AverageEmbodiedCarbon, 1e-9, "average over items with data")
	assert.InDelta(t, 60.0, got.AverageRecycledContent, 1e-9)
	assert.InDelta(t, 25.0, got.HighRecycledContentPercentage, 1e-9)
	assert.InDelta(t, 25.0, got.LocallySourcedPercentage, 1e-9)
	assert.InDelta(t, 50.0, got.SustainablePercentage, 1e-9)
	assert.InDelta(t, 0.5, got.SustainableFraction, 1e-9)
	assert.Equal(t, []string{"Steel"}, got.HighCarbonMaterials)
	assert.Equal(t, []string{"Timber", "Glass"}, got.MissingCarbonData)
	assert.Equal(t, map[string]int{"aggregate": 1, "metal": 1, analysis.UnspecifiedGroup: 2}, got.ByType)

	// Per item: 0.2+0.2+0.2+0.1+0.1 = 0.8; 0.2+0.2+0.2+0.1+0.1 = 0.8;
	// 0.2+0.2+0.1 = 0.5; 0.2.
	assert.InDelta(t, (0.8+0.8+0.5+0.2)/4, got.DataCompleteness, 1e-9)
}

func TestAnalyzeMaterials_FullCompleteness(t *testing.T) {
	got := analysis.AnalyzeMaterials([]ingest.Material{{
		Name: "Brick", Type: s("masonry"), Quantity: f(1), Unit: s("t"),
		EmbodiedCarbon: f(0.2), RecycledContent: f(10), LocallySourced: b(true), Supplier: s("Acme"),
	}})
	assert.InDelta(t, 1.0, got.DataCompleteness, 1e-9)
}

func TestIsSustainableMaterial(t *testing.T) {
	tests := []struct {
		name string
		in   ingest.Material
		want bool
	}{
		{"nothing", ingest.Material{Name: "a"}, false},
		{"exactly fifty", ingest.Material{Name: "a", RecycledContent: f(50)}, false},
		{"above fifty", ingest.Material{Name: "a", RecycledContent: f(51)}, true},
		{"local", ingest.Material{Name: "a", LocallySourced: b(true)}, true},
		{"not local", ingest.Material{Name: "a", LocallySourced: b(false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.IsSustainableMaterial(tt.in))
		})
	}
}

func TestAnalyzeTransport(t *testing.T) {
	items := []ingest.Transport{
		{Type: "truck", Distance: f(600), FuelType: s("diesel"), EmissionsFactor: f(0.9)},
		{Type: "rail", Distance: f(400), IsElectric: b(true), EmissionsFactor: f(0.1)},
		{Type: "van", CarbonFootprint: f(12)},
		{Type: "truck", Distance: f(100)},
	}

	got := analysis.AnalyzeTransport(items)

	assert.Equal(t, 4, got.Count)
	assert.InDelta(t, 1100.0, got.TotalDistance, 1e-9)
	assert.InDelta(t, 600*0.9+400*0.1, got.TotalEmissions, 1e-9)
	assert.InDelta(t, 0.5, got.AverageEmissionsFactor, 1e-9)
	assert.InDelta(t, 25.0, got.ElectricPercentage, 1e-9)
	assert.InDelta(t, 50.0, got.SustainablePercentage, 1e-9)
	assert.Equal(t, []string{"truck"}, got.HighImpactTransport)
	assert.InDelta(t, 700.0, got.DistanceByType["truck"], 1e-9)
	assert.Equal(t, 1, got.ByFuelType["diesel"])
	assert.Equal(t, 3, got.ByFuelType[analysis.UnspecifiedGroup])
}

func TestAnalyzeTransport_Empty(t *testing.T) {
	got := analysis.AnalyzeTransport([]ingest.Transport{})
	assert.Zero(t, got.SustainableFraction)
	assert.Zero(t, got.AverageEmissionsFactor)
	assert.Empty(t, got.HighImpactTransport)
}

func TestAnalyzeEnergy(t *testing.T) {
	items := []ingest.Energy{
		{Source: "Solar PV", Consumption: f(1000), CarbonIntensity: f(0.05), Efficiency: f(90)},
		{Source: "Grid", Consumption: f(5000), CarbonIntensity: f(0.4), Renewable: b(false), Efficiency: f(0.6)},
		{Source: "Diesel generator", Consumption: f(200)},
		{Source: "Green tariff", Renewable: b(true), Cost: f(300)},
	}

	got := analysis.AnalyzeEnergy(items)

	assert.InDelta(t, 6200.0, got.TotalConsumption, 1e-9)
	assert.InDelta(t, 300.0, got.TotalCost, 1e-9)
	assert.InDelta(t, 1000*0.05+5000*0.4, got.TotalEmissions, 1e-9)
	assert.InDelta(t, 0.225, got.AverageCarbonIntensity, 1e-9)
	assert.InDelta(t, 0.75, got.AverageEfficiency, 1e-9)
	assert.InDelta(t, 25.0, got.RenewablePercentage, 1e-9)
	assert.InDelta(t, 50.0, got.SustainablePercentage, 1e-9)
	assert.Equal(t, []string{"Grid"}, got.HighConsumptionSources)
	assert.Equal(t, []string{"Diesel generator"}, got.FossilSources)
}

func TestRenewableAndFossilKeywords(t *testing.T) {
	for _, src := range []string{"solar", "Offshore WIND", "hydro", "geothermal", "biomass", "tidal", "wave", "renewable mix", "biogas"} {
		assert.True(t, analysis.IsRenewableSource(src), src)
	}
	for _, src := range []string{"coal", "heating oil", "diesel", "Natural Gas"} {
		assert.True(t, analysis.IsFossilSource(src), src)
		assert.False(t, analysis.IsRenewableSource(src), src)
	}
}

func TestNormalizeEfficiency(t *testing.T) {
	assert.InDelta(t, 0.85, analysis.NormalizeEfficiency(0.85), 1e-9)
	assert.InDelta(t, 0.85, analysis.NormalizeEfficiency(85), 1e-9)
	assert.InDelta(t, 1.0, analysis.NormalizeEfficiency(1), 1e-9)
	assert.InDelta(t, 0.0, analysis.NormalizeEfficiency(-3), 1e-9)
	assert.InDelta(t, 1.0, analysis.NormalizeEfficiency(250), 1e-9)
}

func TestPercentagesStayInRange(t *testing.T) {
	materials := []ingest.Material{{Name: "odd", RecycledContent: f(400), EmbodiedCarbon: f(-2)}}
	m := analysis.AnalyzeMaterials(materials)
	require.LessOrEqual(t, m.AverageRecycledContent, 100.0)
	for _, v := range []float64{m.SustainablePercentage, m.LocallySourcedPercentage, m.RecyclablePercentage} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.GreaterOrEqual(t, m.DataCompleteness, 0.0)
	assert.LessOrEqual(t, m.DataCompleteness, 1.0)
}
