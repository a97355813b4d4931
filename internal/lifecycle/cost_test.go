package lifecycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ip(v int) *int { return &v }

// geometricPV is the closed form of sum_{t=1..n} base*((1+g)/(1+r))^t.
func geometricPV(base, g, r float64, n int) float64 {
	a := (1 + g) / (1 + r)
	if a == 1 {
		return base * float64(n)
	}
	return base * a * (1 - math.Pow(a, float64(n))) / (1 - a)
}

func TestAnalyzeCost_ReferenceScenario(t *testing.T) {
	in := CostInput{
		Lifespan:              ip(30),
		DiscountRate:          f(0.05),
		InflationRate:         f(0.02),
		InitialCost:           f(1_000_000),
		OperationalCostAnnual: f(50_000),
		MaintenanceCostAnnual: f(25_000),
		EndOfLifeCost:         f(100_000),
	}
	got := AnalyzeCost(in)

	r := 1.05/1.02 - 1
	wantOp := geometricPV(50_000, DefaultEnergyCostEscalation, r, 30)
	wantMaint := geometricPV(25_000, 0.02, r, 30)
	wantEOL := 100_000 / math.Pow(1+r, 30)
	wantTotal := 1_000_000 + wantOp + wantMaint + wantEOL
	growth := math.Pow(1+r, 30)
	wantAnnualized := wantTotal * r * growth / (growth - 1)

	assert.InDelta(t, r, got.RealDiscountRate, 1e-12)
	assert.InDelta(t, wantOp, got.OperationalCost, 1e-6)
	assert.InDelta(t, wantMaint, got.MaintenanceCost, 1e-6)
	assert.InDelta(t, wantEOL, got.EndOfLifeCost, 1e-6)
	assert.InDelta(t, wantTotal, got.TotalLifecycleCost, 1e-6)
	assert.InDelta(t, wantAnnualized, got.AnnualizedCost, 1e-6)
	assert.Equal(t, -got.TotalLifecycleCost, got.NetPresentValue)
	assert.Equal(t, 30, got.Lifespan)
}

func TestAnalyzeCost_ComponentsSumToTotal(t *testing.T) {
	for _, in := range []CostInput{
		{},
		{Lifespan: ip(1)},
		{DiscountRate: f(0.02), InflationRate: f(0.02)},
		{InitialCost: f(0), OperationalCostAnnual: f(1), Lifespan: ip(80)},
	} {
		got := AnalyzeCost(in)
		sum := got.InitialCost + got.OperationalCost + got.MaintenanceCost + got.EndOfLifeCost
		assert.InDelta(t, got.TotalLifecycleCost, sum, 1e-6)

		require.Len(t, got.CostBreakdown, 4)
		var pct float64
		for _, item := range got.CostBreakdown {
			pct += item.Percentage
		}
		assert.InDelta(t, 100.0, pct, 1e-9)
	}
}

func TestAnalyzeCost_ZeroTotal(t *testing.T) {
	zero := f(0)
	got := AnalyzeCost(CostInput{
		InitialCost: zero, OperationalCostAnnual: zero, MaintenanceCostAnnual: zero, EndOfLifeCost: zero,
	})
	assert.Equal(t, 0.0, got.TotalLifecycleCost)
	for _, item := range got.CostBreakdown {
		assert.Equal(t, 0.0, item.Percentage)
	}
	for _, s := range got.SensitivityAnalysis {
		assert.Equal(t, 0.0, s.SensitivityCoefficient)
		assert.Equal(t, "low", s.Sensitivity)
	}
}

func TestAnalyzeCost_LifespanFloor(t *testing.T) {
	got := AnalyzeCost(CostInput{Lifespan: ip(0)})
	assert.Equal(t, 1, got.Lifespan)
	assert.False(t, math.IsNaN(got.AnnualizedCost))
}

func TestAnalyzeCost_LifespanCeiling(t *testing.T) {
	got := AnalyzeCost(CostInput{Lifespan: ip(20_000_000)})
	assert.Equal(t, MaxLifespanYears, got.Lifespan)
	assert.False(t, math.IsInf(got.TotalLifecycleCost, 0))
}

func TestAnalyzeCost_OutOfRangeRatesFallBack(t *testing.T) {
	got := AnalyzeCost(CostInput{DiscountRate: f(-0.99), InflationRate: f(3), EnergyCostEscalation: f(-2), Lifespan: ip(500)})
	want := AnalyzeCost(CostInput{Lifespan: ip(MaxLifespanYears)})
	assert.InDelta(t, want.TotalLifecycleCost, got.TotalLifecycleCost, 1e-6)
	assert.InDelta(t, RealDiscountRate(DefaultDiscountRate, DefaultInflationRate), got.RealDiscountRate, 1e-12)
}

func TestAnalyzeCost_ExtremeRatesStayFinite(t *testing.T) {
	huge := f(1e12)
	for _, in := range []CostInput{
		{DiscountRate: f(MinRate), InflationRate: f(MaxRate), EnergyCostEscalation: f(MaxRate)},
		{DiscountRate: f(MaxRate), InflationRate: f(MinRate), EnergyCostEscalation: f(MinRate)},
	} {
		in.Lifespan = ip(MaxLifespanYears)
		in.InitialCost, in.OperationalCostAnnual, in.MaintenanceCostAnnual, in.EndOfLifeCost = huge, huge, huge, huge
		got := AnalyzeCost(in)

		values := []float64{got.TotalLifecycleCost, got.AnnualizedCost, got.EndOfLifeCost}
		for _, item := range got.CostBreakdown {
			values = append(values, item.Percentage)
		}
		for _, s := range got.SensitivityAnalysis {
			values = append(values, s.PerturbedTotal, s.SensitivityCoefficient)
		}
		for _, v := range values {
			assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "value %v is not finite", v)
		}
	}
}

func TestGrowingAnnuityPV_MatchesYearlySum(t *testing.T) {
	cases := []struct{ base, g, r float64 }{
		{50_000, 0.03, 0.029},
		{25_000, 0.02, 0.02},
		{1, -0.4, 0.8},
	}
	for _, c := range cases {
		var sum float64
		for year := 1; year <= 40; year++ {
			sum += c.base * math.Pow(1+c.g, float64(year)) / math.Pow(1+c.r, float64(year))
		}
		assert.InDelta(t, sum, growingAnnuityPV(c.base, c.g, c.r, 40), 1e-6*math.Max(1, sum))
	}
}

func TestAnnualizedCost(t *testing.T) {
	assert.InDelta(t, 100.0, AnnualizedCost(1000, 0, 10), 1e-9)
	// 1000 at 10% over 1 year is repaid as 1100.
	assert.InDelta(t, 1100.0, AnnualizedCost(1000, 0.1, 1), 1e-9)
}

func TestAnalyzeCost_Sensitivity(t *testing.T) {
	got := AnalyzeCost(CostInput{})
	require.Len(t, got.SensitivityAnalysis, 4)

	byParam := map[string]SensitivityItem{}
	for _, s := range got.SensitivityAnalysis {
		byParam[s.Parameter] = s
		assert.Contains(t, []string{"low", "medium", "high"}, s.Sensitivity)
		assert.InDelta(t, s.PerturbedTotal-got.TotalLifecycleCost, s.ImpactOnTotal, 1e-6)
	}

	// A higher discount rate lowers the present value of future costs.
	assert.Less(t, byParam[ParamDiscountRate].ImpactOnTotal, 0.0)
	// A longer lifespan and costlier operation raise it.
	assert.Greater(t, byParam[ParamLifespan].ImpactOnTotal, 0.0)
	assert.Equal(t, 33.0, byParam[ParamLifespan].PerturbedValue)
	assert.Greater(t, byParam[ParamOperationalCost].ImpactOnTotal, 0.0)
	assert.Greater(t, byParam[ParamEnergyCostEscalation].ImpactOnTotal, 0.0)

	t.Run("zero base uses absolute step", func(t *testing.T) {
		got := AnalyzeCost(CostInput{EnergyCostEscalation: f(0)})
		for _, s := range got.SensitivityAnalysis {
			if s.Parameter == ParamEnergyCostEscalation {
				assert.InDelta(t, 0.01, s.PerturbedValue, 1e-12)
				assert.Greater(t, s.SensitivityCoefficient, 0.0)
			}
		}
	})
}
