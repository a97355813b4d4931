package lifecycle

import "math"

// Lifecycle cost defaults.
const (
	DefaultInitialCost           = 1_000_000.0
	DefaultOperationalCostAnnual = 50_000.0
	DefaultMaintenanceCostAnnual = 25_000.0
	DefaultEndOfLifeCost         = 100_000.0
	DefaultLifespanYears         = 30
	DefaultDiscountRate          = 0.05
	DefaultInflationRate         = 0.02
	DefaultEnergyCostEscalation  = 0.03
)

// Sensitivity perturbation and classification.
const (
	sensitivityStep        = 0.10
	sensitivityZeroStep    = 0.01
	lowSensitivityBelow    = 0.2
	mediumSensitivityBelow = 0.5
	percentMultiplier      = 100.0
	minLifespanYears       = 1
	unitRatioTolerance     = 1e-12
)

// Accepted ranges for cost parameters. Rates are annual fractions.
const (
	MaxLifespanYears = 200
	MinRate          = -0.5
	MaxRate          = 1.0
)

// RateInRange reports whether v is an accepted annual rate.
func RateInRange(v float64) bool {
	return v >= MinRate && v <= MaxRate
}

// Cost categories and sensitivity parameters.
const (
	CostCategoryInitial     = "Initial Cost"
	CostCategoryOperational = "Operational Cost"
	CostCategoryMaintenance = "Maintenance Cost"
	CostCategoryEndOfLife   = "End of Life Cost"

	ParamDiscountRate         = "discountRate"
	ParamLifespan             = "lifespan"
	ParamEnergyCostEscalation = "energyCostEscalation"
	ParamOperationalCost      = "operationalCost"
)

// CostInput holds optional lifecycle cost parameters.
type CostInput struct {
	InitialCost           *float64 `json:"initialCost,omitempty"           yaml:"initialCost,omitempty"`
	OperationalCostAnnual *float64 `json:"operationalCostAnnual,omitempty" yaml:"operationalCostAnnual,omitempty"`
	MaintenanceCostAnnual *float64 `json:"maintenanceCostAnnual,omitempty" yaml:"maintenanceCostAnnual,omitempty"`
	EndOfLifeCost         *float64 `json:"endOfLifeCost,omitempty"         yaml:"endOfLifeCost,omitempty"`
	Lifespan              *int     `json:"lifespan,omitempty"              yaml:"lifespan,omitempty"`
	DiscountRate          *float64 `json:"discountRate,omitempty"          yaml:"discountRate,omitempty"`
	InflationRate         *float64 `json:"inflationRate,omitempty"         yaml:"inflationRate,omitempty"`
	EnergyCostEscalation  *float64 `json:"energyCostEscalation,omitempty"  yaml:"energyCostEscalation,omitempty"`
}

// CostBreakdownItem is one category's share of the lifecycle cost.
type CostBreakdownItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// SensitivityItem reports how the total responds to one parameter.
type SensitivityItem struct {
	Parameter              string  `json:"parameter"`
	BaseValue              float64 `json:"baseValue"`
	PerturbedValue         float64 `json:"perturbedValue"`
	PerturbedTotal         float64 `json:"perturbedTotal"`
	ImpactOnTotal          float64 `json:"impactOnTotal"`
	SensitivityCoefficient float64 `json:"sensitivityCoefficient"`
	Sensitivity            string  `json:"sensitivity"`
}

// CostAnalysis is the lifecycle cost result; all amounts are present values.
type CostAnalysis struct {
	InitialCost         float64             `json:"initialCost"`
	OperationalCost     float64             `json:"operationalCost"`
	MaintenanceCost     float64             `json:"maintenanceCost"`
	EndOfLifeCost       float64             `json:"endOfLifeCost"`
	TotalLifecycleCost  float64             `json:"totalLifecycleCost"`
	NetPresentValue     float64             `json:"netPresentValue"`
	AnnualizedCost      float64             `json:"annualizedCost"`
	RealDiscountRate    float64             `json:"realDiscountRate"`
	Lifespan            int                 `json:"lifespan"`
	CostBreakdown       []CostBreakdownItem `json:"costBreakdown"`
	SensitivityAnalysis []SensitivityItem   `json:"sensitivityAnalysis"`
}

// costParams is CostInput with defaults applied.
type costParams struct {
	initial, operational, maintenance, endOfLife float64
	lifespan                                     int
	discount, inflation, escalation              float64
}

func resolveCostParams(in CostInput) costParams {
	p := costParams{
		initial:     nonNegative(valueOr(in.InitialCost, DefaultInitialCost)),
		operational: nonNegative(valueOr(in.OperationalCostAnnual, DefaultOperationalCostAnnual)),
		maintenance: nonNegative(valueOr(in.MaintenanceCostAnnual, DefaultMaintenanceCostAnnual)),
		endOfLife:   nonNegative(valueOr(in.EndOfLifeCost, DefaultEndOfLifeCost)),
		lifespan:    DefaultLifespanYears,
		discount:    valueOr(in.DiscountRate, DefaultDiscountRate),
		inflation:   valueOr(in.InflationRate, DefaultInflationRate),
		escalation:  valueOr(in.EnergyCostEscalation, DefaultEnergyCostEscalation),
	}
	if in.Lifespan != nil {
		p.lifespan = *in.Lifespan
	}
	p.lifespan = min(max(p.lifespan, minLifespanYears), MaxLifespanYears)
	// Out-of-range rates overflow the discount factors.
	if !RateInRange(p.inflation) {
		p.inflation = DefaultInflationRate
	}
	if !RateInRange(p.discount) {
		p.discount = DefaultDiscountRate
	}
	if !RateInRange(p.escalation) {
		p.escalation = DefaultEnergyCostEscalation
	}
	return p
}

// RealDiscountRate returns (1+discount)/(1+inflation) - 1.
func RealDiscountRate(discount, inflation float64) float64 {
	return (1+discount)/(1+inflation) - 1
}

type presentValues struct {
	operational, maintenance, endOfLife, total float64
	realRate                                   float64
}

// growingAnnuityPV returns sum_{t=1..n} base*((1+g)/(1+r))^t in closed form.
func growingAnnuityPV(base, g, r float64, n int) float64 {
	a := (1 + g) / (1 + r)
	if math.Abs(1-a) < unitRatioTolerance {
		return base * float64(n)
	}
	return base * a * (1 - math.Pow(a, float64(n))) / (1 - a)
}

// presentValuesOf discounts the annual cash flows over the lifespan. It does
// not call the sensitivity code, so perturbed runs stay flat.
func presentValuesOf(p costParams) presentValues {
	r := RealDiscountRate(p.discount, p.inflation)
	pv := presentValues{realRate: r}

	pv.operational = growingAnnuityPV(p.operational, p.escalation, r, p.lifespan)
	pv.maintenance = growingAnnuityPV(p.maintenance, p.inflation, r, p.lifespan)
	pv.endOfLife = p.endOfLife / math.Pow(1+r, float64(p.lifespan))
	pv.total = p.initial + pv.operational + pv.maintenance + pv.endOfLife
	return pv
}

// AnnualizedCost spreads total over n years at rate r using the capital
// recovery factor r(1+r)^n / ((1+r)^n - 1).
func AnnualizedCost(total, r float64, n int) float64 {
	if n < minLifespanYears {
		n = minLifespanYears
	}
	if r == 0 {
		return total / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	denominator := growth - 1
	if denominator == 0 {
		return total / float64(n)
	}
	return total * (r * growth) / denominator
}

// AnalyzeCost computes the lifecycle cost analysis for in.
func AnalyzeCost(in CostInput) CostAnalysis {
	p := resolveCostParams(in)
	pv := presentValuesOf(p)

	a := CostAnalysis{
		InitialCost:        p.initial,
		OperationalCost:    pv.operational,
		MaintenanceCost:    pv.maintenance,
		EndOfLifeCost:      pv.endOfLife,
		TotalLifecycleCost: pv.total,
		NetPresentValue:    -pv.total,
		AnnualizedCost:     AnnualizedCost(pv.total, pv.realRate, p.lifespan),
		RealDiscountRate:   pv.realRate,
		Lifespan:           p.lifespan,
	}
	a.CostBreakdown = breakdown(a)
	a.SensitivityAnalysis = sensitivity(p, pv.total)
	return a
}

func breakdown(a CostAnalysis) []CostBreakdownItem {
	items := []CostBreakdownItem{
		{Category: CostCategoryInitial, Amount: a.InitialCost},
		{Category: CostCategoryOperational, Amount: a.OperationalCost},
		{Category: CostCategoryMaintenance, Amount: a.MaintenanceCost},
		{Category: CostCategoryEndOfLife, Amount: a.EndOfLifeCost},
	}
	if a.TotalLifecycleCost <= 0 {
		return items
	}
	for i := range items {
		items[i].Percentage = items[i].Amount / a.TotalLifecycleCost * percentMultiplier
	}
	return items
}

type perturbation struct {
	name  string
	base  float64
	apply func(p *costParams, v float64)
	step  func(base float64) float64
}

func relativeStep(base float64) float64 {
	if base == 0 {
		return sensitivityZeroStep
	}
	return base * (1 + sensitivityStep)
}

func lifespanStep(base float64) float64 {
	return base + math.Max(1, math.Ceil(base*sensitivityStep))
}

// sensitivity perturbs one parameter at a time and reruns presentValuesOf.
func sensitivity(p costParams, baseTotal float64) []SensitivityItem {
	perturbations := []perturbation{
		{ParamDiscountRate, p.discount, func(c *costParams, v float64) { c.discount = v }, relativeStep},
		{ParamLifespan, float64(p.lifespan), func(c *costParams, v float64) { c.lifespan = int(v) }, lifespanStep},
		{ParamEnergyCostEscalation, p.escalation, func(c *costParams, v float64) { c.escalation = v }, relativeStep},
		{ParamOperationalCost, p.operational, func(c *costParams, v float64) { c.operational = v }, relativeStep},
	}

	items := make([]SensitivityItem, 0, len(perturbations))
	for _, pert := range perturbations {
		perturbed := p
		newValue := pert.step(pert.base)
		pert.apply(&perturbed, newValue)
		newTotal := presentValuesOf(perturbed).total

		item := SensitivityItem{
			Parameter:      pert.name,
			BaseValue:      pert.base,
			PerturbedValue: newValue,
			PerturbedTotal: newTotal,
			ImpactOnTotal:  newTotal - baseTotal,
		}
		if baseTotal != 0 {
			relTotal := (newTotal - baseTotal) / baseTotal
			if pert.base != 0 {
				item.SensitivityCoefficient = relTotal / ((newValue - pert.base) / pert.base)
			} else {
				item.SensitivityCoefficient = relTotal
			}
		}
		item.Sensitivity = classifySensitivity(item.SensitivityCoefficient)
		items = append(items, item)
	}
	return items
}

func classifySensitivity(coef float64) string {
	switch abs := math.Abs(coef); {
	case abs < lowSensitivityBelow:
		return "low"
	case abs < mediumSensitivityBelow:
		return "medium"
	default:
		return "high"
	}
}
