package lifecycle

import (
	"fmt"
	"sort"
)

// Stage names in lifecycle order.
const (
	StageRawMaterialExtraction = "Raw Material Extraction"
	StageManufacturing         = "Manufacturing"
	StageTransportation        = "Transportation"
	StageConstruction          = "Construction"
	StageUsePhase              = "Use Phase"
	StageEndOfLife             = "End of Life"
)

// Hotspot thresholds on the ranked stage footprints.
const (
	CarbonHotspotThreshold       = 0.2
	SecondCarbonHotspotThreshold = 0.15
	WaterHotspotThreshold        = 0.3
	EnergyHotspotThreshold       = 0.3

	// DefaultHotspot is emitted when no threshold is met.
	DefaultHotspot = "Overall lifecycle efficiency"

	maxHotspots = 4
)

// StageFootprint is an optional caller-supplied triple for one stage.
type StageFootprint struct {
	Carbon *float64 `json:"carbon,omitempty" yaml:"carbon,omitempty"`
	Water  *float64 `json:"water,omitempty"  yaml:"water,omitempty"`
	Energy *float64 `json:"energy,omitempty" yaml:"energy,omitempty"`
}

// AssessmentInput holds optional per-stage footprints keyed by stage.
type AssessmentInput struct {
	RawMaterialExtraction *StageFootprint `json:"rawMaterialExtraction,omitempty" yaml:"rawMaterialExtraction,omitempty"`
	Manufacturing         *StageFootprint `json:"manufacturing,omitempty"         yaml:"manufacturing,omitempty"`
	Transportation        *StageFootprint `json:"transportation,omitempty"        yaml:"transportation,omitempty"`
	Construction          *StageFootprint `json:"construction,omitempty"          yaml:"construction,omitempty"`
	UsePhase              *StageFootprint `json:"usePhase,omitempty"              yaml:"usePhase,omitempty"`
	EndOfLife             *StageFootprint `json:"endOfLife,omitempty"             yaml:"endOfLife,omitempty"`
}

// Stage is one computed lifecycle stage.
type Stage struct {
	Name                 string   `json:"name"`
	CarbonFootprint      float64  `json:"carbonFootprint"`
	WaterFootprint       float64  `json:"waterFootprint"`
	EnergyConsumption    float64  `json:"energyConsumption"`
	Hotspots             []string `json:"hotspots"`
	ImprovementPotential float64  `json:"improvementPotential"`
}

// Assessment aggregates the six stages.
type Assessment struct {
	Stages                 []Stage  `json:"stages"`
	TotalCarbonFootprint   float64  `json:"totalCarbonFootprint"`
	TotalWaterFootprint    float64  `json:"totalWaterFootprint"`
	TotalEnergyConsumption float64  `json:"totalEnergyConsumption"`
	Hotspots               []string `json:"hotspots"`
	ImprovementPotential   float64  `json:"improvementPotential"`
}

type stageDefaults struct {
	name                 string
	carbon, water, power float64
	improvement          float64
	hotspots             []string
}

// stageTable lists the fixed stages in lifecycle order with their defaults.
var stageTable = []stageDefaults{ //nolint:gochecknoglobals // Constant lookup table
	{StageRawMaterialExtraction, 0.35, 0.25, 0.20, 0.40, []string{"Virgin material extraction", "Resource depletion"}},
	{StageManufacturing, 0.25, 0.30, 0.35, 0.35, []string{"Process energy", "Cement and steel production"}},
	{StageTransportation, 0.10, 0.05, 0.10, 0.50, []string{"Fossil-fuelled freight", "Long-haul distances"}},
	{StageConstruction, 0.08, 0.10, 0.08, 0.30, []string{"Site equipment fuel", "Construction waste"}},
	{StageUsePhase, 0.15, 0.20, 0.20, 0.45, []string{"Operational energy", "Water consumption"}},
	{StageEndOfLife, 0.07, 0.10, 0.07, 0.60, []string{"Landfill disposal", "Demolition waste"}},
}

func (in AssessmentInput) byIndex(i int) *StageFootprint {
	switch i {
	case 0:
		return in.RawMaterialExtraction
	case 1:
		return in.Manufacturing
	case 2:
		return in.Transportation
	case 3:
		return in.Construction
	case 4:
		return in.UsePhase
	default:
		return in.EndOfLife
	}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Assess builds the six lifecycle stages and derives totals, hotspots and
// the carbon-weighted improvement potential.
func Assess(in AssessmentInput) Assessment {
	stages := make([]Stage, len(stageTable))
	var a Assessment

	for i, def := range stageTable {
		fp := in.byIndex(i)
		if fp == nil {
			fp = &StageFootprint{}
		}
		s := Stage{
			Name:                 def.name,
			CarbonFootprint:      nonNegative(valueOr(fp.Carbon, def.carbon)),
			WaterFootprint:       nonNegative(valueOr(fp.Water, def.water)),
			EnergyConsumption:    nonNegative(valueOr(fp.Energy, def.power)),
			Hotspots:             append([]string(nil), def.hotspots...),
			ImprovementPotential: def.improvement,
		}
		stages[i] = s

		a.TotalCarbonFootprint += s.CarbonFootprint
		a.TotalWaterFootprint += s.WaterFootprint
		a.TotalEnergyConsumption += s.EnergyConsumption
	}

	a.Stages = stages
	a.Hotspots = rankHotspots(stages)
	a.ImprovementPotential = weightedImprovement(stages, a.TotalCarbonFootprint)
	return a
}

// rankHotspots sorts stages descending by each metric and emits labels for
// the threshold-qualifying leaders.
func rankHotspots(stages []Stage) []string {
	byMetric := func(metric func(Stage) float64) []Stage {
		sorted := make([]Stage, len(stages))
		copy(sorted, stages)
		sort.SliceStable(sorted, func(i, j int) bool {
			return metric(sorted[i]) > metric(sorted[j])
		})
		return sorted
	}

	carbon := byMetric(func(s Stage) float64 { return s.CarbonFootprint })
	water := byMetric(func(s Stage) float64 { return s.WaterFootprint })
	energy := byMetric(func(s Stage) float64 { return s.EnergyConsumption })

	var hotspots []string
	if carbon[0].CarbonFootprint > CarbonHotspotThreshold {
		hotspots = append(hotspots, fmt.Sprintf("%s (highest carbon footprint)", carbon[0].Name))
	}
	if carbon[1].CarbonFootprint > SecondCarbonHotspotThreshold {
		hotspots = append(hotspots, fmt.Sprintf("%s (second-highest carbon footprint)", carbon[1].Name))
	}
	if water[0].WaterFootprint > WaterHotspotThreshold {
		hotspots = append(hotspots, fmt.Sprintf("%s (highest water footprint)", water[0].Name))
	}
	if energy[0].EnergyConsumption > EnergyHotspotThreshold {
		hotspots = append(hotspots, fmt.Sprintf("%s (highest energy consumption)", energy[0].Name))
	}

	if len(hotspots) == 0 {
		return []string{DefaultHotspot}
	}
	if len(hotspots) > maxHotspots {
		hotspots = hotspots[:maxHotspots]
	}
	return hotspots
}

func weightedImprovement(stages []Stage, totalCarbon float64) float64 {
	if totalCarbon <= 0 {
		return 0
	}
	var sum float64
	for _, s := range stages {
		sum += s.ImprovementPotential * s.CarbonFootprint
	}
	return sum / totalCarbon
}
