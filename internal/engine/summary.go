package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/rshade/ecoscore/internal/analysis"
)

// Data completeness blend weights.
const (
	presenceWeight         = 0.3
	presencePerCategory    = 0.3
	allCategoriesBonus     = 0.1
	categoryDetailWeight   = 0.6
	categoriesInProjection = 3
)

// noImprovementAreas stands in for an empty improvement area list.
const noImprovementAreas = "none identified"

// summaryTemplate is the report summary sentence.
const summaryTemplate = "Overall sustainability score: %d/100. " +
	"Estimated carbon savings potential: %d%%. " +
	"Key improvement areas: %s. " +
	"%d high-impact suggestions identified."

// dataCompleteness blends category presence with the analyzers' per-field
// completeness.
func dataCompleteness(
	m analysis.MaterialAnalysis,
	t analysis.TransportAnalysis,
	e analysis.EnergyAnalysis,
) float64 {
	var present int
	var detail float64
	for _, c := range []struct {
		count        int
		completeness float64
	}{
		{m.Count, m.DataCompleteness},
		{t.Count, t.DataCompleteness},
		{e.Count, e.DataCompleteness},
	} {
		if c.count > 0 {
			present++
			detail += c.completeness
		}
	}
	if present == 0 {
		return 0
	}

	presence := presencePerCategory * float64(present)
	if present == categoriesInProjection {
		presence += allCategoriesBonus
	}
	presence = math.Min(1, presence)

	avgDetail := detail / float64(present)
	return clamp(presenceWeight*presence+categoryDetailWeight*avgDetail, 0, 1)
}

// summarize renders the summary sentence.
func summarize(m Metrics, highImpact int) string {
	areas := noImprovementAreas
	if len(m.ImprovementAreas) > 0 {
		areas = strings.Join(m.ImprovementAreas, ", ")
	}
	return fmt.Sprintf(summaryTemplate,
		int(math.Round(m.SustainabilityScore)),
		int(math.Round(m.EstimatedCarbonSavings*maxScore)),
		areas,
		highImpact,
	)
}
