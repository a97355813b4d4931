package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/greenops"
)

// Box layout constants for styled output.
const (
	defaultTerminalWidth = 80
	maxBoxWidth          = 88
	minBoxWidth          = 40
	boxPaddingWidth      = 4
)

// boxBorderColor returns the Lip Gloss color used for report box borders.
func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

// boxTitleColor returns the Lip Gloss color used for report titles.
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }

// scoreColor picks green, amber or red for a 0-100 score.
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 70:
		return lipgloss.Color("42")
	case score >= 40:
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("196")
	}
}

// reportSection is a titled group of rendered lines.
type reportSection struct {
	title string
	lines []string
}

// RenderReport writes a human-readable report to w. Terminals get a styled
// bordered box; anything else gets plain text suitable for logs and CI.
func RenderReport(w io.Writer, r *engine.Report) error {
	if r == nil {
		return nil
	}
	sections := reportSections(r)
	if isWriterTerminal(w) {
		return renderStyledReport(w, r, sections)
	}
	return renderPlainReport(w, r, sections)
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTerminalWidth
}

// boxWidth clamps the terminal width to a readable box size.
func boxWidth(termWidth int) int {
	return max(minBoxWidth, min(maxBoxWidth, termWidth-2))
}

func reportSections(r *engine.Report) []reportSection {
	m := r.Metrics

	overview := reportSection{title: "Overview", lines: []string{
		"Report ID: " + r.ReportID,
		"Format: " + string(r.Format),
		fmt.Sprintf("Sustainability score: %s/100", greenops.FormatFloat(m.SustainabilityScore, 1)),
		"Data completeness: " + greenops.FormatPercent(r.DataCompleteness),
		"Summary: " + r.Summary,
	}}

	metrics := reportSection{title: "Metrics", lines: []string{
		"Estimated carbon savings: " + greenops.FormatPercent(m.EstimatedCarbonSavings),
	}}
	optional := []struct {
		label string
		value *float64
	}{
		{"Estimated cost savings", m.EstimatedCostSavings},
		{"Estimated energy reduction", m.EstimatedEnergyReduction},
		{"Estimated water savings", m.EstimatedWaterSavings},
		{"Estimated waste reduction", m.EstimatedWasteReduction},
	}
	for _, o := range optional {
		if o.value != nil {
			metrics.lines = append(metrics.lines, o.label+": "+greenops.FormatPercent(*o.value))
		}
	}
	scores := []struct {
		label string
		value *float64
	}{
		{"Material score", m.MaterialScore},
		{"Transport score", m.TransportScore},
		{"Energy score", m.EnergyScore},
		{"Industry average", m.IndustryAverage},
		{"Best in class", m.BestInClass},
		{"Percentile ranking", m.PercentileRanking},
	}
	for _, s := range scores {
		if s.value != nil {
			metrics.lines = append(metrics.lines, s.label+": "+greenops.FormatFloat(*s.value, 1))
		}
	}
	if len(m.ImprovementAreas) > 0 {
		metrics.lines = append(metrics.lines, "Improvement areas: "+strings.Join(m.ImprovementAreas, ", "))
	}
	if rc := m.RegulatoryCompliance; rc != nil {
		metrics.lines = append(metrics.lines,
			fmt.Sprintf("Regulatory compliance: %s (%s)", rc.Status, strings.Join(rc.Standards, ", ")))
	}

	sections := []reportSection{overview, metrics}

	if r.TotalEmissionsKg != nil {
		emissions := reportSection{title: "Emissions", lines: []string{
			"Total: " + greenops.FormatFloat(*r.TotalEmissionsKg, 2) + " kg CO2e",
		}}
		if r.CarbonEquivalencies != nil {
			emissions.lines = append(emissions.lines, r.CarbonEquivalencies.DisplayText)
		}
		sections = append(sections, emissions)
	}

	if la := r.LifecycleAssessment; la != nil {
		lc := reportSection{title: "Lifecycle", lines: []string{
			"Total carbon footprint: " + greenops.FormatFloat(la.TotalCarbonFootprint, 2),
			"Improvement potential: " + greenops.FormatPercent(la.ImprovementPotential),
		}}
		if len(la.Hotspots) > 0 {
			lc.lines = append(lc.lines, "Hotspots: "+strings.Join(la.Hotspots, ", "))
		}
		sections = append(sections, lc)
	}

	if ce := r.CircularEconomyMetrics; ce != nil {
		circ := reportSection{title: "Circular economy", lines: []string{
			"Material circularity index: " + greenops.FormatFloat(ce.MaterialCircularityIndex, 2),
			"Resource reuse rate: " + greenops.FormatPercent(ce.ResourceReuseRate),
			"Waste recycling rate: " + greenops.FormatPercent(ce.WasteRecyclingRate),
		}}
		for _, rec := range ce.Recommendations {
			circ.lines = append(circ.lines, "- "+rec.Recommendation)
		}
		sections = append(sections, circ)
	}

	if ca := r.LifecycleCostAnalysis; ca != nil {
		sections = append(sections, reportSection{title: "Lifecycle cost", lines: []string{
			"Total lifecycle cost: " + greenops.FormatCurrency(ca.TotalLifecycleCost),
			"Net present value: " + greenops.FormatCurrency(ca.NetPresentValue),
			"Annualized cost: " + greenops.FormatCurrency(ca.AnnualizedCost),
			fmt.Sprintf("Lifespan: %d years", ca.Lifespan),
		}})
	}

	if len(r.Suggestions) > 0 {
		sug := reportSection{title: "Suggestions"}
		for i, s := range r.Suggestions {
			sug.lines = append(sug.lines, fmt.Sprintf("%d. %s", i+1, s))
		}
		sections = append(sections, sug)
	}

	return sections
}

// renderStyledReport writes the sections inside a rounded Lip Gloss box.
func renderStyledReport(w io.Writer, r *engine.Report, sections []reportSection) error {
	width := boxWidth(terminalWidth(w))

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	headingStyle := lipgloss.NewStyle().Bold(true)
	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(r.Metrics.SustainabilityScore))
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(width)

	var content strings.Builder
	content.WriteString(titleStyle.Render("SUSTAINABILITY REPORT"))
	content.WriteString("  ")
	content.WriteString(scoreStyle.Render(greenops.FormatFloat(r.Metrics.SustainabilityScore, 1) + "/100"))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", width-boxPaddingWidth))

	for _, sec := range sections {
		content.WriteString("\n\n")
		content.WriteString(headingStyle.Render(sec.title))
		for _, line := range sec.lines {
			content.WriteString("\n")
			content.WriteString(line)
		}
	}

	_, err := fmt.Fprintln(w, borderStyle.Render(content.String()))
	return err
}

// renderPlainReport writes the sections as plain text.
func renderPlainReport(w io.Writer, _ *engine.Report, sections []reportSection) error {
	var b strings.Builder
	b.WriteString("SUSTAINABILITY REPORT\n")
	b.WriteString("=====================\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sec.title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(sec.title)))
		b.WriteString("\n")
		for _, line := range sec.lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
