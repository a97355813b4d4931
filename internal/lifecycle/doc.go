// Package lifecycle implements the three lifecycle calculators used by the
// detailed sustainability report:
//   - Assess: a fixed six-stage lifecycle assessment (LCA) with totals,
//     ranked hotspots and carbon-weighted improvement potential
//   - CalculateCircularity: circular-economy indices and threshold-driven
//     recommendations
//   - AnalyzeCost: lifecycle cost (NPV) analysis with a cost breakdown and a
//     finite-difference sensitivity table
//
// All calculators are total over well-formed input: every optional input
// falls back to a documented default and no function returns an error.
package lifecycle
