// Package analysis computes per-category aggregates for report inputs.
//
// There is one analyzer per input category (materials, transport legs and
// energy sources). Each is a pure function from a slice of items to a
// detailed block of totals, averages, percentages, groupings, hotspots and
// a data completeness score. Missing optional attributes count as "no
// data": they are excluded from averages rather than treated as zero. An
// empty slice yields a zero block, never NaN.
package analysis
