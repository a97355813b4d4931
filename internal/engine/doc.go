// Package engine assembles sustainability reports.
//
// A report is built in one synchronous pass: materials are prepared in
// batches (filling missing embodied carbon from an optional FactorSource),
// the category analyzers run, the suggestion rule table is evaluated, the
// lifecycle calculators run when requested, and the metrics aggregator and
// report assembler combine the results. Apart from ReportID and Timestamp
// the report is a pure function of its inputs.
package engine
