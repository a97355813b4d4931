// Package batch walks large input slices in fixed-size batches.
//
// Batches run one after another on the caller's goroutine. The report
// engine prepares material arrays this way, 50 at a time by default, so
// factor lookups against the catalog are issued in bounded chunks.
package batch
