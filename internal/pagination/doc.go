// Package pagination provides page parsing, slicing and sort helpers shared
// by the HTTP materials listing and the CLI catalog listing.
//
// This package contains:
//   - Params: page/pageSize parsing and validation
//   - Meta: totals and page counts for a paginated response
//   - Sorter: generic field-based sorting with field validation
package pagination
