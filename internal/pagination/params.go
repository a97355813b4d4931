package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults and validation limits.
const (
	DefaultPage     = 1
	MinPage         = 1
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100

	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	DefaultSortOrder = SortOrderAsc
)

// Query parameter names.
const (
	QueryPage     = "page"
	QueryPageSize = "pageSize"
	QuerySort     = "sort"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be an integer >= 1")
	ErrInvalidPageSize   = fmt.Errorf("pageSize must be an integer between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'name:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds 1-based page pagination with an optional sort.
type Params struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of results per page.
	PageSize int

	// SortField is the field to sort by; empty keeps the source order.
	SortField string

	// SortOrder is "asc" or "desc".
	SortOrder string
}

// NewParams returns Params with default values.
func NewParams() Params {
	return Params{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		SortOrder: DefaultSortOrder,
	}
}

// ParseQuery reads page, pageSize and sort from URL query values. Missing
// values take their defaults.
func ParseQuery(q url.Values) (Params, error) {
	p := NewParams()

	if raw := strings.TrimSpace(q.Get(QueryPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("%w: got %q", ErrInvalidPage, raw)
		}
		p.Page = n
	}
	if raw := strings.TrimSpace(q.Get(QueryPageSize)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("%w: got %q", ErrInvalidPageSize, raw)
		}
		p.PageSize = n
	}
	if raw := q.Get(QuerySort); raw != "" {
		field, order, err := ParseSort(raw)
		if err != nil {
			return Params{}, err
		}
		p.SortField, p.SortOrder = field, order
	}

	return p, p.Validate()
}

// Validate checks the page bounds.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.SortOrder != "" && p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// Offset returns the index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// Apply returns the page of items selected by p. A page past the end is
// empty, never an error.
func Apply[T any](items []T, p Params) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+p.PageSize, len(items))
	return items[start:end]
}
