package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
)

// Sorter sorts items of one type by named fields.
type Sorter[T any] struct {
	compare map[string]func(a, b T) int
}

// NewSorter builds a Sorter from field comparators.
func NewSorter[T any](fields map[string]func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{compare: fields}
}

// IsValidField checks if the field is valid for sorting.
func (s *Sorter[T]) IsValidField(field string) bool {
	_, ok := s.compare[field]
	return ok
}

// ValidFields returns all valid sort fields in consistent order.
func (s *Sorter[T]) ValidFields() []string {
	fields := make([]string, 0, len(s.compare))
	for field := range s.compare {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of items. An empty field returns items
// unchanged; an unknown field is an error.
func (s *Sorter[T]) Sort(items []T, field, order string) ([]T, error) {
	if field == "" {
		return items, nil
	}
	cmpFn, ok := s.compare[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrInvalidSortField, field, s.ValidFields())
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if order == SortOrderDesc {
			return cmpFn(b, a)
		}
		return cmpFn(a, b)
	})
	return sorted, nil
}

// By adapts a key extractor into a comparator.
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}
