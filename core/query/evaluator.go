package query

import (
	"slices"
)

// Comparator orders two records: negative when a sorts first, positive when b
// does, zero for ties.
type Comparator[T any] func(a, b T) int

// Filter returns the records satisfying every predicate, in input order. The
// result is always a fresh slice; records is never modified. Nil predicates
// are ignored.
func Filter[T any](records []T, predicates []Predicate[T]) []T {
	active := make([]Predicate[T], 0, len(predicates))
	for _, p := range predicates {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		if matchAll(record, active) {
			out = append(out, record)
		}
	}
	return out
}

// Evaluate filters records and, when compare is non-nil, applies a stable
// sort: records the comparator considers equal keep their input order.
func Evaluate[T any](records []T, predicates []Predicate[T], compare Comparator[T]) []T {
	out := Filter(records, predicates)
	if compare != nil {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// By orders records by the value of accessor using CompareValues.
func By[T any](accessor Accessor[T], direction SortDirection) Comparator[T] {
	return func(a, b T) int {
		c := CompareValues(accessor(a), accessor(b))
		if direction == SortDirectionDesc {
			return -c
		}
		return c
	}
}

// Chain combines comparators; the first non-zero result wins. It returns nil
// when no comparator is given, so an empty chain keeps input order.
func Chain[T any](comparators ...Comparator[T]) Comparator[T] {
	active := make([]Comparator[T], 0, len(comparators))
	for _, c := range comparators {
		if c != nil {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(a, b T) int {
		for _, c := range active {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}
