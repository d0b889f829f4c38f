package query

import (
	"slices"
)

// ResultPage is the bounded output of one query.
type ResultPage[T any] struct {
	Items         []T            `json:"items"`
	TotalMatching int            `json:"totalMatching"`
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	PageCount     int            `json:"pageCount"`
	Aggregations  map[string]any `json:"aggregations,omitempty"`
}

// HasNext reports whether a page follows this one.
func (r *ResultPage[T]) HasNext() bool {
	return r.Page >= 1 && r.Page < r.PageCount
}

// HasPrevious reports whether a page precedes this one.
func (r *ResultPage[T]) HasPrevious() bool {
	return r.Page > 1 && r.PageCount > 0
}

// CountPages returns ceil(total / pageSize), zero for an empty result.
func CountPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Paginate slices one 1-based page out of items. A page outside
// [1, pageCount] yields an empty page, not an error; only pageSize < 1 is
// rejected.
func Paginate[T any](items []T, page, pageSize int) (*ResultPage[T], error) {
	if err := checkPageSize(pageSize); err != nil {
		return nil, err
	}

	total := len(items)
	result := &ResultPage[T]{
		Items:         []T{},
		TotalMatching: total,
		Page:          page,
		PageSize:      pageSize,
		PageCount:     CountPages(total, pageSize),
	}
	if page < 1 || page > result.PageCount {
		return result, nil
	}

	offset := (page - 1) * pageSize
	end := min(offset+pageSize, total)
	result.Items = slices.Clone(items[offset:end])
	return result, nil
}
