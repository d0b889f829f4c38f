package admin

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AllValue is the dropdown value meaning "no filter on this facet".
const AllValue = "all"

// Screen describes one list screen: which collection it shows and which
// controls it offers.
type Screen struct {
	Name            string                   `validate:"required"`
	Title           string                   `validate:"required"`
	Schema          *schema.SchemaDefinition `validate:"required"`
	SearchFields    []string                 `validate:"dive,required"` // empty means every searchable field
	Facets          []string                 `validate:"dive,required"` // dropdown filters, exact match
	Ranges          []string                 `validate:"dive,required"` // numeric min/max filters
	DefaultSort     []query.SortConfiguration
	DefaultPageSize int `validate:"gte=1"`
	// Aggregations are shown above the table and cover every matching
	// record, not only the current page.
	Aggregations []query.AggregationConfiguration
}

// Collection returns the name of the collection the screen lists.
func (s Screen) Collection() string {
	return s.Schema.Name
}

// Validate checks that the screen is complete and that every control refers
// to a field of its schema with the matching capability.
func (s Screen) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("screen %q: %w", s.Name, err)
	}
	check := func(kind, name string, ok func(*schema.FieldDefinition) bool) error {
		f := s.Schema.FindField(name)
		if f == nil {
			return fmt.Errorf("screen %q: %s %s is not a field of %s", s.Name, kind, name, s.Schema.Name)
		}
		if !ok(f) {
			return fmt.Errorf("screen %q: field %s cannot be used as a %s", s.Name, name, kind)
		}
		return nil
	}
	for _, name := range s.SearchFields {
		if err := check("search field", name, func(f *schema.FieldDefinition) bool { return f.Searchable }); err != nil {
			return err
		}
	}
	for _, name := range s.Facets {
		if err := check("facet", name, func(f *schema.FieldDefinition) bool { return f.Filterable }); err != nil {
			return err
		}
	}
	for _, name := range s.Ranges {
		if err := check("range", name, func(f *schema.FieldDefinition) bool { return f.Filterable && f.Type.IsNumeric() }); err != nil {
			return err
		}
	}
	for _, sort := range s.DefaultSort {
		if err := check("sort", sort.Field, func(f *schema.FieldDefinition) bool { return f.Sortable }); err != nil {
			return err
		}
	}
	return nil
}

// ListRequest is the state of a screen's controls.
type ListRequest struct {
	Search string
	// Facets maps a facet to the selected value. Several values may be
	// separated by commas; "all" and "" select everything.
	Facets    map[string]string
	Ranges    map[string]query.Range
	SortField string // empty keeps the screen's default order
	SortDesc  bool
	Page      int // 1-based; 0 means the first page
	PageSize  int // 0 means the screen default
	// Conditions are extra filters AND-ed with the screen controls. Their
	// fields are checked against the collection schema, not the screen.
	Conditions []query.QueryFilter
}

// Build translates the request into a query. Controls the screen does not
// offer are rejected with a query.QueryValidationError.
func (s Screen) Build(req ListRequest) (query.QueryDSL, error) {
	qb := query.NewQueryBuilder()

	if term := strings.TrimSpace(req.Search); term != "" {
		qb.Search(term, s.SearchFields...)
	}

	for _, name := range sortedKeys(req.Facets) {
		if !slices.Contains(s.Facets, name) {
			return query.QueryDSL{}, query.QueryValidationError{Field: name, Message: fmt.Sprintf("screen %s has no %s filter", s.Name, name)}
		}
		values, err := s.facetValues(name, req.Facets[name])
		if err != nil {
			return query.QueryDSL{}, err
		}
		switch len(values) {
		case 0:
		case 1:
			qb.Where(name).Eq(values[0])
		default:
			qb.Where(name).In(values...)
		}
	}

	for _, name := range sortedKeys(req.Ranges) {
		if !slices.Contains(s.Ranges, name) {
			return query.QueryDSL{}, query.QueryValidationError{Field: name, Message: fmt.Sprintf("screen %s has no %s range", s.Name, name)}
		}
		r := req.Ranges[name]
		if r.Min == nil && r.Max == nil {
			continue
		}
		qb.Where(name).InRange(r)
	}

	for _, f := range req.Conditions {
		qb.Filter(f)
	}

	if req.SortField != "" {
		f := s.Schema.FindField(req.SortField)
		if f == nil || !f.Sortable {
			return query.QueryDSL{}, query.QueryValidationError{Field: req.SortField, Message: fmt.Sprintf("screen %s cannot sort by %s", s.Name, req.SortField)}
		}
		direction := query.SortDirectionAsc
		if req.SortDesc {
			direction = query.SortDirectionDesc
		}
		qb.OrderBy(req.SortField, direction)
	} else {
		for _, sort := range s.DefaultSort {
			qb.OrderBy(sort.Field, sort.Direction)
		}
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.DefaultPageSize
	}
	if pageSize == 0 {
		pageSize = query.DefaultPageSize
	}
	qb.Page(page, pageSize)

	for _, agg := range s.Aggregations {
		qb.Aggregate(agg.Type, agg.Field, agg.Alias)
	}
	return qb.Build(), nil
}

// facetValues splits raw on commas and converts each value to the field's
// type. The "all" sentinel yields no values.
func (s Screen) facetValues(name, raw string) ([]query.FilterValue, error) {
	var fieldType schema.FieldType
	if f := s.Schema.FindField(name); f != nil {
		fieldType = f.Type
	}

	var values []query.FilterValue
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, AllValue) {
			return nil, nil
		}
		v, err := parseFacetValue(fieldType, part)
		if err != nil {
			return nil, query.QueryValidationError{Field: name, Message: err.Error()}
		}
		values = append(values, v)
	}
	return values, nil
}

func parseFacetValue(t schema.FieldType, raw string) (query.FilterValue, error) {
	switch t {
	case schema.FieldTypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case schema.FieldTypeInteger, schema.FieldTypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	}
	return raw, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
