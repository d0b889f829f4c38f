package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/minhloc/listquery/core/schema"
)

// QueryBuilder provides a fluent and intuitive API for building QueryDSL
// structures. Successive Where calls are combined with AND.
type QueryBuilder struct {
	query      QueryDSL
	conditions []QueryFilter
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		query: QueryDSL{},
	}
}

// Build returns the constructed QueryDSL object.
func (qb *QueryBuilder) Build() QueryDSL {
	out := qb.query
	switch len(qb.conditions) {
	case 0:
		out.Filters = nil
	case 1:
		f := qb.conditions[0]
		out.Filters = &f
	default:
		out.Filters = &QueryFilter{Group: &FilterGroup{
			Operator:   LogicalOperatorAnd,
			Conditions: slices.Clone(qb.conditions),
		}}
	}
	return out
}

// Clone creates a copy of the current query builder, so new queries can be
// derived from an existing one without modifying the original.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	clone := &QueryBuilder{
		query:      qb.query,
		conditions: slices.Clone(qb.conditions),
	}
	clone.query.Sort = slices.Clone(qb.query.Sort)
	clone.query.Aggregations = slices.Clone(qb.query.Aggregations)
	if qb.query.Pagination != nil {
		p := *qb.query.Pagination
		clone.query.Pagination = &p
	}
	if qb.query.Search != nil {
		s := *qb.query.Search
		s.Fields = slices.Clone(s.Fields)
		clone.query.Search = &s
	}
	return clone
}

// Reset clears all configurations from the query builder, returning it to its initial state.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.query = QueryDSL{}
	qb.conditions = nil
	return qb
}

// Where begins the construction of a filter condition for a specific field.
func (qb *QueryBuilder) Where(field string) *FilterConditionBuilder {
	return &FilterConditionBuilder{parent: qb, field: field}
}

// WhereGroup begins the construction of a group of filter conditions, combined
// with a logical operator.
func (qb *QueryBuilder) WhereGroup(operator schema.LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{parent: qb, operator: operator}
}

// Filter adds a prebuilt filter to the query.
func (qb *QueryBuilder) Filter(filter QueryFilter) *QueryBuilder {
	qb.conditions = append(qb.conditions, filter)
	return qb
}

// FilterConditionBuilder is used to build a single filter condition (e.g., field = value).
type FilterConditionBuilder struct {
	parent *QueryBuilder
	field  string
}

// Eq adds an equality condition to the query.
func (fcb *FilterConditionBuilder) Eq(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the query.
func (fcb *FilterConditionBuilder) Neq(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the query.
func (fcb *FilterConditionBuilder) Lt(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition to the query.
func (fcb *FilterConditionBuilder) Lte(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition to the query.
func (fcb *FilterConditionBuilder) Gt(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition to the query.
func (fcb *FilterConditionBuilder) Gte(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorGte, value)
}

// In adds an "in" condition, checking if a field's value is within a set of values.
func (fcb *FilterConditionBuilder) In(values ...FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorIn, values)
}

// Nin adds a "not in" condition, checking if a field's value is not within a set of values.
func (fcb *FilterConditionBuilder) Nin(values ...FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNin, values)
}

// Contains adds a case-insensitive substring condition.
func (fcb *FilterConditionBuilder) Contains(value string) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorContains, value)
}

// Between adds an inclusive numeric range condition.
func (fcb *FilterConditionBuilder) Between(min, max float64) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorBetween, Range{Min: &min, Max: &max})
}

// InRange adds a numeric range condition whose bounds may be unset.
func (fcb *FilterConditionBuilder) InRange(r Range) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorBetween, r)
}

// Exists adds a condition to check if a field exists and is not null.
func (fcb *FilterConditionBuilder) Exists() *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorExists, true)
}

// NotExists adds a condition to check if a field does not exist or is null.
func (fcb *FilterConditionBuilder) NotExists() *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNotExists, true)
}

// Custom allows for the use of a custom comparison operator.
func (fcb *FilterConditionBuilder) Custom(operator ComparisonOperator, value FilterValue) *QueryBuilder {
	return fcb.addCondition(operator, value)
}

func (fcb *FilterConditionBuilder) addCondition(operator ComparisonOperator, value FilterValue) *QueryBuilder {
	return fcb.parent.Filter(CreateSimpleFilter(fcb.field, operator, value))
}

// FilterGroupBuilder is used to build a group of filter conditions.
type FilterGroupBuilder struct {
	parent     *QueryBuilder
	outer      *FilterGroupBuilder
	operator   schema.LogicalOperator
	conditions []QueryFilter
}

// Where adds a new condition to the current filter group.
func (fgb *FilterGroupBuilder) Where(field string) *FilterConditionBuilderInGroup {
	return &FilterConditionBuilderInGroup{group: fgb, field: field}
}

// WhereGroup opens a group nested inside the current one.
func (fgb *FilterGroupBuilder) WhereGroup(operator schema.LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{parent: fgb.parent, outer: fgb, operator: operator}
}

// EndGroup closes a nested group and returns the enclosing one. On a
// top-level group it does nothing.
func (fgb *FilterGroupBuilder) EndGroup() *FilterGroupBuilder {
	if fgb.outer == nil {
		return fgb
	}
	fgb.outer.conditions = append(fgb.outer.conditions, CreateFilterGroup(fgb.operator, fgb.conditions...))
	return fgb.outer
}

// End closes the current group, and any group enclosing it, and returns to
// the main query builder.
func (fgb *FilterGroupBuilder) End() *QueryBuilder {
	if fgb.outer != nil {
		return fgb.EndGroup().End()
	}
	return fgb.parent.Filter(CreateFilterGroup(fgb.operator, fgb.conditions...))
}

// FilterConditionBuilderInGroup is used to build a filter condition within a group.
type FilterConditionBuilderInGroup struct {
	group *FilterGroupBuilder
	field string
}

// Eq adds an equality condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Eq(value FilterValue) *FilterGroupBuilder {
	return b.add(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Neq(value FilterValue) *FilterGroupBuilder {
	return b.add(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Lt(value FilterValue) *FilterGroupBuilder {
	return b.add(ComparisonOperatorLt, value)
}

// Gt adds a greater-than condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Gt(value FilterValue) *FilterGroupBuilder {
	return b.add(ComparisonOperatorGt, value)
}

// In adds an "in" condition to the current filter group.
func (b *FilterConditionBuilderInGroup) In(values ...FilterValue) *FilterGroupBuilder {
	return b.add(ComparisonOperatorIn, values)
}

// Contains adds a contains condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Contains(value string) *FilterGroupBuilder {
	return b.add(ComparisonOperatorContains, value)
}

// Between adds a range condition to the current filter group.
func (b *FilterConditionBuilderInGroup) Between(min, max float64) *FilterGroupBuilder {
	return b.add(ComparisonOperatorBetween, Range{Min: &min, Max: &max})
}

func (b *FilterConditionBuilderInGroup) add(operator ComparisonOperator, value FilterValue) *FilterGroupBuilder {
	b.group.conditions = append(b.group.conditions, CreateSimpleFilter(b.field, operator, value))
	return b.group
}

// Search sets the free-text search term. Without fields the collection's
// searchable fields are used.
func (qb *QueryBuilder) Search(term string, fields ...string) *QueryBuilder {
	qb.query.Search = &SearchOptions{Term: term, Fields: fields}
	return qb
}

// OrderBy adds a sorting configuration to the query.
func (qb *QueryBuilder) OrderBy(field string, direction SortDirection) *QueryBuilder {
	qb.query.Sort = append(qb.query.Sort, SortConfiguration{
		Field:     field,
		Direction: direction,
	})
	return qb
}

// OrderByAsc adds an ascending sort order for a specific field.
func (qb *QueryBuilder) OrderByAsc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionAsc)
}

// OrderByDesc adds a descending sort order for a specific field.
func (qb *QueryBuilder) OrderByDesc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionDesc)
}

// Page sets the 1-based page and the page size.
func (qb *QueryBuilder) Page(page, pageSize int) *QueryBuilder {
	qb.query.Pagination = &PaginationOptions{Page: page, PageSize: pageSize}
	return qb
}

// Aggregate adds an aggregation to the query.
func (qb *QueryBuilder) Aggregate(aggType AggregationType, field string, alias string) *QueryBuilder {
	qb.query.Aggregations = append(qb.query.Aggregations, AggregationConfiguration{
		Type:  aggType,
		Field: field,
		Alias: alias,
	})
	return qb
}

// Count adds a count aggregation to the query.
func (qb *QueryBuilder) Count(alias string) *QueryBuilder {
	return qb.Aggregate(AggregationTypeCount, "", alias)
}

// Sum adds a sum aggregation to the query.
func (qb *QueryBuilder) Sum(field string, alias string) *QueryBuilder {
	return qb.Aggregate(AggregationTypeSum, field, alias)
}

// Avg adds an average aggregation to the query.
func (qb *QueryBuilder) Avg(field string, alias string) *QueryBuilder {
	return qb.Aggregate(AggregationTypeAvg, field, alias)
}

// Min adds a minimum aggregation to the query.
func (qb *QueryBuilder) Min(field string, alias string) *QueryBuilder {
	return qb.Aggregate(AggregationTypeMin, field, alias)
}

// Max adds a maximum aggregation to the query.
func (qb *QueryBuilder) Max(field string, alias string) *QueryBuilder {
	return qb.Aggregate(AggregationTypeMax, field, alias)
}

// Validate checks the built query for errors that would otherwise only
// surface when it runs.
func (qb *QueryBuilder) Validate() QueryValidationResult {
	return ValidateDSL(qb.Build())
}

// ValidateDSL performs the structural checks shared by the builder and the
// processor.
func ValidateDSL(dsl QueryDSL) QueryValidationResult {
	var errors []QueryValidationError

	if dsl.Pagination != nil && dsl.Pagination.PageSize < 1 {
		errors = append(errors, QueryValidationError{
			Field:   "pagination.pageSize",
			Message: ErrInvalidPageSize.Error(),
		})
	}

	for i, sort := range dsl.Sort {
		if sort.Field == "" {
			errors = append(errors, QueryValidationError{
				Field:   fmt.Sprintf("sort[%d].field", i),
				Message: "sort field cannot be empty",
			})
		}
		if sort.Direction != "" && sort.Direction != SortDirectionAsc && sort.Direction != SortDirectionDesc {
			errors = append(errors, QueryValidationError{
				Field:   fmt.Sprintf("sort[%d].direction", i),
				Message: fmt.Sprintf("unsupported sort direction %q", sort.Direction),
			})
		}
	}

	for i, agg := range dsl.Aggregations {
		if agg.Field == "" && agg.Type != AggregationTypeCount {
			errors = append(errors, QueryValidationError{
				Field:   fmt.Sprintf("aggregations[%d].field", i),
				Message: "field is required for non-count aggregations",
			})
		}
		if agg.Alias == "" {
			errors = append(errors, QueryValidationError{
				Field:   fmt.Sprintf("aggregations[%d].alias", i),
				Message: "alias is required for aggregations",
			})
		}
	}

	for _, field := range dsl.Filters.Fields() {
		if field == "" {
			errors = append(errors, QueryValidationError{
				Field:   "filters",
				Message: "filter field cannot be empty",
			})
		}
	}

	return QueryValidationResult{
		IsValid: len(errors) == 0,
		Errors:  errors,
	}
}

// String returns a human-readable representation of the built query.
func (qb *QueryBuilder) String() string {
	q := qb.Build()
	var parts []string

	if q.Filters != nil {
		parts = append(parts, fmt.Sprintf("FILTERS: %s", strings.Join(q.Filters.Fields(), ", ")))
	}

	if q.Search != nil && strings.TrimSpace(q.Search.Term) != "" {
		parts = append(parts, fmt.Sprintf("SEARCH: %q", q.Search.Term))
	}

	if len(q.Sort) > 0 {
		sortFields := make([]string, len(q.Sort))
		for i, sort := range q.Sort {
			sortFields[i] = fmt.Sprintf("%s %s", sort.Field, sort.Direction)
		}
		parts = append(parts, fmt.Sprintf("ORDER BY: %s", strings.Join(sortFields, ", ")))
	}

	if q.Pagination != nil {
		parts = append(parts, fmt.Sprintf("PAGE: %d SIZE: %d", q.Pagination.Page, q.Pagination.PageSize))
	}

	if len(q.Aggregations) > 0 {
		parts = append(parts, fmt.Sprintf("AGGREGATIONS: %d", len(q.Aggregations)))
	}

	if len(parts) == 0 {
		return "EMPTY QUERY"
	}

	return strings.Join(parts, " | ")
}

// CreateSimpleFilter is a helper function to create a simple filter condition.
func CreateSimpleFilter(field string, operator ComparisonOperator, value FilterValue) QueryFilter {
	return QueryFilter{
		Condition: &FilterCondition{
			Field:    field,
			Operator: operator,
			Value:    value,
		},
	}
}

// CreateFilterGroup is a helper function to create a filter group.
func CreateFilterGroup(operator schema.LogicalOperator, conditions ...QueryFilter) QueryFilter {
	return QueryFilter{
		Group: &FilterGroup{
			Operator:   operator,
			Conditions: conditions,
		},
	}
}
