// Package query implements the list-query engine used by every admin list
// screen: composable predicates, a stable evaluator, a paginator and the
// facade that glues them together. It also defines a serializable DSL so
// that UI controls and command-line flags can describe a query as data.
package query

import (
	"github.com/minhloc/listquery/core/schema"
)

// Logical operators for combining filter conditions.
const (
	LogicalOperatorAnd schema.LogicalOperator = "and"
	LogicalOperatorOr  schema.LogicalOperator = "or"
	LogicalOperatorNot schema.LogicalOperator = "not"
)

// ComparisonOperator defines the set of operators that can be used in a filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq        ComparisonOperator = "eq"
	ComparisonOperatorNeq       ComparisonOperator = "neq"
	ComparisonOperatorLt        ComparisonOperator = "lt"
	ComparisonOperatorLte       ComparisonOperator = "lte"
	ComparisonOperatorGt        ComparisonOperator = "gt"
	ComparisonOperatorGte       ComparisonOperator = "gte"
	ComparisonOperatorIn        ComparisonOperator = "in"
	ComparisonOperatorNin       ComparisonOperator = "nin"
	ComparisonOperatorContains  ComparisonOperator = "contains"
	ComparisonOperatorBetween   ComparisonOperator = "between"
	ComparisonOperatorExists    ComparisonOperator = "exists"
	ComparisonOperatorNotExists ComparisonOperator = "nexists"
)

// FilterValue represents the value used in a filter condition.
type FilterValue any

// FilterCondition defines a single condition for filtering the results of a query.
type FilterCondition struct {
	Field    string             `json:"field"`
	Operator ComparisonOperator `json:"operator"`
	Value    FilterValue        `json:"value,omitempty"`
}

// FilterGroup combines multiple filter conditions using a logical operator.
type FilterGroup struct {
	Operator   schema.LogicalOperator `json:"operator"`
	Conditions []QueryFilter          `json:"conditions"`
}

// QueryFilter is a union type that can represent either a single filter condition
// or a group of conditions.
type QueryFilter struct {
	Condition *FilterCondition `json:"condition,omitempty"`
	Group     *FilterGroup     `json:"group,omitempty"`
}

// Range is an inclusive numeric interval; nil bounds are unset.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// SearchOptions is the free-text search box. An empty Fields list searches the
// collection's searchable fields.
type SearchOptions struct {
	Term   string   `json:"term"`
	Fields []string `json:"fields,omitempty"`
}

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortConfiguration defines the sorting order for a specific field.
type SortConfiguration struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// PaginationOptions defines how the query results should be paginated.
type PaginationOptions struct {
	Page     int `json:"page"`     // 1-based
	PageSize int `json:"pageSize"` // must be at least 1
}

// AggregationType specifies the type of aggregation to be performed.
type AggregationType string

// Supported aggregation types.
const (
	AggregationTypeCount AggregationType = "count"
	AggregationTypeSum   AggregationType = "sum"
	AggregationTypeAvg   AggregationType = "avg"
	AggregationTypeMin   AggregationType = "min"
	AggregationTypeMax   AggregationType = "max"
)

// AggregationConfiguration defines an aggregation computed over every
// matching record, not just the returned page.
type AggregationConfiguration struct {
	Type  AggregationType `json:"type"`
	Field string          `json:"field,omitempty"`
	Alias string          `json:"alias"`
}

// QueryDSL is the serializable form of a list query.
type QueryDSL struct {
	Filters      *QueryFilter               `json:"filters,omitempty"`
	Search       *SearchOptions             `json:"search,omitempty"`
	Sort         []SortConfiguration        `json:"sort,omitempty"`
	Pagination   *PaginationOptions         `json:"pagination,omitempty"`
	Aggregations []AggregationConfiguration `json:"aggregations,omitempty"`
}

// DefaultPageSize applies when a query carries no pagination options.
const DefaultPageSize = 10

// standardComparisonOperators is a set of all the standard, built-in comparison operators.
var standardComparisonOperators = map[ComparisonOperator]struct{}{
	ComparisonOperatorEq:        {},
	ComparisonOperatorNeq:       {},
	ComparisonOperatorLt:        {},
	ComparisonOperatorLte:       {},
	ComparisonOperatorGt:        {},
	ComparisonOperatorGte:       {},
	ComparisonOperatorIn:        {},
	ComparisonOperatorNin:       {},
	ComparisonOperatorContains:  {},
	ComparisonOperatorBetween:   {},
	ComparisonOperatorExists:    {},
	ComparisonOperatorNotExists: {},
}

// IsStandard checks if a comparison operator is one of the standard, built-in operators.
func (c ComparisonOperator) IsStandard() bool {
	_, ok := standardComparisonOperators[c]
	return ok
}

// Fields returns every field referenced by the filter tree.
func (f *QueryFilter) Fields() []string {
	if f == nil {
		return nil
	}
	var out []string
	if f.Condition != nil {
		out = append(out, f.Condition.Field)
	}
	if f.Group != nil {
		for i := range f.Group.Conditions {
			out = append(out, f.Group.Conditions[i].Fields()...)
		}
	}
	return out
}
