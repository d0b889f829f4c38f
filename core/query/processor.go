package query

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/minhloc/listquery/core/schema"
	"go.uber.org/zap"
)

// PredicateFunction is a custom filter operator. It reports whether doc
// passes the condition on field with the given argument. It must be pure.
type PredicateFunction func(doc schema.Document, field string, args FilterValue) bool

// Processor turns QueryDSL values into engine specifications and runs them
// over document collections. Custom operators are registered up front.
type Processor struct {
	filterFunctions map[ComparisonOperator]PredicateFunction
	mu              sync.RWMutex
	engine          *Engine[schema.Document]
	logger          *zap.Logger
}

// NewProcessor creates a new Processor instance. A nil logger disables logging.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		filterFunctions: make(map[ComparisonOperator]PredicateFunction),
		engine:          NewEngine[schema.Document](logger),
		logger:          logger,
	}
}

// RegisterFilterFunction registers a Go function for a custom operator.
// Standard operators cannot be overridden.
func (p *Processor) RegisterFilterFunction(operator ComparisonOperator, fn PredicateFunction) error {
	if operator.IsStandard() {
		return fmt.Errorf("cannot override standard operator %q", operator)
	}
	if fn == nil {
		return fmt.Errorf("filter function for operator %q is nil", operator)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filterFunctions[operator] = fn
	p.logger.Info("Registered filter function", zap.String("operator", string(operator)))
	return nil
}

// RegisterFilterFunctions registers multiple filter functions from a map.
func (p *Processor) RegisterFilterFunctions(functionMap map[ComparisonOperator]PredicateFunction) error {
	for operator, fn := range functionMap {
		if err := p.RegisterFilterFunction(operator, fn); err != nil {
			return err
		}
	}
	return nil
}

// Compile validates dsl and translates it into a Spec. When sc is non-nil,
// filter and sort fields must exist in it and the search falls back to its
// searchable fields. A page size below one is reported as a *UsageError.
func (p *Processor) Compile(dsl QueryDSL, sc *schema.SchemaDefinition) (Spec[schema.Document], error) {
	spec := Spec[schema.Document]{Page: 1, PageSize: DefaultPageSize}
	if dsl.Pagination != nil {
		if err := checkPageSize(dsl.Pagination.PageSize); err != nil {
			return spec, err
		}
		spec.Page = dsl.Pagination.Page
		spec.PageSize = dsl.Pagination.PageSize
	}

	if err := ValidateDSL(dsl).Err(); err != nil {
		return spec, err
	}
	if err := checkFields(dsl, sc); err != nil {
		return spec, err
	}

	if dsl.Search != nil {
		search, err := compileSearch(dsl.Search, sc)
		if err != nil {
			return spec, err
		}
		if search != nil {
			spec.Predicates = append(spec.Predicates, search)
		}
	}

	if dsl.Filters != nil {
		p.mu.RLock()
		pred, err := p.compileFilter(dsl.Filters, "filters")
		p.mu.RUnlock()
		if err != nil {
			return spec, err
		}
		spec.Predicates = append(spec.Predicates, pred)
	}

	comparators := make([]Comparator[schema.Document], 0, len(dsl.Sort))
	for _, s := range dsl.Sort {
		comparators = append(comparators, By(Field(s.Field), s.Direction))
	}
	spec.Compare = Chain(comparators...)

	if len(dsl.Aggregations) > 0 {
		aggs := dsl.Aggregations
		spec.Summarize = func(matched []schema.Document) map[string]any {
			return Aggregate(matched, aggs)
		}
	}
	return spec, nil
}

// Execute compiles dsl and runs it over records.
func (p *Processor) Execute(records []schema.Document, dsl QueryDSL, sc *schema.SchemaDefinition) (*ResultPage[schema.Document], error) {
	spec, err := p.Compile(dsl, sc)
	if err != nil {
		return nil, err
	}
	return p.engine.Run(records, spec)
}

// Match reports whether a single document satisfies filter. A nil filter
// matches every document.
func (p *Processor) Match(filter *QueryFilter, doc schema.Document) (bool, error) {
	if filter == nil {
		return true, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	pred, err := p.compileFilter(filter, "filters")
	if err != nil {
		return false, err
	}
	return pred.Match(doc), nil
}

func checkFields(dsl QueryDSL, sc *schema.SchemaDefinition) error {
	if sc == nil {
		return nil
	}
	for _, field := range dsl.Filters.Fields() {
		if sc.FindField(field) == nil {
			return QueryValidationError{Field: field, Message: fmt.Sprintf("unknown field in collection %q", sc.Name)}
		}
	}
	for _, s := range dsl.Sort {
		if sc.FindField(s.Field) == nil {
			return QueryValidationError{Field: s.Field, Message: fmt.Sprintf("cannot sort by unknown field in collection %q", sc.Name)}
		}
	}
	if dsl.Search != nil {
		for _, field := range dsl.Search.Fields {
			if sc.FindField(field) == nil {
				return QueryValidationError{Field: field, Message: fmt.Sprintf("cannot search unknown field in collection %q", sc.Name)}
			}
		}
	}
	return nil
}

func compileSearch(search *SearchOptions, sc *schema.SchemaDefinition) (Predicate[schema.Document], error) {
	fields := search.Fields
	if len(fields) == 0 {
		fields = sc.SearchFields()
	}
	pred := TextContainsAny[schema.Document](search.Term)
	if pred.Needle == "" {
		return nil, nil
	}
	if len(fields) == 0 {
		return nil, QueryValidationError{Field: "search.fields", Message: "no fields to search"}
	}
	for _, f := range fields {
		pred.Accessors = append(pred.Accessors, Field(f))
	}
	return pred, nil
}

func (p *Processor) compileFilter(filter *QueryFilter, path string) (Predicate[schema.Document], error) {
	if filter.Condition != nil {
		return p.compileCondition(filter.Condition, path)
	}
	if filter.Group == nil {
		return nil, QueryValidationError{Field: path, Message: "empty filter"}
	}

	children := make([]Predicate[schema.Document], 0, len(filter.Group.Conditions))
	for i := range filter.Group.Conditions {
		child, err := p.compileFilter(&filter.Group.Conditions[i], fmt.Sprintf("%s.conditions[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	switch filter.Group.Operator {
	case schema.LogicalAnd, "":
		return AllOf(children...), nil
	case schema.LogicalOr:
		return AnyOf(children...), nil
	case schema.LogicalNot:
		return Not[schema.Document](AllOf(children...)), nil
	default:
		return nil, QueryValidationError{Field: path, Message: fmt.Sprintf("unsupported logical operator %q", filter.Group.Operator)}
	}
}

func (p *Processor) compileCondition(c *FilterCondition, path string) (Predicate[schema.Document], error) {
	acc := Field(c.Field)
	invalid := func(format string, args ...any) error {
		return QueryValidationError{Field: c.Field, Message: fmt.Sprintf(format, args...)}
	}

	switch c.Operator {
	case ComparisonOperatorEq:
		if c.Value == nil {
			return nil, invalid("eq requires a value")
		}
		return EqualsOneOf(acc, any(c.Value)), nil
	case ComparisonOperatorNeq:
		if c.Value == nil {
			return nil, invalid("neq requires a value")
		}
		return Not[schema.Document](EqualsOneOf(acc, any(c.Value))), nil
	case ComparisonOperatorIn:
		return EqualsOneOf(acc, valueList(c.Value)...), nil
	case ComparisonOperatorNin:
		values := valueList(c.Value)
		if len(values) == 0 {
			return AllOf[schema.Document](), nil
		}
		return Not[schema.Document](EqualsOneOf(acc, values...)), nil
	case ComparisonOperatorContains:
		needle, ok := c.Value.(string)
		if !ok {
			return nil, invalid("contains requires a string, got %T", c.Value)
		}
		return TextContains(acc, needle), nil
	case ComparisonOperatorLt, ComparisonOperatorLte, ComparisonOperatorGt, ComparisonOperatorGte:
		return compileBound(acc, c.Operator, c.Value, invalid)
	case ComparisonOperatorBetween:
		r, ok := toRange(c.Value)
		if !ok {
			return nil, invalid("between requires a range, got %T", c.Value)
		}
		return rangePredicate(acc, r), nil
	case ComparisonOperatorExists:
		return PredicateFunc[schema.Document](func(doc schema.Document) bool {
			return acc(doc) != nil
		}), nil
	case ComparisonOperatorNotExists:
		return PredicateFunc[schema.Document](func(doc schema.Document) bool {
			return acc(doc) == nil
		}), nil
	}

	fn, ok := p.filterFunctions[c.Operator]
	if !ok {
		return nil, QueryValidationError{Field: path, Message: fmt.Sprintf("unregistered filter function for operator: %s", c.Operator)}
	}
	field, args := c.Field, c.Value
	return PredicateFunc[schema.Document](func(doc schema.Document) bool {
		return fn(doc, field, args)
	}), nil
}

// compileBound handles lt/lte/gt/gte over numbers and timestamps.
func compileBound(acc Accessor[schema.Document], op ComparisonOperator, value FilterValue, invalid func(string, ...any) error) (Predicate[schema.Document], error) {
	if bound, ok := ToFloat64(value); ok {
		lo, hi := math.Inf(-1), math.Inf(1)
		switch op {
		case ComparisonOperatorLt:
			hi = math.Nextafter(bound, math.Inf(-1))
		case ComparisonOperatorLte:
			hi = bound
		case ComparisonOperatorGt:
			lo = math.Nextafter(bound, math.Inf(1))
		case ComparisonOperatorGte:
			lo = bound
		}
		return NumericRange(acc, lo, hi), nil
	}

	bound, ok := toTime(value)
	if !ok {
		return nil, invalid("%s requires a number or an RFC 3339 time, got %v", op, value)
	}
	return PredicateFunc[schema.Document](func(doc schema.Document) bool {
		t, ok := toTime(acc(doc))
		if !ok {
			return false
		}
		c := t.Compare(bound)
		switch op {
		case ComparisonOperatorLt:
			return c < 0
		case ComparisonOperatorLte:
			return c <= 0
		case ComparisonOperatorGt:
			return c > 0
		default:
			return c >= 0
		}
	}), nil
}

func rangePredicate(acc Accessor[schema.Document], r Range) Predicate[schema.Document] {
	lo, hi := math.Inf(-1), math.Inf(1)
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return NumericRange(acc, lo, hi)
}

// toRange accepts Range, *Range, a two-element slice or a {min, max} object
// as decoded from JSON.
func toRange(v FilterValue) (Range, bool) {
	bound := func(x any) (*float64, bool) {
		if x == nil {
			return nil, true
		}
		f, ok := ToFloat64(x)
		if !ok {
			return nil, false
		}
		return &f, true
	}

	switch r := v.(type) {
	case Range:
		return r, true
	case *Range:
		if r == nil {
			return Range{}, false
		}
		return *r, true
	case map[string]any:
		lo, okLo := bound(r["min"])
		hi, okHi := bound(r["max"])
		return Range{Min: lo, Max: hi}, okLo && okHi
	}

	values := valueList(v)
	if len(values) != 2 {
		return Range{}, false
	}
	lo, okLo := bound(values[0])
	hi, okHi := bound(values[1])
	return Range{Min: lo, Max: hi}, okLo && okHi
}

// valueList flattens a slice of any element type into []any. A scalar
// becomes a one-element list and nil an empty one.
func valueList(v FilterValue) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}
