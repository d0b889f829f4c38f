package query

import (
	"math"
	"reflect"
	"strings"

	"github.com/minhloc/listquery/core/schema"
	"golang.org/x/text/cases"
)

// Accessor extracts one comparable value from a record. Accessors must be
// pure: the same record always yields the same value.
type Accessor[T any] func(record T) any

// Field returns an accessor reading name from a document. Dotted names
// descend into nested objects; a missing field yields nil.
func Field(name string) Accessor[schema.Document] {
	return func(doc schema.Document) any {
		v, _ := lookup(doc, name)
		return v
	}
}

// PredicateKind tags the variant of a Predicate.
type PredicateKind string

// Supported predicate kinds.
const (
	KindTextContains PredicateKind = "text_contains"
	KindEqualsOneOf  PredicateKind = "equals_one_of"
	KindNumericRange PredicateKind = "numeric_range"
	KindAllOf        PredicateKind = "all_of"
	KindAnyOf        PredicateKind = "any_of"
	KindNot          PredicateKind = "not"
	KindCustom       PredicateKind = "custom"
)

// Predicate is a pure boolean test over a record. Match never panics and
// never mutates the record.
type Predicate[T any] interface {
	Kind() PredicateKind
	Match(record T) bool
}

// PredicateFunc adapts an ordinary function into a custom Predicate.
type PredicateFunc[T any] func(record T) bool

// Kind implements Predicate.
func (f PredicateFunc[T]) Kind() PredicateKind { return KindCustom }

// Match implements Predicate.
func (f PredicateFunc[T]) Match(record T) bool { return f(record) }

// fold normalizes s for case-insensitive comparison. A Caser is stateful, so
// a fresh one is used per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// TextContainsPredicate matches records whose text value contains a needle.
type TextContainsPredicate[T any] struct {
	Accessors []Accessor[T]
	Needle    string
	folded    string
}

// TextContains matches when the accessor's value contains needle, ignoring
// case. An empty or whitespace-only needle matches every record.
func TextContains[T any](accessor Accessor[T], needle string) *TextContainsPredicate[T] {
	return TextContainsAny(needle, accessor)
}

// TextContainsAny is TextContains across several fields: a record matches when
// any of the accessors' values contains needle.
func TextContainsAny[T any](needle string, accessors ...Accessor[T]) *TextContainsPredicate[T] {
	trimmed := strings.TrimSpace(needle)
	return &TextContainsPredicate[T]{
		Accessors: accessors,
		Needle:    trimmed,
		folded:    fold(trimmed),
	}
}

// Kind implements Predicate.
func (p *TextContainsPredicate[T]) Kind() PredicateKind { return KindTextContains }

// Match implements Predicate.
func (p *TextContainsPredicate[T]) Match(record T) bool {
	if p.folded == "" {
		return true
	}
	caser := cases.Fold()
	for _, acc := range p.Accessors {
		text, ok := toText(acc(record))
		if !ok {
			continue
		}
		if strings.Contains(caser.String(text), p.folded) {
			return true
		}
	}
	return false
}

// EqualsOneOfPredicate matches records whose value is a member of a set.
type EqualsOneOfPredicate[T any] struct {
	Accessor Accessor[T]
	Values   []any
}

// EqualsOneOf matches when the accessor's value equals one of values. With no
// values the predicate matches every record. Numbers compare by value
// regardless of their Go type; strings never equal numbers.
func EqualsOneOf[T any](accessor Accessor[T], values ...any) *EqualsOneOfPredicate[T] {
	return &EqualsOneOfPredicate[T]{Accessor: accessor, Values: values}
}

// Kind implements Predicate.
func (p *EqualsOneOfPredicate[T]) Kind() PredicateKind { return KindEqualsOneOf }

// Match implements Predicate.
func (p *EqualsOneOfPredicate[T]) Match(record T) bool {
	if len(p.Values) == 0 {
		return true
	}
	v := p.Accessor(record)
	if v == nil {
		return false
	}
	for _, allowed := range p.Values {
		if valuesEqual(v, allowed) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if fa, ok := numberValue(a); ok {
		fb, ok := numberValue(b)
		return ok && fa == fb
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// NumericRangePredicate matches records whose numeric value lies in [Min, Max].
type NumericRangePredicate[T any] struct {
	Accessor Accessor[T]
	Min      float64
	Max      float64
}

// NumericRange matches min <= value <= max. Use math.Inf(-1) and math.Inf(1),
// or AtLeast and AtMost, to leave a bound unset. A missing or non-numeric
// value fails unless both bounds are unset.
func NumericRange[T any](accessor Accessor[T], min, max float64) *NumericRangePredicate[T] {
	if math.IsNaN(min) {
		min = math.Inf(-1)
	}
	if math.IsNaN(max) {
		max = math.Inf(1)
	}
	return &NumericRangePredicate[T]{Accessor: accessor, Min: min, Max: max}
}

// AtLeast is a NumericRange with only a lower bound.
func AtLeast[T any](accessor Accessor[T], min float64) *NumericRangePredicate[T] {
	return NumericRange(accessor, min, math.Inf(1))
}

// AtMost is a NumericRange with only an upper bound.
func AtMost[T any](accessor Accessor[T], max float64) *NumericRangePredicate[T] {
	return NumericRange(accessor, math.Inf(-1), max)
}

// Unbounded reports whether neither bound is set.
func (p *NumericRangePredicate[T]) Unbounded() bool {
	return math.IsInf(p.Min, -1) && math.IsInf(p.Max, 1)
}

// Kind implements Predicate.
func (p *NumericRangePredicate[T]) Kind() PredicateKind { return KindNumericRange }

// Match implements Predicate.
func (p *NumericRangePredicate[T]) Match(record T) bool {
	if p.Unbounded() {
		return true
	}
	v, ok := ToFloat64(p.Accessor(record))
	if !ok || math.IsNaN(v) {
		return false
	}
	return p.Min <= v && v <= p.Max
}

// GroupPredicate combines predicates with a logical operator.
type GroupPredicate[T any] struct {
	kind       PredicateKind
	Predicates []Predicate[T]
}

// AllOf matches when every predicate matches; an empty AllOf matches all.
func AllOf[T any](predicates ...Predicate[T]) *GroupPredicate[T] {
	return &GroupPredicate[T]{kind: KindAllOf, Predicates: dropNil(predicates)}
}

// AnyOf matches when at least one predicate matches; an empty AnyOf matches
// nothing.
func AnyOf[T any](predicates ...Predicate[T]) *GroupPredicate[T] {
	return &GroupPredicate[T]{kind: KindAnyOf, Predicates: dropNil(predicates)}
}

// Not negates predicate. Not(nil) negates an empty AllOf and matches nothing.
func Not[T any](predicate Predicate[T]) *GroupPredicate[T] {
	if predicate == nil {
		predicate = AllOf[T]()
	}
	return &GroupPredicate[T]{kind: KindNot, Predicates: []Predicate[T]{predicate}}
}

func dropNil[T any](predicates []Predicate[T]) []Predicate[T] {
	out := make([]Predicate[T], 0, len(predicates))
	for _, p := range predicates {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Kind implements Predicate.
func (g *GroupPredicate[T]) Kind() PredicateKind { return g.kind }

// Match implements Predicate.
func (g *GroupPredicate[T]) Match(record T) bool {
	switch g.kind {
	case KindAnyOf:
		for _, p := range g.Predicates {
			if p.Match(record) {
				return true
			}
		}
		return false
	case KindNot:
		return !g.Predicates[0].Match(record)
	default:
		return matchAll(record, g.Predicates)
	}
}

func matchAll[T any](record T, predicates []Predicate[T]) bool {
	for _, p := range predicates {
		if !p.Match(record) {
			return false
		}
	}
	return true
}
