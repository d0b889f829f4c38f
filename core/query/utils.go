// Package query provides a set of utility functions to support the predicate
// library, the comparators and the processor. These helpers handle value
// conversion and ordering across the loosely typed values found in records.
package query

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/minhloc/listquery/core/schema"
)

// StringPtr is a helper function that returns a pointer to a string.
func StringPtr(s string) *string {
	return &s
}

// IntPtr is a helper function that returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}

// ToFloat64 is a utility function that converts a value of various numeric types
// to a float64. Numeric strings are parsed. It returns the converted float64 and
// a boolean indicating whether the conversion was successful.
func ToFloat64(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// numberValue converts Go numeric kinds only; strings are never numbers here.
func numberValue(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// toText renders a scalar for text matching. It returns false for nil.
func toText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}

// toTime accepts time.Time values and RFC 3339 strings.
func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		t, err := time.Parse(time.RFC3339, val)
		return t, err == nil
	}
	return time.Time{}, false
}

// lookup resolves a dotted field path inside a document.
func lookup(doc schema.Document, path string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	if v, ok := doc[path]; ok || !strings.Contains(path, ".") {
		return v, ok
	}
	var current any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		var next any
		var ok bool
		switch m := current.(type) {
		case map[string]any:
			next, ok = m[part]
		case schema.Document:
			next, ok = m[part]
		}
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// valueRank orders values of different kinds: bools, numbers, times, strings,
// everything else, and nil last.
func valueRank(v any) int {
	if v == nil {
		return 5
	}
	if _, ok := v.(bool); ok {
		return 0
	}
	if _, ok := numberValue(v); ok {
		return 1
	}
	if _, ok := v.(time.Time); ok {
		return 2
	}
	if _, ok := v.(string); ok {
		return 3
	}
	return 4
}

// CompareValues defines a total order over record values: numbers compare
// numerically across Go numeric types, strings lexically, times
// chronologically, false before true, and nil after everything else. Values
// of different kinds order by kind.
func CompareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 0:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case 1:
		fa, _ := numberValue(a)
		fb, _ := numberValue(b)
		return cmp.Compare(fa, fb)
	case 2:
		return a.(time.Time).Compare(b.(time.Time))
	case 3:
		return strings.Compare(a.(string), b.(string))
	case 4:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	return 0
}
