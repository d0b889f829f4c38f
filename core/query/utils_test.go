package query

import (
	"testing"
	"time"

	"github.com/minhloc/listquery/core/schema"
	"github.com/stretchr/testify/assert"
)

func TestStringPtr(t *testing.T) {
	s := "test_string"
	ptr := StringPtr(s)
	assert.NotNil(t, ptr)
	assert.Equal(t, s, *ptr)
}

func TestIntPtr(t *testing.T) {
	ptr := IntPtr(12345)
	assert.NotNil(t, ptr)
	assert.Equal(t, 12345, *ptr)
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		success  bool
	}{
		{"int", 10, 10.0, true},
		{"int8", int8(20), 20.0, true},
		{"int16", int16(30), 30.0, true},
		{"int32", int32(40), 40.0, true},
		{"int64", int64(50), 50.0, true},
		{"uint", uint(55), 55.0, true},
		{"float32", float32(60.5), 60.5, true},
		{"float64", 70.5, 70.5, true},
		{"string_valid_int", "100", 100.0, true},
		{"string_valid_float", " 123.45 ", 123.45, true},
		{"string_invalid", "abc", 0.0, false},
		{"nil", nil, 0.0, false},
		{"unsupported_type", struct{}{}, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.success, ok)
			if tt.success {
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestCompareValues(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{"numbers across types", int64(2), 3.5, -1},
		{"equal numbers", 3, int64(3), 0},
		{"strings", "b", "a", 1},
		{"times", early, late, -1},
		{"bools", false, true, -1},
		{"nil sorts last", nil, "a", 1},
		{"both nil", nil, nil, 0},
		{"numbers before strings", 1, "1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareValues(tt.a, tt.b))
			assert.Equal(t, -tt.expected, CompareValues(tt.b, tt.a))
		})
	}
}

func TestLookup(t *testing.T) {
	doc := schema.Document{
		"name":  "An",
		"owner": map[string]any{"team": schema.Document{"name": "Sales"}},
		"a.b":   "literal",
	}

	v, ok := lookup(doc, "name")
	assert.True(t, ok)
	assert.Equal(t, "An", v)

	v, ok = lookup(doc, "owner.team.name")
	assert.True(t, ok)
	assert.Equal(t, "Sales", v)

	v, ok = lookup(doc, "a.b")
	assert.True(t, ok)
	assert.Equal(t, "literal", v)

	_, ok = lookup(doc, "owner.missing")
	assert.False(t, ok)

	_, ok = lookup(nil, "name")
	assert.False(t, ok)
}
