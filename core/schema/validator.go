// Package schema provides the Validator, which checks records against a
// collection schema before they are stored in a source.
package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Issue is a single validation finding.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Severity string `json:"severity,omitempty"` // e.g., "error", "warning"
}

// Validator is responsible for validating data against a schema. It checks for
// required fields, type correctness and enum membership.
type Validator struct {
	schema *SchemaDefinition
	issues []Issue
}

// NewValidator creates a new Validator instance for a given schema.
// A Validator is not safe for concurrent use.
func NewValidator(schema *SchemaDefinition) *Validator {
	return &Validator{
		schema: schema,
		issues: make([]Issue, 0),
	}
}

// Validate checks if a given document conforms to the validator's schema.
// The `loose` parameter ignores missing required fields and unexpected fields,
// which is how partially projected documents are checked.
func (v *Validator) Validate(data Document, loose bool) (bool, []Issue) {
	v.issues = make([]Issue, 0)
	v.validateData(data)

	finalIssues := v.issues
	if loose {
		filtered := make([]Issue, 0, len(v.issues))
		for _, issue := range v.issues {
			if issue.Code != "REQUIRED_FIELD_MISSING" && issue.Code != "UNEXPECTED_FIELD" {
				filtered = append(filtered, issue)
			}
		}
		finalIssues = filtered
	}

	return len(finalIssues) == 0, finalIssues
}

// validateData checks all fields, in a stable order so issues are reproducible.
func (v *Validator) validateData(data Document) {
	for _, name := range v.schema.FieldNames() {
		fieldDef := v.schema.Fields[name]
		value, exists := data[name]

		if !exists || value == nil {
			if fieldDef.Required {
				v.addIssue("REQUIRED_FIELD_MISSING", fmt.Sprintf("Required field '%s' is missing", name), name)
			}
			continue
		}

		v.validateFieldValue(value, fieldDef, name)
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, exists := v.schema.Fields[key]; !exists {
			v.addIssue("UNEXPECTED_FIELD", fmt.Sprintf("Unexpected field '%s' not defined in schema", key), key)
		}
	}
}

// validateFieldValue validates a single field's value against its definition.
func (v *Validator) validateFieldValue(value any, fieldDef *FieldDefinition, path string) {
	switch fieldDef.Type {
	case FieldTypeString:
		if _, ok := value.(string); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected string, got %T", value), path)
		}
	case FieldTypeEnum:
		str, ok := value.(string)
		if !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected enum string, got %T", value), path)
			return
		}
		if len(fieldDef.Values) > 0 && !slices.Contains(fieldDef.Values, str) {
			v.addIssue("INVALID_ENUM_VALUE",
				fmt.Sprintf("Value '%s' is not one of [%s]", str, strings.Join(fieldDef.Values, ", ")), path)
		}
	case FieldTypeNumber:
		if !isNumericType(value) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected number, got %T", value), path)
		}
	case FieldTypeInteger:
		if !isIntegerType(value) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected integer, got %T", value), path)
		}
	case FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected boolean, got %T", value), path)
		}
	case FieldTypeTime:
		switch t := value.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.RFC3339, t); err != nil {
				v.addIssue("INVALID_TIME", fmt.Sprintf("Expected RFC 3339 timestamp, got '%s'", t), path)
			}
		default:
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected time, got %T", value), path)
		}
	case FieldTypeArray:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected array, got %T", value), path)
		}
	case FieldTypeObject:
		if _, ok := value.(map[string]any); !ok {
			if _, ok := value.(Document); !ok {
				v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected object, got %T", value), path)
			}
		}
	}
}

func isNumericType(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// isIntegerType also accepts whole float64 values, which is how JSON decoding
// delivers integers.
func isIntegerType(value any) bool {
	switch n := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	}
	return false
}

// addIssue adds a new validation issue to the validator's list of issues.
func (v *Validator) addIssue(code, message, path string) {
	v.issues = append(v.issues, Issue{
		Code:     code,
		Message:  message,
		Path:     path,
		Severity: "error",
	})
}
