// Package schema describes the records served by the list screens and the
// collection schemas used to validate, search and filter them.
package schema

// Document is a single record: a mapping from field name to value.
type Document map[string]any

// LogicalOperator for combining conditions.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and" // All conditions must be true
	LogicalOr  LogicalOperator = "or"  // At least one condition must be true
	LogicalNot LogicalOperator = "not" // Negates a condition or group of conditions
)

// FieldType represents the basic field types supported by the schema system.
type FieldType string

const (
	FieldTypeString  FieldType = "string"  // Text data
	FieldTypeNumber  FieldType = "number"  // Numeric data
	FieldTypeInteger FieldType = "integer" // Numeric data
	FieldTypeBoolean FieldType = "boolean" // True/false values
	FieldTypeEnum    FieldType = "enum"    // One out of a set of pre-defined items
	FieldTypeTime    FieldType = "time"    // RFC 3339 timestamps
	FieldTypeArray   FieldType = "array"   // Ordered list of items
	FieldTypeObject  FieldType = "object"  // Structured data with nested fields
)

// IsNumeric reports whether values of the type take part in numeric ranges.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeNumber || t == FieldTypeInteger
}

// FieldDefinition describes one field of a collection and how the list
// screens may use it.
type FieldDefinition struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Searchable  bool      `json:"searchable,omitempty"` // part of the free-text search box
	Filterable  bool      `json:"filterable,omitempty"` // exposed as a facet or range control
	Sortable    bool      `json:"sortable,omitempty"`
	Values      []string  `json:"values,omitempty"` // allowed values for enum fields
	Description string    `json:"description,omitempty"`
}

// SchemaDefinition is the shape of one collection.
type SchemaDefinition struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitempty"`
	Fields      map[string]*FieldDefinition `json:"fields"`
	// Order lists field names in display order. Fields missing from Order are
	// appended alphabetically by FieldNames.
	Order []string `json:"order,omitempty"`
}
