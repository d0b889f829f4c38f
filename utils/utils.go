// Package utils converts between typed records and the schema.Document maps
// the query engine works on.
package utils

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/minhloc/listquery/core/schema"
)

// StructToMap converts a Go struct into a schema.Document.
//
// The record is marshaled to JSON and decoded back into a map, so `json` tags,
// `omitempty` and custom marshalers are respected. Nested structs become
// nested maps, which keeps them reachable through dotted field paths such as
// "address.city". Numbers decode as float64 and time.Time values as RFC 3339
// strings.
//
// The input `record` must be a struct or a pointer to a struct. If `record` is
// nil, or not a struct/pointer to a struct, an error is returned.
//
// Example:
//
//	type Address struct {
//		City string `json:"city"`
//	}
//	type Customer struct {
//		ID      string  `json:"id"`
//		Address Address `json:"address"`
//	}
//	doc, err := StructToMap(Customer{ID: "c-1", Address: Address{City: "Đà Nẵng"}})
//	// doc is schema.Document{"id": "c-1", "address": map[string]any{"city": "Đà Nẵng"}}
func StructToMap[T any](record T) (schema.Document, error) {
	val := reflect.ValueOf(record)

	// Handle nil interface input directly (e.g., if `record` is `nil any`)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("StructToMap: failed to marshal input record to JSON: %w", err)
	}

	var doc schema.Document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("StructToMap: failed to unmarshal JSON to document: %w", err)
	}
	return doc, nil
}

// StructsToDocuments converts every record with StructToMap, keeping order.
func StructsToDocuments[T any](records []T) ([]schema.Document, error) {
	docs := make([]schema.Document, 0, len(records))
	for i, record := range records {
		doc, err := StructToMap(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// MapToStruct is a generic function that converts a `map[string]any` into
// a new instance of the specified generic struct type `T`. It is the inverse
// of StructToMap.
//
// The generic type `T` must be a struct type. If `T` is specified as a pointer
// type (e.g., `*MyStruct`), the function will unmarshal into the dereferenced
// struct and return a pointer to it.
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T

	if input == nil {
		return zero, fmt.Errorf("MapToStruct: input map cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type, got an interface")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to marshal input map to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to unmarshal JSON to target struct: %w", err)
	}

	return result, nil
}

// DocumentsToStructs converts every document with MapToStruct, keeping order.
func DocumentsToStructs[T any](docs []schema.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for i, doc := range docs {
		record, err := MapToStruct[T](doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, record)
	}
	return out, nil
}
