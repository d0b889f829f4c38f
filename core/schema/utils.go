package schema

import (
	"slices"
	"strings"
)

// FindField returns the definition for name. Dotted names resolve to their
// root field.
func (s *SchemaDefinition) FindField(name string) *FieldDefinition {
	if s == nil {
		return nil
	}
	root, _, _ := strings.Cut(name, ".")
	return s.Fields[root]
}

// IsFilterable reports whether name may be used in a filter condition.
func (s *SchemaDefinition) IsFilterable(name string) bool {
	field := s.FindField(name)
	return field != nil && field.Filterable
}

// SearchFields returns the searchable fields in display order.
func (s *SchemaDefinition) SearchFields() []string {
	var out []string
	for _, name := range s.FieldNames() {
		if s.Fields[name].Searchable {
			out = append(out, name)
		}
	}
	return out
}

// FieldNames returns every field name, Order first.
func (s *SchemaDefinition) FieldNames() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(s.Fields))
	names := make([]string, 0, len(s.Fields))
	for _, name := range s.Order {
		if _, ok := s.Fields[name]; ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	var rest []string
	for name := range s.Fields {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}
