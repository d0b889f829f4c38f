package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/minhloc/listquery/core/schema"
)

// Options configures how collections map onto tables.
type Options struct {
	TablePrefix string // prepended to every collection name
	IfNotExists bool   // CREATE TABLE IF NOT EXISTS
}

// DefaultOptions returns a set of sensible default options for the store.
func DefaultOptions() *Options {
	return &Options{
		IfNotExists: true, // Prevent errors if a table already exists.
	}
}

// quoteIdentifier safely quotes an identifier, such as a table or column name,
// to prevent SQL injection and to handle names that might be keywords or contain
// special characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// tableName constructs the full, quoted table name by applying the configured
// table prefix to the base name.
func (s *Store) tableName(baseName string) string {
	return quoteIdentifier(s.options.TablePrefix + baseName)
}

// CreateTable creates the table backing a collection.
func (s *Store) CreateTable(ctx context.Context, sc *schema.SchemaDefinition) error {
	stmt, err := s.CreateTableSQL(sc)
	if err != nil {
		return fmt.Errorf("failed to generate SQL for table %s: %w", sc.Name, err)
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute SQL statement '%s': %w", stmt, err)
	}
	return nil
}

// CreateTableSQL generates the DDL statement for a collection. Columns follow
// the schema field order.
func (s *Store) CreateTableSQL(sc *schema.SchemaDefinition) (string, error) {
	names := sc.FieldNames()
	if len(names) == 0 {
		return "", fmt.Errorf("schema %q has no fields", sc.Name)
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if s.options.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(s.tableName(sc.Name) + " (\n")

	columns := make([]string, 0, len(names))
	for _, name := range names {
		columnDef, err := buildColumnDefinition(name, sc.Fields[name])
		if err != nil {
			return "", fmt.Errorf("error on field '%s': %w", name, err)
		}
		columns = append(columns, "    "+columnDef)
	}
	sb.WriteString(strings.Join(columns, ",\n"))
	sb.WriteString("\n);")
	return sb.String(), nil
}

// buildColumnDefinition constructs the DDL string for a single column, including its
// name, data type, and any constraints.
func buildColumnDefinition(fieldName string, field *schema.FieldDefinition) (string, error) {
	if field == nil {
		return "", fmt.Errorf("missing field definition")
	}
	parts := []string{quoteIdentifier(fieldName), columnType(field.Type)}

	if field.Required {
		parts = append(parts, "NOT NULL")
	}
	if field.Type == schema.FieldTypeEnum && len(field.Values) > 0 {
		checkValues := make([]string, len(field.Values))
		for i, v := range field.Values {
			checkValues[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		parts = append(parts, fmt.Sprintf("CHECK(%s IN (%s))", quoteIdentifier(fieldName), strings.Join(checkValues, ", ")))
	}
	return strings.Join(parts, " "), nil
}

// columnType maps a schema.FieldType to its corresponding SQLite column type.
func columnType(fieldType schema.FieldType) string {
	switch fieldType {
	case schema.FieldTypeString, schema.FieldTypeEnum, schema.FieldTypeTime:
		return "TEXT"
	case schema.FieldTypeNumber:
		return "REAL"
	case schema.FieldTypeInteger, schema.FieldTypeBoolean:
		return "INTEGER"
	case schema.FieldTypeObject, schema.FieldTypeArray:
		return "TEXT"
	default:
		return "BLOB"
	}
}

// DropTable drops a table from the database.
func (s *Store) DropTable(ctx context.Context, collection string) error {
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.tableName(collection))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", collection, err)
	}
	return nil
}

// TableExists checks if a table exists in the database.
func (s *Store) TableExists(ctx context.Context, collection string) (bool, error) {
	q := "SELECT name FROM sqlite_master WHERE type='table' AND name = ?;"

	var name string
	err := s.db.QueryRowContext(ctx, q, s.options.TablePrefix+collection).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
