// Package sqlite stores list-screen collections in SQLite tables and serves
// them back as persistence sources. Tables are always read whole; filtering,
// ordering and paging happen in the query engine.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/minhloc/listquery/core/persistence"
	"github.com/minhloc/listquery/core/schema"
	"go.uber.org/zap"
)

// dbRunner abstracts the common methods of *sql.DB and *sql.Tx, allowing the
// same code to be used for both transactional and non-transactional work.
type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store reads and seeds collections kept in a SQLite database.
type Store struct {
	db      *sqlx.DB
	logger  *zap.Logger
	options *Options
}

// ValidationError reports a document rejected by the collection schema.
type ValidationError struct {
	Collection string
	Index      int // position of the document in the batch
	Issues     []schema.Issue
}

// Error returns the error message for a ValidationError.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return fmt.Sprintf("document %d does not conform to the %s schema: %s", e.Index, e.Collection, strings.Join(msgs, "; "))
}

// NewStore creates a Store over db. A nil logger disables logging and nil
// options fall back to DefaultOptions.
func NewStore(db *sql.DB, logger *zap.Logger, options *Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultOptions()
	}
	return &Store{db: sqlx.NewDb(db, "sqlite3"), logger: logger, options: options}
}

// Source returns a persistence.Source that reads the whole table of sc on
// every fetch.
func (s *Store) Source(sc *schema.SchemaDefinition) persistence.Source {
	return persistence.SourceFunc(func(ctx context.Context) ([]schema.Document, error) {
		return s.Select(ctx, sc)
	})
}

// Select reads every row of the collection table in insertion order.
func (s *Store) Select(ctx context.Context, sc *schema.SchemaDefinition) ([]schema.Document, error) {
	names := sc.FieldNames()
	columns := make([]string, len(names))
	for i, name := range names {
		columns[i] = quoteIdentifier(name)
	}
	sqlQuery := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(columns, ", "), s.tableName(sc.Name))

	s.logger.Debug("Executing SQL SELECT", zap.String("sql", sqlQuery))

	rows, err := s.db.QueryxContext(ctx, sqlQuery)
	if err != nil {
		s.logger.Error("Failed to execute SELECT query", zap.Error(err), zap.String("sql", sqlQuery))
		return nil, fmt.Errorf("failed to execute SELECT query: %w", err)
	}
	defer rows.Close()
	return readRows(s.logger, sc, rows)
}

// Insert validates docs against sc and inserts them in one transaction. Any
// invalid document aborts the batch with a *ValidationError before the
// database is touched.
func (s *Store) Insert(ctx context.Context, sc *schema.SchemaDefinition, docs []schema.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	validator := schema.NewValidator(sc)
	for i, doc := range docs {
		if ok, issues := validator.Validate(doc, false); !ok {
			return 0, &ValidationError{Collection: sc.Name, Index: i, Issues: issues}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	n, err := s.insertRows(ctx, tx, sc, docs)
	if err != nil {
		s.logger.Debug("Rolling back transaction", zap.Error(err))
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Debug("Inserted documents", zap.String("collection", sc.Name), zap.Int("count", n))
	return n, nil
}

func (s *Store) insertRows(ctx context.Context, runner dbRunner, sc *schema.SchemaDefinition, docs []schema.Document) (int, error) {
	names := sc.FieldNames()
	columns := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		columns[i] = quoteIdentifier(name)
		placeholders[i] = "?"
	}
	sqlQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.tableName(sc.Name), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	for i, doc := range docs {
		args := make([]any, len(names))
		for j, name := range names {
			v, err := encodeValue(doc[name], sc.Fields[name].Type)
			if err != nil {
				return 0, fmt.Errorf("document %d field %s: %w", i, name, err)
			}
			args[j] = v
		}
		if _, err := runner.ExecContext(ctx, sqlQuery, args...); err != nil {
			s.logger.Error("Failed to execute INSERT query", zap.Error(err), zap.String("sql", sqlQuery))
			return 0, fmt.Errorf("failed to execute INSERT query: %w", err)
		}
	}
	return len(docs), nil
}

// encodeValue converts a document value into a value SQLite can store.
func encodeValue(val any, fieldType schema.FieldType) (any, error) {
	if val == nil {
		return nil, nil
	}
	switch fieldType {
	case schema.FieldTypeBoolean:
		if b, ok := val.(bool); ok {
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case schema.FieldTypeTime:
		switch t := val.(type) {
		case time.Time:
			return t.UTC().Format(time.RFC3339Nano), nil
		case *time.Time:
			if t == nil {
				return nil, nil
			}
			return t.UTC().Format(time.RFC3339Nano), nil
		}
	case schema.FieldTypeObject, schema.FieldTypeArray:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		return string(b), nil
	}
	return val, nil
}

// readRows converts every row into a Document typed after the schema.
// Columns the schema does not know are kept as scanned.
func readRows(logger *zap.Logger, sc *schema.SchemaDefinition, rows *sqlx.Rows) ([]schema.Document, error) {
	results := []schema.Document{}
	for rows.Next() {
		row := make(schema.Document, len(sc.Fields))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for col, val := range row {
			if val == nil {
				continue
			}
			fieldDef, ok := sc.Fields[col]
			if !ok {
				logger.Warn("Column not found in schema, using raw value", zap.String("column", col))
				continue
			}
			row[col] = decodeValue(val, fieldDef.Type)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}

// decodeValue converts a scanned column value back to its schema type. Values
// that do not fit the type are returned unchanged.
func decodeValue(val any, fieldType schema.FieldType) any {
	if b, isByte := val.([]byte); isByte {
		val = string(b)
	}

	switch fieldType {
	case schema.FieldTypeBoolean:
		if intVal, isInt := val.(int64); isInt {
			return intVal != 0
		}
	case schema.FieldTypeInteger:
		if floatVal, isFloat := val.(float64); isFloat {
			return int64(floatVal)
		}
	case schema.FieldTypeNumber:
		if intVal, isInt := val.(int64); isInt {
			return float64(intVal)
		}
	case schema.FieldTypeTime:
		if strVal, isString := val.(string); isString {
			if t, err := time.Parse(time.RFC3339Nano, strVal); err == nil {
				return t
			}
		}
	case schema.FieldTypeObject, schema.FieldTypeArray:
		if strVal, isString := val.(string); isString {
			var decodedValue any
			if err := json.Unmarshal([]byte(strVal), &decodedValue); err == nil {
				return decodedValue
			}
		}
	}
	return val
}
