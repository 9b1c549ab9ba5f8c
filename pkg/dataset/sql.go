package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// temporalTypes are the declared SQL column types treated as timestamps.
var temporalTypes = map[string]bool{
	"DATE":      true,
	"DATETIME":  true,
	"TIMESTAMP": true,
}

// FromRows drains rows into a dataset. Column display names are the result
// column names; columns declared DATE, DATETIME or TIMESTAMP are marked
// temporal. The caller still owns rows and must close it.
func FromRows(rows *sql.Rows) (*Dataset, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	table := &RawTable{
		Columns: make([]ColumnMeta, len(types)),
		Rows:    [][]any{},
	}
	for i, ct := range types {
		name := strings.ToUpper(ct.DatabaseTypeName())
		table.Columns[i] = ColumnMeta{
			DisplayName: ct.Name(),
			Index:       i,
			Type: ColumnType{
				Temporal: temporalTypes[name],
				Name:     name,
			},
		}
	}

	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(table.Rows), err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return &Dataset{Table: table}, nil
}

// Query runs query against db and returns the result as a dataset.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (*Dataset, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer rows.Close()
	return FromRows(rows)
}
