package dataset

import (
	"time"

	"github.com/CTAG07/Vellum/pkg/timefmt"
	"github.com/google/uuid"
)

// TimestampPattern is the strftime pattern temporal column values are parsed with.
const TimestampPattern = timefmt.ISOPattern

// ColumnType carries the type tags a host attaches to a column. Only the
// temporal tags affect projection.
type ColumnType struct {
	Temporal bool   `json:"temporal,omitempty" yaml:"temporal,omitempty"`
	DateTime bool   `json:"dateTime,omitempty" yaml:"dateTime,omitempty"`
	Numeric  bool   `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Text     bool   `json:"text,omitempty" yaml:"text,omitempty"`
	Bool     bool   `json:"bool,omitempty" yaml:"bool,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// IsTemporal reports whether values of the column are timestamps.
func (c ColumnType) IsTemporal() bool {
	return c.Temporal || c.DateTime
}

// ColumnMeta is a host column definition.
type ColumnMeta struct {
	DisplayName string     `json:"displayName" yaml:"displayName"`
	Index       int        `json:"index" yaml:"index"`
	Type        ColumnType `json:"type" yaml:"type"`
}

// RawTable is a host table: column metadata plus row-major values, where
// Rows[i][j] belongs to Columns[j].
type RawTable struct {
	Columns []ColumnMeta `json:"columns" yaml:"columns"`
	Rows    [][]any      `json:"rows" yaml:"rows"`
}

// Dataset is the host-supplied input. Table may be nil.
type Dataset struct {
	Table *RawTable `json:"table" yaml:"table"`
}

// IdentityFactory returns the selection identity for one row of a table.
// It is called exactly once per row during projection.
type IdentityFactory func(table *RawTable, row int) any

// UUIDIdentities returns a factory that assigns every row a random UUID string.
func UUIDIdentities() IdentityFactory {
	return func(*RawTable, int) any {
		return uuid.NewString()
	}
}

// ParseTimestamp parses s with TimestampPattern. The result is always UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return timefmt.ParseISO(s)
}

// Project converts ds into a Table. A nil dataset or a dataset without a
// table projects to an empty table. Values of temporal columns are parsed
// as timestamps and become nil when they cannot be parsed; all other values
// pass through unchanged. When ids is non-nil, every row gets its result
// under SelectionKey.
func Project(ds *Dataset, ids IdentityFactory) Table {
	if ds == nil || ds.Table == nil {
		return Empty()
	}
	raw := ds.Table

	table := Table{
		Rows:    make([]Row, 0, len(raw.Rows)),
		Columns: make([]Column, 0, len(raw.Columns)),
	}
	for _, c := range raw.Columns {
		table.Columns = append(table.Columns, Column{DisplayName: c.DisplayName, Index: c.Index})
	}

	for i, values := range raw.Rows {
		row := make(Row, len(raw.Columns)+1)
		if ids != nil {
			row[SelectionKey] = ids(raw, i)
		}
		for j, col := range raw.Columns {
			var v any
			if j < len(values) {
				v = values[j]
			}
			if col.Type.IsTemporal() {
				v = projectTime(v)
			}
			row[col.DisplayName] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func projectTime(v any) any {
	switch t := v.(type) {
	case string:
		parsed, err := ParseTimestamp(t)
		if err != nil {
			return nil
		}
		return parsed
	case time.Time:
		return t.UTC()
	}
	return nil
}
