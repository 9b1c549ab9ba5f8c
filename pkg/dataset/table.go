package dataset

// SelectionKey is the reserved row key holding a row's selection identity.
const SelectionKey = "selection"

// Row maps a column display name to its value. A row may additionally carry
// an opaque identity under SelectionKey.
type Row map[string]any

// Column describes one column of a projected table.
type Column struct {
	DisplayName string `json:"displayName"`
	Index       int    `json:"index"`
}

// Table is the projected form of a dataset handed to templates. Rows hold
// exactly one key per column plus the optional selection key.
type Table struct {
	Rows    []Row    `json:"rows"`
	Columns []Column `json:"columns"`
}

// Empty returns a table with non-nil, zero-length rows and columns.
func Empty() Table {
	return Table{Rows: []Row{}, Columns: []Column{}}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }
