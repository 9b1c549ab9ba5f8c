package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleDataset() *Dataset {
	return &Dataset{Table: &RawTable{
		Columns: []ColumnMeta{
			{DisplayName: "Name", Index: 0, Type: ColumnType{Text: true}},
			{DisplayName: "Amount", Index: 1, Type: ColumnType{Numeric: true}},
			{DisplayName: "Day", Index: 2, Type: ColumnType{DateTime: true}},
		},
		Rows: [][]any{
			{"alpha", 5, "2024-01-02T03:04:05.678Z"},
			{"beta", 10.5, "not a date"},
			{true, nil, "2023-12-31T23:59:59.000Z"},
		},
	}}
}

func TestProject_Empty(t *testing.T) {
	for name, ds := range map[string]*Dataset{"nil dataset": nil, "nil table": {}} {
		t.Run(name, func(t *testing.T) {
			got := Project(ds, nil)
			if got.Rows == nil || got.Columns == nil {
				t.Fatalf("Project() returned nil slices: %#v", got)
			}
			if len(got.Rows) != 0 || len(got.Columns) != 0 {
				t.Errorf("Project() = %#v, want empty table", got)
			}
		})
	}
}

func TestProject_PassesThroughNonTemporal(t *testing.T) {
	ds := sampleDataset()
	table := Project(ds, nil)

	wantCols := []Column{{"Name", 0}, {"Amount", 1}, {"Day", 2}}
	if diff := cmp.Diff(wantCols, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	for i, row := range table.Rows {
		if row["Name"] != ds.Table.Rows[i][0] {
			t.Errorf("row %d Name = %v, want %v", i, row["Name"], ds.Table.Rows[i][0])
		}
		if row["Amount"] != ds.Table.Rows[i][1] {
			t.Errorf("row %d Amount = %v, want %v", i, row["Amount"], ds.Table.Rows[i][1])
		}
		if _, ok := row[SelectionKey]; ok {
			t.Errorf("row %d has a selection without an identity factory", i)
		}
		if len(row) != len(table.Columns) {
			t.Errorf("row %d has %d keys, want %d", i, len(row), len(table.Columns))
		}
	}
}

func TestProject_ParsesTemporal(t *testing.T) {
	ds := sampleDataset()
	table := Project(ds, nil)

	for i, raw := range ds.Table.Rows {
		want, err := ParseTimestamp(raw[2].(string))
		got := table.Rows[i]["Day"]
		if err != nil {
			if got != nil {
				t.Errorf("row %d Day = %v, want nil for unparseable input", i, got)
			}
			continue
		}
		gotTime, ok := got.(time.Time)
		if !ok || !gotTime.Equal(want) {
			t.Errorf("row %d Day = %v, want %v", i, got, want)
		}
	}

	first := table.Rows[0]["Day"].(time.Time)
	want := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	if !first.Equal(want) || first.Location() != time.UTC {
		t.Errorf("Day = %v, want %v", first, want)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-03-05T14:07:09.250Z")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	if want := time.Date(2024, 3, 5, 14, 7, 9, 250_000_000, time.UTC); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseTimestamp = %v, want %v", got, want)
	}
	if _, err = ParseTimestamp("2024-03-05"); err == nil {
		t.Error("ParseTimestamp should reject a date without a time")
	}
}

func TestProject_Identities(t *testing.T) {
	ds := sampleDataset()
	calls := 0
	table := Project(ds, func(raw *RawTable, row int) any {
		calls++
		if raw != ds.Table {
			t.Errorf("factory got a different table")
		}
		return row * 100
	})
	if calls != len(ds.Table.Rows) {
		t.Errorf("factory called %d times, want %d", calls, len(ds.Table.Rows))
	}
	for i, row := range table.Rows {
		if row[SelectionKey] != i*100 {
			t.Errorf("row %d selection = %v, want %d", i, row[SelectionKey], i*100)
		}
	}
}

func TestUUIDIdentities(t *testing.T) {
	table := Project(sampleDataset(), UUIDIdentities())
	seen := map[any]bool{}
	for _, row := range table.Rows {
		id, ok := row[SelectionKey].(string)
		if !ok || len(id) != 36 {
			t.Fatalf("selection = %#v, want a uuid string", row[SelectionKey])
		}
		if seen[id] {
			t.Errorf("duplicate identity %s", id)
		}
		seen[id] = true
	}
}

func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		doc := `
table:
  columns:
    - displayName: Region
      index: 0
    - displayName: Sales
      index: 1
      type: {numeric: true}
    - displayName: When
      index: 2
      type: {temporal: true}
  rows:
    - [North, 12, "2024-03-01T00:00:00.000Z"]
    - [South, 7.5, "2024-03-02T00:00:00.000Z"]
`
		ds, err := Load(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		table := Project(ds, nil)
		if table.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", table.Len())
		}
		if table.Rows[0]["Sales"] != 12 || table.Rows[1]["Sales"] != 7.5 {
			t.Errorf("Sales = %v, %v", table.Rows[0]["Sales"], table.Rows[1]["Sales"])
		}
		when, ok := table.Rows[1]["When"].(time.Time)
		if !ok || !when.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("When = %v", table.Rows[1]["When"])
		}
	})

	t.Run("json", func(t *testing.T) {
		doc := `{"table": {"columns": [{"displayName": "A", "index": 0}], "rows": [[5], [10]]}}`
		ds, err := Load(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		table := Project(ds, nil)
		want := []Row{{"A": 5}, {"A": 10}}
		if diff := cmp.Diff(want, table.Rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		ds, err := Load(strings.NewReader(""))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if ds.Table != nil {
			t.Errorf("Table = %#v, want nil", ds.Table)
		}
	})

	t.Run("too wide", func(t *testing.T) {
		doc := `{"table": {"columns": [{"displayName": "A"}], "rows": [[1, 2]]}}`
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Error("Load() expected an error for a row wider than the columns")
		}
	})
}
