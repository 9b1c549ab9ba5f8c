package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", tb.Name()))
	if err != nil {
		tb.Fatalf("failed to open in-memory db: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE sales (region TEXT, amount REAL, day DATETIME)`,
		`INSERT INTO sales VALUES ('North', 12.5, '2024-01-02T03:04:05.678Z')`,
		`INSERT INTO sales VALUES ('South', 7, '2024-01-03T00:00:00.000Z')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			tb.Fatalf("failed to exec %q: %v", stmt, err)
		}
	}
	return db
}

func TestQuery(t *testing.T) {
	db := setupTestDB(t)

	ds, err := Query(context.Background(), db, `SELECT region, amount, day FROM sales ORDER BY region`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(ds.Table.Columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(ds.Table.Columns))
	}
	if !ds.Table.Columns[2].Type.IsTemporal() {
		t.Errorf("day column not marked temporal: %+v", ds.Table.Columns[2].Type)
	}
	if ds.Table.Columns[0].Type.IsTemporal() {
		t.Errorf("region column marked temporal")
	}

	table := Project(ds, nil)
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if table.Rows[0]["region"] != "North" {
		t.Errorf("region = %#v, want North", table.Rows[0]["region"])
	}
	if table.Rows[0]["amount"] != 12.5 {
		t.Errorf("amount = %#v, want 12.5", table.Rows[0]["amount"])
	}
	day, ok := table.Rows[0]["day"].(time.Time)
	want := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	if !ok || !day.Equal(want) {
		t.Errorf("day = %#v, want %v", table.Rows[0]["day"], want)
	}
}
