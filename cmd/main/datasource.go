package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/CTAG07/Vellum/pkg/dataset"
)

// loadTable reads the dataset the preview page is rendered against: the
// result of DatasetQuery when one is configured, else the DatasetPath file.
// A missing dataset file yields an empty table.
func loadTable(ctx context.Context, db *sql.DB, cfg *ServerConfig) (dataset.Table, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	switch {
	case cfg.DatasetQuery != "":
		ds, err = dataset.Query(ctx, db, cfg.DatasetQuery)
		if err != nil {
			return dataset.Table{}, fmt.Errorf("dataset query failed: %w", err)
		}
	case cfg.DatasetPath != "":
		ds, err = dataset.LoadFile(cfg.DatasetPath)
		if errors.Is(err, fs.ErrNotExist) {
			return dataset.Empty(), nil
		}
		if err != nil {
			return dataset.Table{}, fmt.Errorf("dataset file failed to load: %w", err)
		}
	default:
		return dataset.Empty(), nil
	}
	return dataset.Project(ds, dataset.UUIDIdentities()), nil
}
