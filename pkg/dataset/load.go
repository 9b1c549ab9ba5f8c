package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoColumns is returned when a dataset with rows declares no columns.
	ErrNoColumns = errors.New("dataset has rows but no columns")
	// ErrRowWidth is returned when a row carries more values than there are columns.
	ErrRowWidth = errors.New("row has more values than columns")
)

// Load decodes a dataset document. The document is YAML; JSON documents are
// accepted as well since JSON is valid YAML. An empty document yields a
// dataset without a table.
func Load(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return &ds, nil
		}
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadFile reads a dataset document from path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the shape of the table, if any.
func (ds *Dataset) Validate() error {
	if ds == nil || ds.Table == nil {
		return nil
	}
	t := ds.Table
	if len(t.Columns) == 0 && len(t.Rows) > 0 {
		return ErrNoColumns
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Columns) {
			return fmt.Errorf("row %d: %w", i, ErrRowWidth)
		}
	}
	return nil
}
