package ingest

import (
	"errors"
	"fmt"
)

// Table is raw tabular input before schema normalization. Cells are kept as
// strings so every source (csv, s3, kafka) feeds the same pipeline.
type Table struct {
	Columns []string
	Rows    [][]string
}

var requiredColumns = []string{"date", "serial_number", "failure"}

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Merge appends the rows of other, aligning by column name. Columns missing
// on either side are padded with empty cells.
func (t *Table) Merge(other Table) {
	if len(t.Columns) == 0 {
		t.Columns = append(t.Columns, other.Columns...)
		t.Rows = append(t.Rows, other.Rows...)
		return
	}
	extra := make([]string, 0)
	for _, c := range other.Columns {
		if t.ColumnIndex(c) < 0 {
			extra = append(extra, c)
		}
	}
	if len(extra) > 0 {
		t.Columns = append(t.Columns, extra...)
		for i, row := range t.Rows {
			t.Rows[i] = append(row, make([]string, len(extra))...)
		}
	}
	index := make([]int, len(other.Columns))
	for i, c := range other.Columns {
		index[i] = t.ColumnIndex(c)
	}
	for _, row := range other.Rows {
		merged := make([]string, len(t.Columns))
		for i, cell := range row {
			if i < len(index) && index[i] >= 0 {
				merged[index[i]] = cell
			}
		}
		t.Rows = append(t.Rows, merged)
	}
}

func (t *Table) CheckRequired() error {
	if len(t.Rows) == 0 {
		return errors.New("no rows loaded")
	}
	for _, c := range requiredColumns {
		if t.ColumnIndex(c) < 0 {
			return fmt.Errorf("required column %q missing", c)
		}
	}
	return nil
}
