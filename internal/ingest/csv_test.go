package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReadCSVParsesHeaderAndRows(t *testing.T) {
	in := "date,serial_number,failure\n2017-01-01,A,0\n2017-01-02,A\n2017-01-03,A,0,extra\n"
	table, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 3 || table.Columns[1] != "serial_number" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if len(table.Rows[1]) != 3 || table.Rows[1][2] != "" {
		t.Fatalf("short row should be padded: %v", table.Rows[1])
	}
	if len(table.Rows[2]) != 3 {
		t.Fatalf("long row should be truncated: %v", table.Rows[2])
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}

func TestTableMergeUnionsColumns(t *testing.T) {
	a := Table{Columns: []string{"date", "smart_1_raw"}, Rows: [][]string{{"2017-01-01", "1"}}}
	b := Table{Columns: []string{"smart_1_raw", "smart_2_raw"}, Rows: [][]string{{"2", "3"}}}
	a.Merge(b)
	if len(a.Columns) != 3 || a.Columns[2] != "smart_2_raw" {
		t.Fatalf("unexpected columns: %v", a.Columns)
	}
	if a.Rows[0][2] != "" {
		t.Fatalf("existing row should be padded: %v", a.Rows[0])
	}
	if a.Rows[1][0] != "" || a.Rows[1][1] != "2" || a.Rows[1][2] != "3" {
		t.Fatalf("merged row misaligned: %v", a.Rows[1])
	}
}

func TestTableMergeIntoEmpty(t *testing.T) {
	var a Table
	a.Merge(Table{Columns: []string{"date"}, Rows: [][]string{{"2017-01-01"}}})
	if len(a.Columns) != 1 || len(a.Rows) != 1 {
		t.Fatalf("unexpected table: %+v", a)
	}
}

func TestCheckRequired(t *testing.T) {
	table := Table{Columns: []string{"date", "serial_number", "failure"}, Rows: [][]string{{"2017-01-01", "A", "0"}}}
	if err := table.CheckRequired(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	missing := Table{Columns: []string{"date", "serial_number"}, Rows: [][]string{{"2017-01-01", "A"}}}
	if err := missing.CheckRequired(); err == nil {
		t.Fatalf("expected error for missing failure column")
	}
	empty := Table{Columns: []string{"date", "serial_number", "failure"}}
	if err := empty.CheckRequired(); err == nil {
		t.Fatalf("expected error for empty table")
	}
}

func TestLoadDirQuarterOrder(t *testing.T) {
	base := t.TempDir()
	header := "date,serial_number,failure\n"
	writeFile(t, filepath.Join(base, "data_Q10_2017", "day.csv"), header+"2017-10-01,C,0\n")
	writeFile(t, filepath.Join(base, "data_Q2_2017", "day.csv"), header+"2017-04-01,B,0\n")
	writeFile(t, filepath.Join(base, "data_Q1_2017", "day.csv"), header+"2017-01-01,A,0\n")
	writeFile(t, filepath.Join(base, "data_Q1_2017", "empty.csv"), "")

	table, err := LoadDir(base, 2017, 10, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	serials := []string{table.Rows[0][1], table.Rows[1][1], table.Rows[2][1]}
	if serials[0] != "A" || serials[1] != "B" || serials[2] != "C" {
		t.Fatalf("quarters out of order: %v", serials)
	}
}

func TestLoadDirQuarterLimit(t *testing.T) {
	base := t.TempDir()
	header := "date,serial_number,failure\n"
	writeFile(t, filepath.Join(base, "data_Q1_2017", "day.csv"), header+"2017-01-01,A,0\n")
	writeFile(t, filepath.Join(base, "data_Q2_2017", "day.csv"), header+"2017-04-01,B,0\n")

	table, err := LoadDir(base, 2017, 1, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "A" {
		t.Fatalf("expected only the first quarter, got %v", table.Rows)
	}
}

func TestLoadDirMaxFiles(t *testing.T) {
	base := t.TempDir()
	header := "date,serial_number,failure\n"
	writeFile(t, filepath.Join(base, "data_Q1_2017", "a.csv"), header+"2017-01-01,A,0\n")
	writeFile(t, filepath.Join(base, "data_Q1_2017", "b.csv"), header+"2017-01-02,B,0\n")

	table, err := LoadDir(base, 2017, 1, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "A" {
		t.Fatalf("file limit not honored: %v", table.Rows)
	}
}

func TestLoadDirNoMatchingDirectories(t *testing.T) {
	if _, err := LoadDir(t.TempDir(), 2017, 1, 0, nil); err == nil {
		t.Fatalf("expected error when no quarter directories exist")
	}
}
