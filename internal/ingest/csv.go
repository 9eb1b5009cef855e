package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var quarterPattern = regexp.MustCompile(`^Q(\d+)$`)

func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	t := Table{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row: %w", err)
		}
		if len(row) < len(header) {
			row = append(row, make([]string, len(header)-len(row))...)
		} else if len(row) > len(header) {
			row = row[:len(header)]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func ReadCSVFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadDir walks the daily snapshot layout: quarter directories named
// data_Q<n>_<year> under baseDir, each holding one csv per day. Directories
// are taken in quarter order, up to quarters of them, and at most maxFiles
// csv files are read in total (0 means no limit).
func LoadDir(baseDir string, year, quarters, maxFiles int, logger *slog.Logger) (Table, error) {
	dirs, err := filepath.Glob(filepath.Join(baseDir, fmt.Sprintf("data_*_%d", year)))
	if err != nil {
		return Table{}, err
	}
	if len(dirs) == 0 {
		return Table{}, fmt.Errorf("no data_*_%d directories under %s", year, baseDir)
	}
	sort.SliceStable(dirs, func(i, j int) bool {
		return dirLess(dirs[i], dirs[j], year)
	})
	if quarters > 0 && quarters < len(dirs) {
		dirs = dirs[:quarters]
	}

	var out Table
	loaded := 0
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			return Table{}, err
		}
		sort.Strings(files)
		if logger != nil {
			logger.Info("scanning quarter directory", "dir", dir, "files", len(files))
		}
		for _, path := range files {
			t, err := ReadCSVFile(path)
			if err != nil {
				if logger != nil {
					logger.Warn("skipping unreadable csv", "path", path, "error", err)
				}
				continue
			}
			if len(t.Rows) == 0 {
				if logger != nil {
					logger.Warn("skipping empty csv", "path", path)
				}
				continue
			}
			if logger != nil {
				logger.Debug("loaded csv", "path", path, "rows", len(t.Rows))
			}
			out.Merge(t)
			loaded++
			if maxFiles > 0 && loaded >= maxFiles {
				if logger != nil {
					logger.Info("file limit reached", "loaded", loaded)
				}
				return out, nil
			}
		}
	}
	if logger != nil {
		logger.Info("csv load complete", "files", loaded, "rows", len(out.Rows))
	}
	return out, nil
}

func dirLess(a, b string, year int) bool {
	qa, oka := dirQuarter(a, year)
	qb, okb := dirQuarter(b, year)
	if oka && okb {
		return qa < qb
	}
	if oka != okb {
		return oka
	}
	return filepath.Base(a) < filepath.Base(b)
}

func dirQuarter(dir string, year int) (int, bool) {
	name := filepath.Base(dir)
	middle := strings.TrimSuffix(strings.TrimPrefix(name, "data_"), fmt.Sprintf("_%d", year))
	m := quarterPattern.FindStringSubmatch(middle)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
