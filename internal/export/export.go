package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"driveseq/internal/model"
)

// WriteCSV flattens the dataset into long form, one line per sequence row.
// The fixed columns identify the sequence and the row's place in it; the
// sensor columns follow in schema order.
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	cw := csv.NewWriter(w)
	header := append([]string{"serial_number", "label", "anchor_date", "row", "date", "failure"}, ds.Schema.Sensors...)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, seq := range ds.Sequences {
		for i, r := range seq.Rows {
			line[0] = seq.Serial
			line[1] = string(seq.Label)
			line[2] = seq.AnchorDate.Format("2006-01-02")
			line[3] = strconv.Itoa(i)
			line[4] = r.Date.Format("2006-01-02")
			line[5] = strconv.Itoa(r.Failure)
			for j, v := range r.Values {
				line[6+j] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL emits one json object per sequence.
func WriteJSONL(w io.Writer, ds *model.Dataset) error {
	enc := json.NewEncoder(w)
	for _, seq := range ds.Sequences {
		if err := enc.Encode(seq); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(path, format string, ds *model.Dataset) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var werr error
	switch format {
	case "jsonl":
		werr = WriteJSONL(f, ds)
	default:
		werr = WriteCSV(f, ds)
	}
	if werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

// SplitPath derives a per-split output path, dataset.csv -> dataset_train.csv.
func SplitPath(path, tag string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + tag + ext
}

type Report struct {
	Run     model.BuildRun     `json:"run"`
	Sensors []string           `json:"sensor_columns"`
	Skips   []model.SkipRecord `json:"skips,omitempty"`
}

func WriteReport(path string, run model.BuildRun, schema *model.Schema, skips []model.SkipRecord) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	rep := Report{Run: run, Skips: skips}
	if schema != nil {
		rep.Sensors = schema.Sensors
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
