package normalize

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"driveseq/internal/ingest"
	"driveseq/internal/model"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Normalize turns a raw snapshot table into schema-ordered records. Sensor
// columns are the smart_* raw attributes sorted by name; model, capacity and
// the *_normalized variants are dropped. Rows without a parseable date or a
// serial are discarded, duplicate (serial, date) pairs keep the first
// occurrence, and unparseable sensor cells become zero after the fill pass.
func Normalize(t ingest.Table, modelFilter string, logger *slog.Logger) (*model.Schema, []model.Record, error) {
	if err := t.CheckRequired(); err != nil {
		return nil, nil, err
	}
	dateIdx := t.ColumnIndex("date")
	serialIdx := t.ColumnIndex("serial_number")
	failIdx := t.ColumnIndex("failure")
	modelIdx := t.ColumnIndex("model")
	if modelFilter != "" && modelIdx < 0 {
		return nil, nil, fmt.Errorf("model filter %q set but model column missing", modelFilter)
	}

	sensors := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !strings.HasPrefix(c, "smart_") || strings.HasSuffix(c, "_normalized") {
			continue
		}
		sensors = append(sensors, c)
	}
	sort.Strings(sensors)
	if len(sensors) == 0 {
		return nil, nil, model.ErrNoSensorColumns
	}
	schema := &model.Schema{Sensors: sensors}
	sensorIdx := make([]int, len(sensors))
	for i, name := range sensors {
		sensorIdx[i] = t.ColumnIndex(name)
	}

	records := make([]model.Record, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	var filtered, dropped, dupes int
	for _, row := range t.Rows {
		cell := func(i int) string {
			if i >= 0 && i < len(row) {
				return row[i]
			}
			return ""
		}
		if modelFilter != "" && cell(modelIdx) != modelFilter {
			filtered++
			continue
		}
		serial := strings.TrimSpace(cell(serialIdx))
		date, ok := parseDate(strings.TrimSpace(cell(dateIdx)))
		if serial == "" || !ok {
			dropped++
			continue
		}
		key := serial + "\x00" + date.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			dupes++
			continue
		}
		seen[key] = struct{}{}
		failure := 0
		if n, err := strconv.Atoi(strings.TrimSpace(cell(failIdx))); err == nil {
			failure = n
		}
		values := make([]float64, len(sensors))
		for i, ci := range sensorIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell(ci)), 64)
			if err != nil {
				values[i] = model.Null()
			} else {
				values[i] = v
			}
		}
		records = append(records, model.Record{Date: date, Serial: serial, Failure: failure, Values: values})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Serial < records[j].Serial
	})
	ZeroFill(records)

	if logger != nil {
		logger.Info("normalized snapshot table",
			"rows", len(t.Rows),
			"records", len(records),
			"sensors", len(sensors),
			"filtered", filtered,
			"dropped", dropped,
			"duplicates", dupes)
	}
	return schema, records, nil
}

// ZeroFill replaces null sensor values with zero in place.
func ZeroFill(records []model.Record) {
	for _, r := range records {
		for i, v := range r.Values {
			if model.IsNull(v) {
				r.Values[i] = 0
			}
		}
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
