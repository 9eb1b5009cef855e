package dataset

import (
	"time"

	"driveseq/internal/model"
)

// RepairGaps densifies one serial's timeline over the calendar span of its
// records, which must be sorted by date. Each missing day gets a synthetic
// row copied from the previous day, so sensor values and the failure flag
// carry forward while the date advances. A timeline that already covers
// every day comes back as the same slice.
func RepairGaps(records []model.Record) []model.Record {
	if len(records) == 0 {
		return records
	}
	first := records[0].Date
	last := records[len(records)-1].Date
	expected := int(last.Sub(first).Hours()/24) + 1
	if expected <= len(records) {
		return records
	}

	byDate := make(map[time.Time]model.Record, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}
	out := make([]model.Record, 0, expected)
	prev := records[0]
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		r, ok := byDate[d]
		if !ok {
			r = prev
			r.Date = d
			r.Values = append([]float64(nil), prev.Values...)
		}
		out = append(out, r)
		prev = r
	}
	return out
}
