package dataset

import (
	"sort"

	"driveseq/internal/model"
)

// SelectSerials groups records by serial and splits the population. Serials
// with at least one failure row form the failed set, in first-seen order.
// The remainder are ranked by record count descending and the top numNormal
// become the normal set; ties keep first-seen order. Records must already be
// sorted by (date, serial) so first-seen order is stable across runs.
func SelectSerials(records []model.Record, numNormal int) (model.Selection, map[string][]model.Record) {
	groups := make(map[string][]model.Record)
	order := make([]string, 0)
	failed := make(map[string]bool)
	for _, r := range records {
		if _, ok := groups[r.Serial]; !ok {
			order = append(order, r.Serial)
		}
		groups[r.Serial] = append(groups[r.Serial], r)
		if r.Failure == 1 {
			failed[r.Serial] = true
		}
	}

	var sel model.Selection
	normals := make([]string, 0, len(order))
	for _, serial := range order {
		if failed[serial] {
			sel.Failed = append(sel.Failed, serial)
		} else {
			normals = append(normals, serial)
		}
	}
	sort.SliceStable(normals, func(i, j int) bool {
		return len(groups[normals[i]]) > len(groups[normals[j]])
	})
	if numNormal > 0 && numNormal < len(normals) {
		normals = normals[:numNormal]
	}
	sel.Normal = normals
	return sel, groups
}
