package dataset

import (
	"testing"

	"driveseq/internal/model"
)

func TestRepairGapsDenseUnchanged(t *testing.T) {
	timeline := mkTimeline("d1", 5, -1)
	out := RepairGaps(timeline)
	if len(out) != 5 {
		t.Fatalf("expected 5 records, got %d", len(out))
	}
	if &out[0] != &timeline[0] {
		t.Fatalf("dense timeline should come back as the same slice")
	}
}

func TestRepairGapsFillsMissingDays(t *testing.T) {
	timeline := []model.Record{
		{Date: day(1), Serial: "d1", Values: []float64{1, 10}},
		{Date: day(2), Serial: "d1", Values: []float64{2, 20}},
		{Date: day(5), Serial: "d1", Values: []float64{5, 50}},
	}
	out := RepairGaps(timeline)
	if len(out) != 5 {
		t.Fatalf("expected 5 records, got %d", len(out))
	}
	for i, r := range out {
		if !r.Date.Equal(day(i + 1)) {
			t.Fatalf("record %d has date %s, want %s", i, r.Date, day(i+1))
		}
		if r.Serial != "d1" {
			t.Fatalf("record %d lost serial", i)
		}
	}
	if out[2].Values[0] != 2 || out[2].Values[1] != 20 {
		t.Fatalf("day 3 should copy day 2 values, got %v", out[2].Values)
	}
	if out[3].Values[0] != 2 || out[3].Values[1] != 20 {
		t.Fatalf("day 4 should carry the fill chain, got %v", out[3].Values)
	}
	if out[4].Values[0] != 5 {
		t.Fatalf("day 5 should keep its own values, got %v", out[4].Values)
	}
}

func TestRepairGapsCarriesFailureFlag(t *testing.T) {
	timeline := []model.Record{
		{Date: day(1), Serial: "d1", Failure: 1, Values: []float64{1}},
		{Date: day(3), Serial: "d1", Failure: 0, Values: []float64{3}},
	}
	out := RepairGaps(timeline)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[1].Failure != 1 {
		t.Fatalf("synthetic row should copy the previous failure flag")
	}
	if out[2].Failure != 0 {
		t.Fatalf("real row must keep its own failure flag")
	}
}

func TestRepairGapsSyntheticValuesDetached(t *testing.T) {
	timeline := []model.Record{
		{Date: day(1), Serial: "d1", Values: []float64{7}},
		{Date: day(3), Serial: "d1", Values: []float64{9}},
	}
	out := RepairGaps(timeline)
	out[1].Values[0] = 99
	if timeline[0].Values[0] != 7 {
		t.Fatalf("synthetic row must not alias the source values")
	}
}

func TestRepairGapsIdempotent(t *testing.T) {
	timeline := []model.Record{
		{Date: day(1), Serial: "d1", Values: []float64{1}},
		{Date: day(4), Serial: "d1", Values: []float64{4}},
	}
	once := RepairGaps(timeline)
	twice := RepairGaps(once)
	if len(once) != 4 || len(twice) != 4 {
		t.Fatalf("expected 4 records, got %d then %d", len(once), len(twice))
	}
	if &once[0] != &twice[0] {
		t.Fatalf("second repair should be a no-op")
	}
}

func TestRepairGapsTinyTimelines(t *testing.T) {
	if out := RepairGaps(nil); len(out) != 0 {
		t.Fatalf("empty timeline should stay empty")
	}
	one := mkTimeline("d1", 1, -1)
	if out := RepairGaps(one); len(out) != 1 {
		t.Fatalf("single record should stay single")
	}
}
