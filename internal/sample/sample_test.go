package sample

import (
	"fmt"
	"testing"

	"driveseq/internal/model"
)

func mkDataset(failed, normal int) *model.Dataset {
	ds := &model.Dataset{Schema: &model.Schema{Sensors: []string{"smart_9_raw"}}}
	for i := 0; i < failed; i++ {
		ds.Sequences = append(ds.Sequences, model.Sequence{Serial: fmt.Sprintf("f%02d", i), Label: model.LabelFailed})
	}
	for i := 0; i < normal; i++ {
		ds.Sequences = append(ds.Sequences, model.Sequence{Serial: fmt.Sprintf("n%02d", i), Label: model.LabelNormal})
	}
	return ds
}

func countLabels(ds *model.Dataset) (failed, normal int) {
	for _, s := range ds.Sequences {
		if s.Label == model.LabelFailed {
			failed++
		} else {
			normal++
		}
	}
	return failed, normal
}

func TestBalanceDownsamplesNormals(t *testing.T) {
	ds := mkDataset(2, 10)
	out := Balance(ds, 1.2, 42, nil)
	failed, normal := countLabels(out)
	if failed != 2 {
		t.Fatalf("failed sequences must all survive, got %d", failed)
	}
	if normal != 3 {
		t.Fatalf("expected ceil(2*1.2)=3 normals, got %d", normal)
	}
	last := ""
	for _, s := range out.Sequences {
		if s.Label != model.LabelNormal {
			continue
		}
		if s.Serial <= last {
			t.Fatalf("kept normals lost original order: %v", out.Sequences)
		}
		last = s.Serial
	}
}

func TestBalanceDeterministic(t *testing.T) {
	a := Balance(mkDataset(2, 10), 1.2, 7, nil)
	b := Balance(mkDataset(2, 10), 1.2, 7, nil)
	if len(a.Sequences) != len(b.Sequences) {
		t.Fatalf("same seed produced different sizes")
	}
	for i := range a.Sequences {
		if a.Sequences[i].Serial != b.Sequences[i].Serial {
			t.Fatalf("same seed produced different selection at %d", i)
		}
	}
}

func TestBalanceNoopWhenAlreadyBalanced(t *testing.T) {
	ds := mkDataset(2, 2)
	if out := Balance(ds, 1.2, 42, nil); out != ds {
		t.Fatalf("balanced dataset should come back unchanged")
	}
}

func TestBalanceNoFailedDropsAllNormals(t *testing.T) {
	out := Balance(mkDataset(0, 5), 1.2, 42, nil)
	if len(out.Sequences) != 0 {
		t.Fatalf("no failed sequences means no normals kept, got %d", len(out.Sequences))
	}
}

func TestSplitDisjointAndExhaustive(t *testing.T) {
	ds := mkDataset(4, 16)
	train, test := Split(ds, 0.25, 42, nil)
	if len(train.Sequences)+len(test.Sequences) != len(ds.Sequences) {
		t.Fatalf("split dropped sequences: %d + %d != %d", len(train.Sequences), len(test.Sequences), len(ds.Sequences))
	}
	seen := make(map[string]int)
	for _, s := range train.Sequences {
		seen[s.Serial]++
	}
	for _, s := range test.Sequences {
		seen[s.Serial]++
	}
	for serial, n := range seen {
		if n != 1 {
			t.Fatalf("serial %s appears %d times across splits", serial, n)
		}
	}
	tf, tn := countLabels(test)
	if tf != 1 || tn != 4 {
		t.Fatalf("expected stratified 1 failed / 4 normal in test, got %d/%d", tf, tn)
	}
}

func TestSplitKeepsBothLabelsInTrain(t *testing.T) {
	train, _ := Split(mkDataset(4, 16), 0.25, 42, nil)
	failed, normal := countLabels(train)
	if failed == 0 || normal == 0 {
		t.Fatalf("train side lost a label: %d/%d", failed, normal)
	}
}

func TestSplitDeterministic(t *testing.T) {
	_, a := Split(mkDataset(4, 16), 0.25, 9, nil)
	_, b := Split(mkDataset(4, 16), 0.25, 9, nil)
	if len(a.Sequences) != len(b.Sequences) {
		t.Fatalf("same seed produced different test sizes")
	}
	for i := range a.Sequences {
		if a.Sequences[i].Serial != b.Sequences[i].Serial {
			t.Fatalf("same seed produced different membership at %d", i)
		}
	}
}

func TestSplitSingleSequenceStaysInTrain(t *testing.T) {
	train, test := Split(mkDataset(1, 0), 0.2, 42, nil)
	if len(train.Sequences) != 1 || len(test.Sequences) != 0 {
		t.Fatalf("lone sequence should train, got %d/%d", len(train.Sequences), len(test.Sequences))
	}
}
