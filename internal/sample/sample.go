package sample

import (
	"log/slog"
	"math"
	"math/rand"

	"driveseq/internal/model"
)

// Balance downsamples the normal class to at most ceil(failed*ratio)
// sequences. Failed sequences are always kept. Kept normals are chosen by a
// seeded shuffle and re-emitted in their original order, so the result is
// reproducible for a given seed.
func Balance(ds *model.Dataset, ratio float64, seed int64, logger *slog.Logger) *model.Dataset {
	var failedN int
	normalIdx := make([]int, 0, len(ds.Sequences))
	for i, s := range ds.Sequences {
		if s.Label == model.LabelFailed {
			failedN++
		} else {
			normalIdx = append(normalIdx, i)
		}
	}
	target := int(math.Ceil(float64(failedN) * ratio))
	if len(normalIdx) <= target {
		return ds
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(normalIdx), func(i, j int) {
		normalIdx[i], normalIdx[j] = normalIdx[j], normalIdx[i]
	})
	keep := make(map[int]bool, target)
	for _, i := range normalIdx[:target] {
		keep[i] = true
	}

	out := &model.Dataset{Schema: ds.Schema, Sequences: make([]model.Sequence, 0, failedN+target)}
	for i, s := range ds.Sequences {
		if s.Label == model.LabelFailed || keep[i] {
			out.Sequences = append(out.Sequences, s)
		}
	}
	if logger != nil {
		logger.Info("balanced dataset",
			"failed", failedN,
			"normal_before", len(normalIdx),
			"normal_after", target)
	}
	return out
}

// Split partitions sequences into train and test sets label by label, so
// both sides keep the class mix. Each label contributes about testFraction
// of its sequences to the test side, at least one when it has more than one,
// and always at least one to the train side.
func Split(ds *model.Dataset, testFraction float64, seed int64, logger *slog.Logger) (*model.Dataset, *model.Dataset) {
	rng := rand.New(rand.NewSource(seed))
	testIdx := make(map[int]bool)
	for _, label := range []model.Label{model.LabelFailed, model.LabelNormal} {
		idx := make([]int, 0)
		for i, s := range ds.Sequences {
			if s.Label == label {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			continue
		}
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		n := int(math.Round(float64(len(idx)) * testFraction))
		if n == 0 && len(idx) > 1 {
			n = 1
		}
		if n >= len(idx) {
			n = len(idx) - 1
		}
		for _, i := range idx[:n] {
			testIdx[i] = true
		}
	}

	train := &model.Dataset{Schema: ds.Schema}
	test := &model.Dataset{Schema: ds.Schema}
	for i, s := range ds.Sequences {
		if testIdx[i] {
			test.Sequences = append(test.Sequences, s)
		} else {
			train.Sequences = append(train.Sequences, s)
		}
	}
	if logger != nil {
		logger.Info("split dataset", "train", len(train.Sequences), "test", len(test.Sequences))
	}
	return train, test
}
