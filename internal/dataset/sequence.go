package dataset

import (
	"driveseq/internal/model"
)

// ExtractFailed cuts the fixed-length window that ends lookahead days before
// the failure date. The timeline must be gap-free and sorted by date, and
// must contain exactly one failure row. The window is rows
// [anchor-lookahead+1-seqLen, anchor-lookahead+1), and it must start after
// the first row so at least one earlier observation exists.
func ExtractFailed(serial string, timeline []model.Record, seqLen, lookahead int) (model.Sequence, error) {
	if len(timeline) == 0 {
		return model.Sequence{}, model.ErrEmptyTimeline
	}
	if len(timeline) <= seqLen+lookahead {
		return model.Sequence{}, model.ErrShortHistory
	}
	anchor := -1
	for i, r := range timeline {
		if r.Failure == 1 {
			if anchor >= 0 {
				return model.Sequence{}, model.ErrAmbiguousFailure
			}
			anchor = i
		}
	}
	if anchor < 0 {
		return model.Sequence{}, model.ErrAmbiguousFailure
	}
	rows, err := clip(timeline, anchor, seqLen, lookahead)
	if err != nil {
		return model.Sequence{}, err
	}
	return model.Sequence{
		Serial:     serial,
		Label:      model.LabelFailed,
		AnchorDate: timeline[anchor].Date,
		Rows:       rows,
	}, nil
}

// ExtractNormal anchors on the last observed day instead of a failure row,
// with the same window mechanics as the failed branch.
func ExtractNormal(serial string, timeline []model.Record, seqLen, lookahead int) (model.Sequence, error) {
	if len(timeline) == 0 {
		return model.Sequence{}, model.ErrEmptyTimeline
	}
	if len(timeline) <= seqLen+lookahead {
		return model.Sequence{}, model.ErrShortHistory
	}
	anchor := len(timeline) - 1
	rows, err := clip(timeline, anchor, seqLen, lookahead)
	if err != nil {
		return model.Sequence{}, err
	}
	return model.Sequence{
		Serial:     serial,
		Label:      model.LabelNormal,
		AnchorDate: timeline[anchor].Date,
		Rows:       rows,
	}, nil
}

func clip(timeline []model.Record, anchor, seqLen, lookahead int) ([]model.Record, error) {
	end := anchor - lookahead + 1
	start := end - seqLen
	if start <= 0 {
		return nil, model.ErrShortHistory
	}
	return timeline[start:end], nil
}
