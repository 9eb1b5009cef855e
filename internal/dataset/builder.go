package dataset

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"driveseq/internal/config"
	"driveseq/internal/model"
	"driveseq/internal/normalize"
	"driveseq/internal/report"
)

// Builder runs selection, gap repair and window extraction over normalized
// records and assembles the labeled dataset. Serials are processed by a
// bounded worker pool; per-serial results land in indexed slots and are
// merged in selection order, so output order does not depend on the worker
// count. A serial that cannot produce a window is counted and logged, never
// fatal.
type Builder struct {
	cfg    config.DatasetConfig
	logger *slog.Logger
	stats  *report.Stats
	skips  *report.SkipLog
}

func NewBuilder(cfg config.DatasetConfig, logger *slog.Logger, stats *report.Stats, skips *report.SkipLog) *Builder {
	if stats == nil {
		stats = report.NewStats()
	}
	if skips == nil {
		skips = report.NewSkipLog(0)
	}
	return &Builder{cfg: cfg, logger: logger, stats: stats, skips: skips}
}

func (b *Builder) Stats() model.BuildStats {
	return b.stats.Snapshot()
}

func (b *Builder) Skips() []model.SkipRecord {
	return b.skips.List(0)
}

func (b *Builder) Build(ctx context.Context, schema *model.Schema, records []model.Record) (*model.Dataset, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to build from")
	}
	sel, groups := SelectSerials(records, b.cfg.NumNormalSerials)
	b.stats.SetSelection(len(groups), len(sel.Failed), len(sel.Normal))
	if b.logger != nil {
		b.logger.Info("selected serials",
			"considered", len(groups),
			"failed", len(sel.Failed),
			"normal", len(sel.Normal))
		if len(sel.Failed) == 0 {
			b.logger.Warn("no failed serials in input")
		}
	}

	failed := b.extract(ctx, sel.Failed, model.LabelFailed, groups)
	normal := b.extract(ctx, sel.Normal, model.LabelNormal, groups)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seqs := make([]model.Sequence, 0, len(failed)+len(normal))
	seqs = append(seqs, failed...)
	seqs = append(seqs, normal...)
	st := b.stats.Snapshot()
	if b.logger != nil {
		b.logger.Info("dataset built",
			"failed_sequences", st.FailedSequences,
			"normal_sequences", st.NormalSequences,
			"skipped", st.SkippedTotal())
	}
	return &model.Dataset{Schema: schema, Sequences: seqs}, nil
}

func (b *Builder) extract(ctx context.Context, serials []string, label model.Label, groups map[string][]model.Record) []model.Sequence {
	if len(serials) == 0 {
		return nil
	}
	workers := b.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(serials) {
		workers = len(serials)
	}

	slots := make([]*model.Sequence, len(serials))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = b.buildOne(serials[i], label, groups[serials[i]])
			}
		}()
	}
feed:
	for i := range serials {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]model.Sequence, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
			b.stats.AddSequence(label)
		}
	}
	return out
}

func (b *Builder) buildOne(serial string, label model.Label, timeline []model.Record) *model.Sequence {
	timeline = RepairGaps(timeline)
	normalize.ZeroFill(timeline)
	var (
		seq model.Sequence
		err error
	)
	if label == model.LabelFailed {
		seq, err = ExtractFailed(serial, timeline, b.cfg.SequenceLength, b.cfg.Lookahead)
	} else {
		seq, err = ExtractNormal(serial, timeline, b.cfg.SequenceLength, b.cfg.Lookahead)
	}
	if err != nil {
		b.recordSkip(serial, label, err)
		return nil
	}
	return &seq
}

func (b *Builder) recordSkip(serial string, label model.Label, err error) {
	reason := model.SkipShortHistory
	switch {
	case errors.Is(err, model.ErrEmptyTimeline):
		reason = model.SkipEmptyTimeline
	case errors.Is(err, model.ErrAmbiguousFailure):
		reason = model.SkipAmbiguousFailure
	}
	b.stats.Skip(reason)
	b.skips.Add(model.SkipRecord{
		Serial: serial,
		Label:  label,
		Reason: reason,
		Detail: err.Error(),
	})
	if b.logger != nil {
		b.logger.Debug("skipping serial",
			"serial", serial,
			"label", string(label),
			"reason", string(reason))
	}
}
