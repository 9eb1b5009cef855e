package report

import (
	"sync"

	"driveseq/internal/model"
)

// Stats accumulates build counters across extraction workers.
type Stats struct {
	mu sync.RWMutex
	s  model.BuildStats
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) SetSelection(considered, failed, normal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.SerialsConsidered = considered
	s.s.FailedSelected = failed
	s.s.NormalSelected = normal
}

func (s *Stats) Skip(reason model.SkipReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch reason {
	case model.SkipEmptyTimeline:
		s.s.SkippedEmpty++
	case model.SkipShortHistory:
		s.s.SkippedShort++
	case model.SkipAmbiguousFailure:
		s.s.SkippedAmbiguous++
	}
}

func (s *Stats) AddSequence(label model.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if label == model.LabelFailed {
		s.s.FailedSequences++
	} else {
		s.s.NormalSequences++
	}
}

func (s *Stats) Snapshot() model.BuildStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}

func (s *Stats) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = model.BuildStats{}
}
