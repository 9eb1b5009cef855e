package report

import (
	"sync"
	"time"

	"driveseq/internal/model"
)

// SkipLog keeps the most recent skipped serials up to a fixed limit so a run
// can be audited without holding every rejection in memory.
type SkipLog struct {
	mu    sync.RWMutex
	buf   []model.SkipRecord
	limit int
}

func NewSkipLog(limit int) *SkipLog {
	if limit <= 0 {
		limit = 1000
	}
	return &SkipLog{limit: limit}
}

func (s *SkipLog) Add(rec model.SkipRecord) {
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) < s.limit {
		s.buf = append(s.buf, rec)
		return
	}
	copy(s.buf, s.buf[1:])
	s.buf[len(s.buf)-1] = rec
}

func (s *SkipLog) List(limit int) []model.SkipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.buf) {
		limit = len(s.buf)
	}
	out := make([]model.SkipRecord, 0, limit)
	start := len(s.buf) - limit
	if start < 0 {
		start = 0
	}
	for i := start; i < len(s.buf); i++ {
		out = append(out, s.buf[i])
	}
	return out
}

func (s *SkipLog) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
}
