package model

import (
	"math"
	"time"
)

type Label string

const (
	LabelFailed Label = "failed"
	LabelNormal Label = "normal"
)

type SkipReason string

const (
	SkipEmptyTimeline    SkipReason = "empty_timeline"
	SkipShortHistory     SkipReason = "short_history"
	SkipAmbiguousFailure SkipReason = "ambiguous_failure"
)

type Schema struct {
	Sensors []string `json:"sensors"`
}

func (s *Schema) Width() int {
	return len(s.Sensors)
}

func (s *Schema) Index(name string) int {
	for i, col := range s.Sensors {
		if col == name {
			return i
		}
	}
	return -1
}

type Record struct {
	Date    time.Time `json:"date"`
	Serial  string    `json:"serial_number"`
	Failure int       `json:"failure"`
	Values  []float64 `json:"values"`
}

func Null() float64 {
	return math.NaN()
}

func IsNull(v float64) bool {
	return math.IsNaN(v)
}

type Selection struct {
	Failed []string `json:"failed_serials"`
	Normal []string `json:"normal_serials"`
}

type Sequence struct {
	Serial     string    `json:"serial_number"`
	Label      Label     `json:"label"`
	AnchorDate time.Time `json:"anchor_date"`
	Rows       []Record  `json:"rows"`
}

func (s *Sequence) Length() int {
	return len(s.Rows)
}

type Dataset struct {
	Schema    *Schema    `json:"schema"`
	Sequences []Sequence `json:"sequences"`
}

type BuildStats struct {
	SerialsConsidered int `json:"serials_considered"`
	FailedSelected    int `json:"failed_selected"`
	NormalSelected    int `json:"normal_selected"`
	SkippedEmpty      int `json:"skipped_empty"`
	SkippedShort      int `json:"skipped_short"`
	SkippedAmbiguous  int `json:"skipped_ambiguous"`
	FailedSequences   int `json:"failed_sequences"`
	NormalSequences   int `json:"normal_sequences"`
}

func (b BuildStats) SkippedTotal() int {
	return b.SkippedEmpty + b.SkippedShort + b.SkippedAmbiguous
}

type SkipRecord struct {
	Serial string     `json:"serial_number"`
	Label  Label      `json:"label"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
	At     time.Time  `json:"at"`
}

type BuildRun struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	SequenceLength int        `json:"sequence_length"`
	Lookahead      int        `json:"lookahead"`
	Stats          BuildStats `json:"stats"`
}
