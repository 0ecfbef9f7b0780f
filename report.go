package terasort

import (
	"time"

	"github.com/hupe1980/terasort/codec"
)

// Phase names a step of a worker's run.
type Phase string

const (
	PhaseOpen      Phase = "open"
	PhaseSample    Phase = "sample"
	PhasePivots    Phase = "pivots"
	PhasePartition Phase = "partition"
	PhaseExchange  Phase = "exchange"
	PhaseMerge     Phase = "merge"
	PhaseWrite     Phase = "write"
	PhasePublish   Phase = "publish"
)

// PhaseTiming records when a phase finished, relative to the start of the run,
// and how long it took.
type PhaseTiming struct {
	Phase    Phase         `json:"phase"`
	Offset   time.Duration `json:"offset_ns"`
	Duration time.Duration `json:"duration_ns"`
}

// Report describes one worker's run.
type Report struct {
	Rank         int            `json:"rank"`
	Workers      int            `json:"workers"`
	InputRecords int64          `json:"input_records"`
	RangeStart   int64          `json:"range_start"`
	RangeEnd     int64          `json:"range_end"`
	RangeRecords int64          `json:"range_records"`
	Samples      int            `json:"samples"`
	Pivots       int            `json:"pivots"`
	Buckets      int            `json:"buckets"`
	OwnedSlots   int            `json:"owned_slots"`
	SentRecords  int64          `json:"sent_records"`
	SentBytes    int64          `json:"sent_bytes"`
	Received     int64          `json:"received_records"`
	Written      int64          `json:"written_records"`
	Published    *PublishResult `json:"published,omitempty"`
	Phases       []PhaseTiming  `json:"phases"`
	Total        time.Duration  `json:"total_ns"`
}

// Offset returns when phase completed, relative to the start of the run.
func (r *Report) Offset(phase Phase) (time.Duration, bool) {
	for _, p := range r.Phases {
		if p.Phase == phase {
			return p.Offset, true
		}
	}
	return 0, false
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return codec.Default.MarshalIndent(r)
}

// Totals sums the per-worker counters of a multi-rank run.
type Totals struct {
	Records  int64 `json:"records"`
	Sent     int64 `json:"sent_records"`
	Received int64 `json:"received_records"`
	Written  int64 `json:"written_records"`
}

// Summarize adds up the reports of every rank.
func Summarize(reports []*Report) Totals {
	var t Totals
	for _, r := range reports {
		if r == nil {
			continue
		}
		t.Records += r.RangeRecords
		t.Sent += r.SentRecords
		t.Received += r.Received
		t.Written += r.Written
	}
	return t
}
