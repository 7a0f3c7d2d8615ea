package model

import (
	"time"
)

//Outcome is what happened to one source file during a synchronization pass.
type Outcome string

const (
	OutcomeCopied  Outcome = "copied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

//Progress is emitted after each processed file, in traversal order.
type Progress struct {
	Seq     uint64 // 1-based position in the current pass
	Total   int    // advisory pre-count of the source files
	Source  string
	Replica string
	Outcome Outcome
	Reason  Reason
	Err     error
}

//Percent is Seq relative to the pre-walk total. It's capped at 100, since the total may be stale.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	pct := float64(p.Seq) * 100 / float64(p.Total)
	if pct > 100 {
		return 100
	}
	return pct
}

//Stats summarizes one synchronization pass.
type Stats struct {
	Total       int
	Processed   int
	Copied      int
	Skipped     int
	Failed      int
	BytesCopied int64
	StartedAt   time.Time
	Duration    time.Duration
}

//Add accounts one processed file.
func (s *Stats) Add(outcome Outcome, size int64) {
	s.Processed++
	switch outcome {
	case OutcomeCopied:
		s.Copied++
		s.BytesCopied += size
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
