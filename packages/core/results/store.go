// Package results holds the per-run outcome store shared by all units of work.
package results

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/puzpuzpuz/xsync/v3"
)

// Status is the terminal verdict of a test
type Status int

const (
	// StatusPassed means the body completed normally on some attempt
	StatusPassed Status = iota + 1
	// StatusFailed means every attempt failed
	StatusFailed
	// StatusSkipped means a dependency was unresolved or did not pass
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the terminal statuses
func (s Status) Valid() bool {
	return s >= StatusPassed && s <= StatusSkipped
}

// Outcome is the recorded verdict for one test
type Outcome struct {
	Status   Status
	Attempts int
	Duration time.Duration
	Reason   string
}

// histogram bounds in microseconds: 1us to 60s
const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Store maps test names to outcomes. Each name is written at most once; the
// counters are bumped only by the write that wins.
type Store struct {
	outcomes *xsync.MapOf[string, Outcome]

	passed  atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	totalTime atomic.Int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		outcomes:  xsync.NewMapOf[string, Outcome](),
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record writes the outcome for name. It returns false if an outcome was
// already recorded for that name or the status is not terminal; in both
// cases the store is left untouched.
func (s *Store) Record(name string, o Outcome) bool {
	if !o.Status.Valid() {
		return false
	}

	if _, loaded := s.outcomes.LoadOrStore(name, o); loaded {
		return false
	}

	switch o.Status {
	case StatusPassed:
		s.passed.Add(1)
	case StatusFailed:
		s.failed.Add(1)
	case StatusSkipped:
		s.skipped.Add(1)
		return true
	}

	s.recordDuration(o.Duration)
	return true
}

func (s *Store) recordDuration(d time.Duration) {
	s.totalTime.Add(int64(d))

	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}

	s.mu.Lock()
	_ = s.histogram.RecordValue(us)
	s.mu.Unlock()
}

// Lookup returns the outcome recorded for name, if any
func (s *Store) Lookup(name string) (Outcome, bool) {
	return s.outcomes.Load(name)
}

// Satisfied reports whether name has a recorded Passed outcome. A missing
// outcome is not satisfied.
func (s *Store) Satisfied(name string) bool {
	o, ok := s.outcomes.Load(name)
	return ok && o.Status == StatusPassed
}

// PassedCount returns the number of passed tests
func (s *Store) PassedCount() int { return int(s.passed.Load()) }

// FailedCount returns the number of failed tests
func (s *Store) FailedCount() int { return int(s.failed.Load()) }

// SkippedCount returns the number of skipped tests
func (s *Store) SkippedCount() int { return int(s.skipped.Load()) }

// Recorded returns the number of outcomes in the store
func (s *Store) Recorded() int {
	return s.outcomes.Size()
}

// Outcomes returns a copy of every recorded outcome
func (s *Store) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome, s.outcomes.Size())
	s.outcomes.Range(func(name string, o Outcome) bool {
		out[name] = o
		return true
	})
	return out
}

// DurationStats summarizes the durations of executed (non-skipped) tests
type DurationStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Durations returns percentile statistics over executed tests
func (s *Store) Durations() DurationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := DurationStats{
		Count: s.histogram.TotalCount(),
		Total: time.Duration(s.totalTime.Load()),
	}
	if stats.Count == 0 {
		return stats
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	stats.Min = us(s.histogram.Min())
	stats.Max = us(s.histogram.Max())
	stats.Mean = us(int64(s.histogram.Mean()))
	stats.P50 = us(s.histogram.ValueAtQuantile(50))
	stats.P95 = us(s.histogram.ValueAtQuantile(95))
	stats.P99 = us(s.histogram.ValueAtQuantile(99))
	return stats
}
