package runner

import (
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/results"
)

// TestResult is the reported state of one test after a run
type TestResult struct {
	Name         string
	Priority     *int
	Dependencies []string
	Outcome      results.Outcome
	Recorded     bool  // false when no verdict was reached
	Err          error // infrastructure error when Recorded is false
}

// StatusLabel returns PASSED, FAILED, SKIPPED, or ERROR for units without a verdict
func (r *TestResult) StatusLabel() string {
	if !r.Recorded {
		return "ERROR"
	}
	return r.Outcome.Status.String()
}

// Passed reports whether the test passed
func (r *TestResult) Passed() bool {
	return r.Recorded && r.Outcome.Status == results.StatusPassed
}

// Failed reports whether the test failed after exhausting its attempts
func (r *TestResult) Failed() bool {
	return r.Recorded && r.Outcome.Status == results.StatusFailed
}

// Skipped reports whether the test was skipped on a dependency
func (r *TestResult) Skipped() bool {
	return r.Recorded && r.Outcome.Status == results.StatusSkipped
}

// Summary is the aggregate report of a run
type Summary struct {
	RunID      string
	Suite      string
	Workers    int
	Sequential bool
	StartedAt  time.Time
	Duration   time.Duration

	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Errored  int
	Filtered int

	// Results are in submission (priority) order
	Results   []*TestResult
	Durations results.DurationStats

	// Busy is the summed wall time of every attempt, retries included
	Busy       time.Duration
	Baseline   time.Duration
	Speedup    float64
	Efficiency float64 // percent of ideal linear scaling

	Errors error
}

// Success reports whether nothing failed and nothing hit an infrastructure error
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Errored == 0
}

// Accounted returns the number of tests that landed in a counter bucket
func (s *Summary) Accounted() int {
	return s.Passed + s.Failed + s.Skipped
}

func (s *Summary) computeSpeedup() {
	s.Speedup, s.Efficiency = speedup(s.Baseline, s.Duration, s.Workers)
}

func speedup(baseline, elapsed time.Duration, workers int) (float64, float64) {
	if baseline <= 0 || elapsed <= 0 || workers <= 0 {
		return 0, 0
	}
	sp := float64(baseline) / float64(elapsed)
	return sp, sp / float64(workers) * 100
}

// Comparison contrasts a sequential baseline run with a parallel run of the same suite
type Comparison struct {
	Sequential *Summary
	Parallel   *Summary
	Speedup    float64
	Efficiency float64
	// Consistent is true when every test reached the same status in both runs
	Consistent bool
	Mismatches []string
}

// Compare measures the parallel run against the sequential one
func Compare(sequential, parallel *Summary) *Comparison {
	c := &Comparison{Sequential: sequential, Parallel: parallel, Consistent: true}
	if sequential == nil || parallel == nil {
		c.Consistent = false
		return c
	}

	c.Speedup, c.Efficiency = speedup(sequential.Duration, parallel.Duration, parallel.Workers)

	seq := make(map[string]string, len(sequential.Results))
	for _, r := range sequential.Results {
		seq[r.Name] = r.StatusLabel()
	}
	for _, r := range parallel.Results {
		if seq[r.Name] != r.StatusLabel() {
			c.Consistent = false
			c.Mismatches = append(c.Mismatches, r.Name)
		}
	}
	return c
}
