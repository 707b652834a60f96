package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/hashicorp/go-multierror"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary    JSONSummary     `json:"summary"`
	Runs       []JSONRun       `json:"runs"`
	Comparison *JSONComparison `json:"comparison,omitempty"`
	Time       string          `json:"time"`
}

// JSONSummary totals every run in the output
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// JSONRun represents one executed suite
type JSONRun struct {
	RunID      string        `json:"runId"`
	Suite      string        `json:"suite,omitempty"`
	Workers    int           `json:"workers"`
	Sequential bool          `json:"sequential,omitempty"`
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Errored    int           `json:"errored,omitempty"`
	Filtered   int           `json:"filtered,omitempty"`
	Duration   float64       `json:"duration"`
	Baseline   float64       `json:"baseline"`
	Speedup    float64       `json:"speedup"`
	Efficiency float64       `json:"efficiency"`
	Stats      JSONDurations `json:"stats"`
	Tests      []JSONTest    `json:"tests"`
	Errors     []string      `json:"errors,omitempty"`
}

// JSONDurations are per-test duration statistics in milliseconds
type JSONDurations struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// JSONTest represents a single test result
type JSONTest struct {
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	Priority     *int     `json:"priority,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Attempts     int      `json:"attempts"`
	Duration     float64  `json:"duration"`
	Reason       string   `json:"reason,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// JSONComparison represents a sequential versus parallel comparison
type JSONComparison struct {
	Sequential float64  `json:"sequential"`
	Parallel   float64  `json:"parallel"`
	Workers    int      `json:"workers"`
	Speedup    float64  `json:"speedup"`
	Efficiency float64  `json:"efficiency"`
	Consistent bool     `json:"consistent"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer     io.Writer
	runs       []JSONRun
	comparison *JSONComparison
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runs:   make([]JSONRun, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (f *JSONFormatter) FormatSummary(s *runner.Summary) {
	run := JSONRun{
		RunID:      s.RunID,
		Suite:      s.Suite,
		Workers:    s.Workers,
		Sequential: s.Sequential,
		Total:      s.Total,
		Passed:     s.Passed,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
		Errored:    s.Errored,
		Filtered:   s.Filtered,
		Duration:   millis(s.Duration),
		Baseline:   millis(s.Baseline),
		Speedup:    s.Speedup,
		Efficiency: s.Efficiency,
		Stats: JSONDurations{
			Min:  millis(s.Durations.Min),
			Mean: millis(s.Durations.Mean),
			P50:  millis(s.Durations.P50),
			P95:  millis(s.Durations.P95),
			P99:  millis(s.Durations.P99),
			Max:  millis(s.Durations.Max),
		},
		Tests: make([]JSONTest, 0, len(s.Results)),
	}

	for _, r := range s.Results {
		test := JSONTest{
			Name:         r.Name,
			Status:       r.StatusLabel(),
			Priority:     r.Priority,
			Dependencies: r.Dependencies,
			Attempts:     r.Outcome.Attempts,
			Duration:     millis(r.Outcome.Duration),
			Reason:       r.Outcome.Reason,
		}
		if r.Err != nil {
			test.Error = r.Err.Error()
		}
		run.Tests = append(run.Tests, test)
	}

	if merr, ok := s.Errors.(*multierror.Error); ok {
		for _, err := range merr.WrappedErrors() {
			run.Errors = append(run.Errors, err.Error())
		}
	} else if s.Errors != nil {
		run.Errors = []string{s.Errors.Error()}
	}

	f.runs = append(f.runs, run)
}

// FormatComparison records the comparison; both runs are expected to have
// been passed to FormatSummary as well
func (f *JSONFormatter) FormatComparison(c *runner.Comparison) {
	if c.Sequential == nil || c.Parallel == nil {
		return
	}
	f.comparison = &JSONComparison{
		Sequential: millis(c.Sequential.Duration),
		Parallel:   millis(c.Parallel.Duration),
		Workers:    c.Parallel.Workers,
		Speedup:    c.Speedup,
		Efficiency: c.Efficiency,
		Consistent: c.Consistent,
		Mismatches: c.Mismatches,
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual runs
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	var summary JSONSummary
	for _, r := range f.runs {
		summary.Total += r.Total
		summary.Passed += r.Passed
		summary.Failed += r.Failed
		summary.Skipped += r.Skipped
		summary.Errored += r.Errored
	}

	output := JSONOutput{
		Summary:    summary,
		Runs:       f.runs,
		Comparison: f.comparison,
		Time:       time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
