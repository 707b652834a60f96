package output

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/results"
	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func sampleSummary() *runner.Summary {
	infra := &runner.InfrastructureError{Test: "testE", Attempt: 3, Err: errors.New("fixture unavailable")}
	return &runner.Summary{
		RunID:      "7f9c2ba4-e88f-11ea-adc1-0242ac120002",
		Suite:      "sample",
		Workers:    4,
		StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:   500 * time.Millisecond,
		Total:      5,
		Passed:     2,
		Failed:     1,
		Skipped:    1,
		Errored:    1,
		Busy:       1500 * time.Millisecond,
		Baseline:   1500 * time.Millisecond,
		Speedup:    3,
		Efficiency: 75,
		Durations: results.DurationStats{
			Count: 3,
			Min:   100 * time.Millisecond,
			Max:   200 * time.Millisecond,
			Mean:  150 * time.Millisecond,
			P50:   150 * time.Millisecond,
			P95:   200 * time.Millisecond,
			P99:   200 * time.Millisecond,
		},
		Results: []*runner.TestResult{
			{Name: "testA", Priority: suite.IntPtr(1), Recorded: true,
				Outcome: results.Outcome{Status: results.StatusPassed, Attempts: 1, Duration: 100 * time.Millisecond}},
			{Name: "testB", Priority: suite.IntPtr(2), Recorded: true,
				Outcome: results.Outcome{Status: results.StatusPassed, Attempts: 2, Duration: 200 * time.Millisecond}},
			{Name: "testC", Dependencies: []string{"testD"}, Recorded: true,
				Outcome: results.Outcome{Status: results.StatusSkipped, Reason: "dependency testD failed"}},
			{Name: "testD", Recorded: true,
				Outcome: results.Outcome{Status: results.StatusFailed, Attempts: 3, Duration: 150 * time.Millisecond, Reason: "Test D failed"}},
			{Name: "testE", Err: infra, Outcome: results.Outcome{Attempts: 3}},
		},
		Errors: multierror.Append(nil, infra).ErrorOrNil(),
	}
}

func TestNew(t *testing.T) {
	for _, format := range Formats {
		f, err := New(format, Options{Writer: &bytes.Buffer{}})
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	f, err := New("", Options{})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	_, err = New("html", Options{})
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatHeader("1.0.0")
	f.FormatSummary(sampleSummary())
	out := buf.String()

	assert.Contains(t, out, "suiterun 1.0.0")
	assert.Contains(t, out, "Running: sample")
	assert.Contains(t, out, "testA: PASSED (100ms)")
	assert.Contains(t, out, "testC: SKIPPED (0ms)")
	assert.Contains(t, out, "dependency testD failed")
	assert.Contains(t, out, "testD: FAILED (150ms)")
	assert.Contains(t, out, "testE: ERROR (0ms)")
	assert.Contains(t, out, "fixture unavailable")
	assert.Contains(t, out, "Total time taken: 500ms")
	assert.Contains(t, out, "2 passed, 1 failed, 1 skipped, 1 errored, 5 total")
	assert.Contains(t, out, "Speedup: 3.00x (baseline 1500ms)")
	assert.Contains(t, out, "Efficiency: 75.0%")
	assert.NotContains(t, out, "Attempts:")

	// Result lines keep submission order
	assert.Less(t, strings.Index(out, "testA:"), strings.Index(out, "testB:"))
	assert.Less(t, strings.Index(out, "testD:"), strings.Index(out, "testE:"))
}

func TestConsoleFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	f.FormatSummary(sampleSummary())
	out := buf.String()

	assert.Contains(t, out, "Attempts: 2")
	assert.Contains(t, out, "p95 200ms")
	assert.Contains(t, out, "Run: 7f9c2ba4")
}

func TestConsoleFormatterSequential(t *testing.T) {
	var buf bytes.Buffer
	s := sampleSummary()
	s.Sequential = true
	s.Workers = 1

	NewConsoleFormatter(WithWriter(&buf), WithNoColor(true)).FormatSummary(s)
	assert.Contains(t, buf.String(), "(sequential)")
	assert.NotContains(t, buf.String(), "Speedup")
}

func TestConsoleFormatComparison(t *testing.T) {
	seq := sampleSummary()
	seq.Duration = 2 * time.Second
	par := sampleSummary()

	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatComparison(runner.Compare(seq, par))
	out := buf.String()

	assert.Contains(t, out, "Sequential: 2000ms")
	assert.Contains(t, out, "Parallel:   500ms (4 workers)")
	assert.Contains(t, out, "Speedup:    4.00x")
	assert.Contains(t, out, "Efficiency: 100.0%")
	assert.Contains(t, out, "consistent")

	buf.Reset()
	f.FormatComparison(runner.Compare(nil, par))
	assert.Contains(t, buf.String(), "incomplete")
}

func TestConsoleFormatError(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleFormatter(WithWriter(&buf), WithNoColor(true)).FormatError(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatHeader("1.0.0")
	f.FormatSummary(sampleSummary())
	require.NoError(t, f.Flush())

	doc := buf.String()
	require.True(t, gjson.Valid(doc))

	assert.Equal(t, int64(5), gjson.Get(doc, "summary.total").Int())
	assert.Equal(t, int64(2), gjson.Get(doc, "summary.passed").Int())
	assert.Equal(t, int64(1), gjson.Get(doc, "summary.errored").Int())

	assert.Equal(t, "7f9c2ba4-e88f-11ea-adc1-0242ac120002", gjson.Get(doc, "runs.0.runId").String())
	assert.Equal(t, "sample", gjson.Get(doc, "runs.0.suite").String())
	assert.InDelta(t, 3.0, gjson.Get(doc, "runs.0.speedup").Float(), 0.0001)
	assert.InDelta(t, 200.0, gjson.Get(doc, "runs.0.stats.p95").Float(), 0.0001)

	assert.Equal(t, "PASSED", gjson.Get(doc, "runs.0.tests.0.status").String())
	assert.Equal(t, int64(1), gjson.Get(doc, "runs.0.tests.0.priority").Int())
	assert.False(t, gjson.Get(doc, "runs.0.tests.2.priority").Exists())
	assert.Equal(t, "testD", gjson.Get(doc, "runs.0.tests.2.dependencies.0").String())
	assert.Equal(t, "FAILED", gjson.Get(doc, `runs.0.tests.#(name=="testD").status`).String())
	assert.Equal(t, int64(3), gjson.Get(doc, `runs.0.tests.#(name=="testD").attempts`).Int())
	assert.Equal(t, "ERROR", gjson.Get(doc, `runs.0.tests.#(name=="testE").status`).String())
	assert.Contains(t, gjson.Get(doc, `runs.0.tests.#(name=="testE").error`).String(), "fixture unavailable")
	assert.Equal(t, int64(1), gjson.Get(doc, "runs.0.errors.#").Int())
	assert.False(t, gjson.Get(doc, "comparison").Exists())
}

func TestJSONFormatterComparison(t *testing.T) {
	seq := sampleSummary()
	seq.Sequential = true
	seq.Duration = time.Second
	par := sampleSummary()

	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatSummary(seq)
	f.FormatSummary(par)
	f.FormatComparison(runner.Compare(seq, par))
	require.NoError(t, f.Flush())

	doc := buf.String()
	assert.Equal(t, int64(2), gjson.Get(doc, "runs.#").Int())
	assert.Equal(t, int64(10), gjson.Get(doc, "summary.total").Int())
	assert.True(t, gjson.Get(doc, "runs.0.sequential").Bool())
	assert.InDelta(t, 2.0, gjson.Get(doc, "comparison.speedup").Float(), 0.0001)
	assert.True(t, gjson.Get(doc, "comparison.consistent").Bool())
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatSummary(sampleSummary())
	require.NoError(t, f.Flush())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml"))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(out), &suites))

	assert.Equal(t, 5, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)
	require.Len(t, suites.TestSuites, 1)

	ts := suites.TestSuites[0]
	assert.Equal(t, "sample", ts.Name)
	assert.Equal(t, "7f9c2ba4-e88f-11ea-adc1-0242ac120002", ts.ID)
	require.Len(t, ts.TestCases, 5)
	assert.Nil(t, ts.TestCases[0].Failure)
	require.NotNil(t, ts.TestCases[2].Skipped)
	assert.Equal(t, "dependency testD failed", ts.TestCases[2].Skipped.Message)
	require.NotNil(t, ts.TestCases[3].Failure)
	assert.Contains(t, ts.TestCases[3].Failure.Content, "failed after 3 attempts")
	assert.Equal(t, []JUnitProperty{{Name: "attempts", Value: "3"}}, ts.TestCases[3].Properties)
	assert.Empty(t, ts.TestCases[2].Properties)
	require.NotNil(t, ts.TestCases[4].Error)
	assert.Equal(t, "InfrastructureError", ts.TestCases[4].Error.Type)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatSummary(sampleSummary())
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n1..5\n")
	assert.Contains(t, out, "ok 1 - testA\n")
	assert.Contains(t, out, "ok 3 - testC # SKIP dependency testD failed\n")
	assert.Contains(t, out, "not ok 4 - testD\n")
	assert.Contains(t, out, "  attempts: 3\n")
	assert.Contains(t, out, "not ok 5 - testE\n")
	assert.Contains(t, out, "  severity: error\n")
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"key: \"value\""`, escapeYAML(`key: "value"`))
}

func TestFinish(t *testing.T) {
	var buf bytes.Buffer
	f, err := New("tap", Options{Writer: &buf})
	require.NoError(t, err)
	require.NoError(t, Finish(f))
	assert.Contains(t, buf.String(), "1..0")

	console, err := New("console", Options{Writer: &buf})
	require.NoError(t, err)
	assert.NoError(t, Finish(console))
}
