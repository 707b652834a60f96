package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(r *runner.TestResult) func(a ...any) string {
	switch {
	case r.Passed():
		return color.New(color.FgGreen).SprintFunc()
	case r.Skipped():
		return color.New(color.FgYellow).SprintFunc()
	case r.Failed():
		return color.New(color.FgRed).SprintFunc()
	}
	return color.New(color.FgMagenta).SprintFunc()
}

func (f *ConsoleFormatter) FormatSummary(s *runner.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	mode := fmt.Sprintf("%d workers", s.Workers)
	if s.Sequential {
		mode = "sequential"
	}
	title := "Running"
	if s.Suite != "" {
		title += ": " + s.Suite
	}
	fmt.Fprintf(f.writer, "\n%s %s\n\n", bold(title), cyan("("+mode+")"))

	for _, r := range s.Results {
		paint := statusColor(r)
		fmt.Fprintf(f.writer, "%s: %s (%dms)\n", r.Name, paint(r.StatusLabel()), r.Outcome.Duration.Milliseconds())

		switch {
		case r.Skipped() && r.Outcome.Reason != "":
			fmt.Fprintf(f.writer, "    %s\n", yellow(r.Outcome.Reason))
		case r.Failed():
			fmt.Fprintf(f.writer, "    %s %s\n", red("→"), r.Outcome.Reason)
		case !r.Recorded && r.Err != nil:
			fmt.Fprintf(f.writer, "    %s %v\n", magenta("→"), r.Err)
		}

		if f.verbose && r.Recorded && !r.Skipped() {
			fmt.Fprintf(f.writer, "    Attempts: %d\n", r.Outcome.Attempts)
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Total time taken: %dms\n", s.Duration.Milliseconds())

	fmt.Fprintf(f.writer, "Tests: ")
	if s.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", s.Skipped)))
	}
	if s.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", magenta(fmt.Sprintf("%d errored", s.Errored)))
	}
	fmt.Fprintf(f.writer, "%d total\n", s.Total)
	if s.Filtered > 0 {
		fmt.Fprintf(f.writer, "Filtered: %d\n", s.Filtered)
	}

	if !s.Sequential {
		fmt.Fprintf(f.writer, "Speedup: %.2fx (baseline %dms)\n", s.Speedup, s.Baseline.Milliseconds())
		fmt.Fprintf(f.writer, "Efficiency: %.1f%%\n", s.Efficiency)
	}

	if f.verbose && s.Durations.Count > 0 {
		d := s.Durations
		fmt.Fprintf(f.writer, "Durations: min %dms, p50 %dms, p95 %dms, p99 %dms, max %dms\n",
			d.Min.Milliseconds(), d.P50.Milliseconds(), d.P95.Milliseconds(), d.P99.Milliseconds(), d.Max.Milliseconds())
	}
	if f.verbose {
		fmt.Fprintf(f.writer, "Run: %s\n", s.RunID)
	}
	fmt.Fprintf(f.writer, "\n")
}

// FormatComparison prints both timings side by side with the measured speedup
func (f *ConsoleFormatter) FormatComparison(c *runner.Comparison) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "%s\n", bold("Comparison"))
	if c.Sequential == nil || c.Parallel == nil {
		fmt.Fprintf(f.writer, "  %s\n\n", red("incomplete: both runs are required"))
		return
	}

	fmt.Fprintf(f.writer, "  Sequential: %dms\n", c.Sequential.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "  Parallel:   %dms (%d workers)\n", c.Parallel.Duration.Milliseconds(), c.Parallel.Workers)
	fmt.Fprintf(f.writer, "  Speedup:    %.2fx\n", c.Speedup)
	fmt.Fprintf(f.writer, "  Efficiency: %.1f%%\n", c.Efficiency)

	if c.Consistent {
		fmt.Fprintf(f.writer, "  Outcomes:   %s\n", green("consistent"))
	} else {
		fmt.Fprintf(f.writer, "  Outcomes:   %s (%s)\n", red("differ"), strings.Join(c.Mismatches, ", "))
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("suiterun"), version)
}
