package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
)

// Formats lists the supported output formats
var Formats = []string{"console", "json", "junit", "tap"}

// Formatter renders run summaries
type Formatter interface {
	FormatSummary(summary *runner.Summary)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that accumulate summaries and
// write them all at once
type Flushable interface {
	Flush() error
}

// ComparisonFormatter is implemented by formatters that can render a
// sequential versus parallel comparison
type ComparisonFormatter interface {
	FormatComparison(c *runner.Comparison)
}

// Options holds the settings shared by every formatter
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New builds the formatter for format. An empty format selects console.
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	case "junit":
		var junitOpts []JUnitOption
		if opts.Writer != nil {
			junitOpts = append(junitOpts, JUnitWithWriter(opts.Writer))
		}
		return NewJUnitFormatter(junitOpts...), nil
	case "tap":
		var tapOpts []TAPOption
		if opts.Writer != nil {
			tapOpts = append(tapOpts, TAPWithWriter(opts.Writer))
		}
		return NewTAPFormatter(tapOpts...), nil
	case "", "console":
		consoleOpts := []ConsoleOption{
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	}
	return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
}

// Finish flushes f when it accumulates output
func Finish(f Formatter) error {
	if flushable, ok := f.(Flushable); ok {
		if err := flushable.Flush(); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return nil
}
