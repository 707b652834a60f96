package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/abdul-hamid-achik/suiterun/packages/output"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <suite|file>",
	Short: "Compare a sequential run with a parallel run",
	Long: `Run a suite once on the calling goroutine and once on the worker pool,
then report both timings, the measured speedup and the efficiency.

Examples:
  suiterun compare sample
  suiterun compare checkout.suite.yaml --workers 8 --output json`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTargets,
	RunE:              compareCommand,
}

func init() {
	addExecutionFlags(compareCmd)
}

func compareCommand(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	t, err := resolveTargets(args)
	if err != nil {
		return err
	}
	if len(t.names) != 1 {
		return exitError(ExitUsageError, fmt.Errorf("compare needs exactly one suite, %d found", len(t.names)))
	}
	name := t.names[0]

	writer, closeOutput, err := s.openOutput(cmd)
	if err != nil {
		return exitError(ExitConfigError, err)
	}
	defer closeOutput()

	formatter, err := output.New(s.output, output.Options{Writer: writer, Verbose: s.verbosity > 0, NoColor: s.noColor})
	if err != nil {
		return exitError(ExitUsageError, err)
	}
	comparer, ok := formatter.(output.ComparisonFormatter)
	if !ok {
		return exitError(ExitUsageError, fmt.Errorf("output format %q cannot render a comparison", s.output))
	}
	formatter.FormatHeader(version)

	log := s.logger(cmd.ErrOrStderr())
	var observer runner.Observer
	if s.progress {
		observer = output.NewProgress(cmd.ErrOrStderr(), log)
	}
	r := newRunner(s, log, observer)

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	sequential, err := r.RunSequential(ctx, t.provider, name)
	if err != nil {
		return compareError(formatter, err)
	}
	formatter.FormatSummary(sequential)

	parallel, err := r.Run(ctx, t.provider, name)
	if err != nil {
		return compareError(formatter, err)
	}
	formatter.FormatSummary(parallel)

	comparer.FormatComparison(runner.Compare(sequential, parallel))
	return output.Finish(formatter)
}

func compareError(formatter output.Formatter, err error) error {
	formatter.FormatError(err)
	if errors.Is(err, runner.ErrRunAborted) {
		return exitError(ExitInterrupted, err)
	}
	return exitError(ExitParseError, err)
}
