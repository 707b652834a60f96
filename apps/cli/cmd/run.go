package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/env"
	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suitefile"
	"github.com/abdul-hamid-achik/suiterun/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var runCmd = &cobra.Command{
	Use:   "run [suite|file|directory]...",
	Short: "Run suites on the worker pool",
	Long: `Run test suites concurrently on a fixed pool of workers.

Arguments are suite files (*.suite.yaml), directories containing them, or
the name of a built-in suite. Without arguments the paths from the config
file are used.

Examples:
  suiterun run sample
  suiterun run checkout.suite.yaml --workers 8
  suiterun run ./suites --name "test*" --output junit --output-file report.xml
  suiterun run ./suites --watch`,
	ValidArgsFunction: completeTargets,
	RunE:              runCommand,
}

var watchFlag bool

func init() {
	addExecutionFlags(runCmd)
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch suite files for changes and re-run")
}

// interruptContext is cancelled on SIGINT or SIGTERM
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newRunner(s *settings, log logrus.FieldLogger, observer runner.Observer) *runner.Runner {
	return runner.NewRunner(&runner.Config{
		Workers:    s.workers,
		Baseline:   s.baseline,
		NameFilter: s.name,
		Logger:     log,
		Observer:   observer,
	})
}

// runSuites executes every target once and reports to formatter. The
// returned error carries the exit code.
func runSuites(ctx context.Context, r *runner.Runner, t *targets, formatter output.Formatter) error {
	failed := false
	for _, name := range t.names {
		summary, err := r.Run(ctx, t.provider, name)
		if err != nil {
			formatter.FormatError(err)
			if errors.Is(err, runner.ErrRunAborted) {
				return exitError(ExitInterrupted, err)
			}
			return exitError(ExitParseError, err)
		}

		formatter.FormatSummary(summary)
		if !summary.Success() {
			failed = true
		}
	}

	if err := output.Finish(formatter); err != nil {
		return err
	}
	if failed {
		return exitError(ExitTestFailure, nil)
	}
	return nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = s.paths
	}
	if len(args) == 0 {
		return exitError(ExitUsageError, errors.New("no suites given and no paths configured"))
	}

	log := s.logger(cmd.ErrOrStderr())
	log.WithField(logging.FieldSuite, args).Debugf("SUITERUN_* settings: %v", env.LoadSystemEnv(env.Prefix))

	t, err := resolveTargets(args)
	if err != nil {
		return err
	}

	writer, closeOutput, err := s.openOutput(cmd)
	if err != nil {
		return exitError(ExitConfigError, err)
	}
	defer closeOutput()

	formatter, err := output.New(s.output, output.Options{Writer: writer, Verbose: s.verbosity > 0, NoColor: s.noColor})
	if err != nil {
		return exitError(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	var observer runner.Observer
	if s.progress {
		observer = output.NewProgress(cmd.ErrOrStderr(), log)
	}
	r := newRunner(s, log, observer)

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	runErr := runSuites(ctx, r, t, formatter)
	if !watchFlag {
		return runErr
	}
	if len(t.files) == 0 {
		return exitError(ExitUsageError, errors.New("--watch needs at least one suite file"))
	}

	return watch(ctx, cmd, t, func(w io.Writer) {
		f, err := output.New(s.output, output.Options{Writer: w, Verbose: s.verbosity > 0, NoColor: s.noColor})
		if err != nil {
			return
		}
		_ = runSuites(ctx, r, t, f)
	})
}

// watch re-runs the suites whenever one of their files changes, until ctx is
// cancelled
func watch(ctx context.Context, cmd *cobra.Command, t *targets, rerun func(w io.Writer)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, file := range t.files {
		dir := filepath.Dir(file)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) || !suitefile.IsSuiteFile(event.Name) {
				continue
			}

			name := event.Name
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				mu.Lock()
				defer mu.Unlock()

				fmt.Fprintf(out, "\n\nFile changed: %s\nRe-running tests...\n\n", name)
				rerun(out)
				fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
