package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/config"
	"github.com/abdul-hamid-achik/suiterun/packages/core/env"
	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Shared flags of run and compare
var (
	configFlag     string
	envFileFlag    string
	workersFlag    int
	baselineFlag   int
	nameFlag       string
	outputFlag     string
	outputFileFlag string
	noColorFlag    bool
	noProgressFlag bool
	verboseFlag    int
)

func addExecutionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFlag, "config", "", "Path to config file (env: SUITERUN_CONFIG)")
	cmd.Flags().StringVar(&envFileFlag, "env-file", "", "Path to .env file loaded before reading SUITERUN_* variables (env: SUITERUN_ENV_FILE)")
	cmd.Flags().IntVarP(&workersFlag, "workers", "j", config.DefaultWorkers, "Number of workers in the pool (env: SUITERUN_WORKERS)")
	cmd.Flags().IntVar(&baselineFlag, "baseline", 0, "Nominal sequential time in ms for the speedup figure; 0 sums attempt times (env: SUITERUN_BASELINE_MS)")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only tests matching name pattern (env: SUITERUN_NAME)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", config.DefaultOutput, "Output format: console, json, junit, tap (env: SUITERUN_OUTPUT)")
	cmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout) (env: SUITERUN_OUTPUT_FILE)")
	cmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: SUITERUN_NO_COLOR)")
	cmd.Flags().BoolVar(&noProgressFlag, "no-progress", false, "Disable the progress display (env: SUITERUN_NO_PROGRESS)")
	cmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v for debug logs, -vv for trace)")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputFormats)
}

// settings are the effective values after merging defaults, the config
// file, SUITERUN_* variables and flags, in increasing precedence
type settings struct {
	workers    int
	baseline   time.Duration
	name       string
	output     string
	outputFile string
	noColor    bool
	progress   bool
	verbosity  int
	paths      []string
}

func resolveSettings(cmd *cobra.Command) (*settings, error) {
	envFile := envFileFlag
	if envFile == "" {
		envFile = os.Getenv("SUITERUN_ENV_FILE")
	}
	if envFile != "" {
		if _, err := env.LoadAndExportDotEnv(envFile); err != nil {
			return nil, exitError(ExitConfigError, err)
		}
	} else if _, err := env.LoadDefaults("."); err != nil {
		return nil, exitError(ExitConfigError, err)
	}

	configPath := configFlag
	if configPath == "" {
		configPath = env.String("SUITERUN_CONFIG", "")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, exitError(ExitConfigError, err)
	}

	fromEnv := &config.Config{
		Workers:    env.Int("SUITERUN_WORKERS", 0),
		BaselineMs: env.Int("SUITERUN_BASELINE_MS", 0),
		Output:     env.String("SUITERUN_OUTPUT", ""),
	}
	if v, ok := os.LookupEnv("SUITERUN_NO_COLOR"); ok && v != "" {
		fromEnv.NoColor = config.BoolPtr(env.Bool("SUITERUN_NO_COLOR", false))
	}
	if v, ok := os.LookupEnv("SUITERUN_NO_PROGRESS"); ok && v != "" {
		fromEnv.Progress = config.BoolPtr(!env.Bool("SUITERUN_NO_PROGRESS", false))
	}
	cfg = cfg.Merge(fromEnv)

	flags := cmd.Flags()
	fromFlags := &config.Config{}
	if flags.Changed("workers") {
		fromFlags.Workers = workersFlag
	}
	if flags.Changed("baseline") {
		fromFlags.BaselineMs = baselineFlag
	}
	if flags.Changed("output") {
		fromFlags.Output = outputFlag
	}
	if flags.Changed("no-color") {
		fromFlags.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("no-progress") {
		fromFlags.Progress = config.BoolPtr(!noProgressFlag)
	}
	cfg = cfg.Merge(fromFlags)

	if flags.Changed("workers") && workersFlag <= 0 {
		return nil, exitError(ExitUsageError, fmt.Errorf("--workers must be positive, got %d", workersFlag))
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(ExitConfigError, err)
	}

	s := &settings{
		workers:    cfg.Workers,
		baseline:   cfg.Baseline(),
		name:       env.String("SUITERUN_NAME", ""),
		output:     cfg.Output,
		outputFile: env.String("SUITERUN_OUTPUT_FILE", ""),
		noColor:    cfg.GetNoColor(),
		progress:   cfg.GetProgress(),
		verbosity:  verboseFlag,
		paths:      cfg.Paths,
	}
	if flags.Changed("name") {
		s.name = nameFlag
	}
	if flags.Changed("output-file") {
		s.outputFile = outputFileFlag
	}
	if s.outputFile == "" && cfg.OutputDir != "" && s.output != "console" {
		s.outputFile = filepath.Join(cfg.OutputDir, "report."+reportExtension(s.output))
	}
	if s.verbosity == 0 && cfg.GetVerbose() {
		s.verbosity = 1
	}
	return s, nil
}

func reportExtension(format string) string {
	switch format {
	case "junit":
		return "xml"
	case "tap":
		return "tap"
	}
	return "json"
}

func (s *settings) logger(w io.Writer) *logrus.Logger {
	return logging.New(
		logging.WithWriter(w),
		logging.WithVerbosity(s.verbosity),
		logging.WithNoColor(s.noColor),
	)
}

// openOutput returns the report writer and a function closing it
func (s *settings) openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if s.outputFile == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	if dir := filepath.Dir(s.outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(s.outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
