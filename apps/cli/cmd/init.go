package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/suiterun/packages/core/config"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suitefile"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new suiterun project",
	Long: `Initialize a new suiterun project in the current directory.

This creates:
  - .suiterun.config.json  - Configuration file
  - example.suite.yaml     - Example suite file

Examples:
  suiterun init
  suiterun init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}

// exampleSuite exercises every step kind, a dependency and the retry path
func exampleSuite() *suitefile.File {
	return &suitefile.File{
		Suite:       "example",
		Description: "Example suite created by suiterun init",
		Tests: []suitefile.TestSpec{
			{
				Name:     "setup",
				Priority: intPtr(1),
				Steps: []suitefile.Step{
					{Log: strPtr("preparing fixtures")},
					{Sleep: "100ms"},
				},
			},
			{
				Name:     "usesSetup",
				Priority: intPtr(2),
				Depends:  []string{"setup"},
				Steps:    []suitefile.Step{{Sleep: "150ms"}},
			},
			{
				Name:     "flaky",
				Priority: intPtr(3),
				Steps: []suitefile.Step{
					{Flaky: intPtr(2)},
					{Sleep: "50ms"},
				},
			},
			{
				Name:  "broken",
				Steps: []suitefile.Step{{Fail: strPtr("this test always fails")}},
			},
		},
	}
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(initDir)
	if err != nil {
		return err
	}

	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	exampleFile := filepath.Join(dir, "example.suite.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return exitError(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Paths = []string{"example.suite.yaml"}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	exampleYAML, err := yaml.Marshal(exampleSuite())
	if err != nil {
		return fmt.Errorf("failed to render example suite: %w", err)
	}
	if err := os.WriteFile(exampleFile, exampleYAML, 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nsuiterun project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'suiterun run example.suite.yaml' to execute the example suite.\n")

	return nil
}
