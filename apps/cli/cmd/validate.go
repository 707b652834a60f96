package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suitefile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate suite files against the schema",
	Long: `Validate suite files without executing them.

Examples:
  suiterun validate checkout.suite.yaml
  suiterun validate ./suites/`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSuiteFiles,
	RunE:              validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := suitefile.CollectFiles(args)
	if err != nil {
		return exitError(ExitUsageError, err)
	}

	if len(files) == 0 {
		return exitError(ExitUsageError, errors.New("no suite files found"))
	}

	hasErrors := false
	for _, file := range files {
		f, err := suitefile.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		if _, err := f.Descriptors(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%s, %d tests)\n", file, f.Suite, len(f.Tests))
	}

	if hasErrors {
		return exitError(ExitParseError, errors.New("validation failed"))
	}

	return nil
}
