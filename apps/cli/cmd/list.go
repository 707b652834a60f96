package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/suiterun/packages/core/runner"
	"github.com/spf13/cobra"
)

var listNameFlag string

var listCmd = &cobra.Command{
	Use:   "list [suite|file|directory]...",
	Short: "List the execution plan of suites",
	Long: `List the tests of each suite in the order they are submitted to the pool.
Without arguments the built-in suites are listed.

Examples:
  suiterun list
  suiterun list sample
  suiterun list ./suites --name "test*"`,
	ValidArgsFunction: completeTargets,
	RunE:              listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listNameFlag, "name", "n", "", "List only tests matching name pattern")
}

func listCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintf(out, "Built-in suites:\n")
		for _, name := range builtins.Suites() {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return nil
	}

	t, err := resolveTargets(args)
	if err != nil {
		return err
	}

	r := runner.NewRunner(&runner.Config{NameFilter: listNameFlag})
	for _, name := range t.names {
		plan, err := r.Plan(t.provider, name)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error listing %s: %v\n", name, err)
			continue
		}

		fmt.Fprintf(out, "\n%s:\n", name)
		for i, d := range plan {
			priority := "-"
			if d.HasPriority() {
				priority = fmt.Sprintf("%d", *d.Priority)
			}
			fmt.Fprintf(out, "  %2d. %s (priority %s)\n", i+1, d.Name, priority)
			if len(d.Dependencies) > 0 {
				fmt.Fprintf(out, "      depends on: %s\n", strings.Join(d.Dependencies, ", "))
			}
		}
	}

	return nil
}
