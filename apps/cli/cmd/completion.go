package cmd

import (
	"strings"

	"github.com/abdul-hamid-achik/suiterun/packages/output"
	"github.com/spf13/cobra"
)

// completeTargets offers built-in suite names and lets the shell complete
// suite files and directories
func completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cmd.Name() == "compare" && len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, name := range builtins.Suites() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name+"\tbuilt-in suite")
		}
	}
	return names, cobra.ShellCompDirectiveDefault
}

func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return output.Formats, cobra.ShellCompDirectiveNoFileComp
}

func completeSuiteFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
