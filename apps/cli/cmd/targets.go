package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suitefile"
	"github.com/abdul-hamid-achik/suiterun/packages/samples"
)

// builtins holds the suites compiled into the binary
var builtins = samples.Default()

// targets is the resolved set of suites a command operates on
type targets struct {
	names    []string
	files    []string // suite files behind the names, for watching
	provider suite.Provider
}

// resolveTargets turns arguments into suites. Each argument is a suite file,
// a directory of suite files, or the name of a built-in suite.
func resolveTargets(args []string) (*targets, error) {
	files, err := suitefile.NewProvider()
	if err != nil {
		return nil, err
	}
	t := &targets{provider: suite.Providers{files, builtins}}

	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			paths, err := suitefile.CollectFiles([]string{arg})
			if err != nil {
				return nil, exitError(ExitUsageError, err)
			}
			if len(paths) == 0 {
				return nil, exitError(ExitUsageError, fmt.Errorf("no suite files found in %s", arg))
			}
			for _, path := range paths {
				name, err := files.Add(path)
				if err != nil {
					return nil, exitError(ExitParseError, err)
				}
				t.add(name, path)
			}
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, exitError(ExitUsageError, fmt.Errorf("cannot access %s: %w", arg, err))
		}

		if slices.Contains(builtins.Suites(), arg) {
			t.add(arg, "")
			continue
		}
		return nil, exitError(ExitUsageError, fmt.Errorf("%q is neither a suite file nor a built-in suite (available: %v)", arg, builtins.Suites()))
	}

	if len(t.names) == 0 {
		return nil, exitError(ExitUsageError, errors.New("no suites to run"))
	}
	return t, nil
}

func (t *targets) add(name, path string) {
	if slices.Contains(t.names, name) {
		return
	}
	t.names = append(t.names, name)
	if path != "" {
		t.files = append(t.files, path)
	}
}
