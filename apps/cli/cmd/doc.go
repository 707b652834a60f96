// Package cmd implements the suiterun CLI commands using Cobra.
//
// Available commands:
//   - run: Execute suites on the worker pool
//   - compare: Run a suite sequentially and in parallel and report the speedup
//   - validate: Check suite files against the schema without executing
//   - list: Display the execution plan of suites
//   - init: Create a config file and an example suite file
//   - version: Show suiterun version information
//
// Arguments name either built-in suites or suite files and directories.
// The CLI supports flags for filtering, output formatting, and watch mode.
package cmd
