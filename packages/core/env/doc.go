// Package env handles environment variables for suiterun.
//
// It provides functionality for:
//   - Loading environment files (.env, .env.local) into the process environment
//   - Reading SUITERUN_* variables used as command line defaults
package env
