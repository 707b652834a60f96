// Package runner executes test suites on a worker pool.
//
// It provides functionality for:
//   - Ordering descriptors by priority (stable, unprioritized last)
//   - Submitting one unit of work per test to a fixed-size pool
//   - Skipping tests whose dependencies have not passed
//   - Retrying failing test bodies up to MaxAttempts
//   - Aggregating outcomes into a Summary with timing and speedup
//
// All units are submitted at once. A dependent test that is picked up before
// its dependency has finished finds no outcome and is skipped, even if the
// dependency passes later. A dependent only gets a deterministic verdict when
// it runs with a single worker and its dependency sorts before it.
package runner
