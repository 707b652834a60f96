// Package output renders run summaries for people and for CI.
//
// New selects a Formatter by name: console (colored text, the default), json,
// junit or tap. The machine formats collect every summary of a command and
// write a single document when Finish flushes them. Console and json can also
// render a Comparison between a sequential and a parallel run.
//
// Progress is a runner.Observer that reports finished tests while a run is in
// flight.
package output
