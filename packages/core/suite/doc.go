// Package suite defines test descriptors and the providers that discover them.
//
// A Descriptor carries a name, an optional priority, dependency names and a
// Body. Providers return descriptors for a named suite:
//   - Registry: suites declared in Go with a Builder
//   - suitefile: suites declared in YAML files (see packages/core/suitefile)
//
// The engine only reads descriptors; it never mutates them.
package suite
