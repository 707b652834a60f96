package runner

import (
	"cmp"
	"slices"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
)

// Order returns descriptors sorted by priority ascending. Descriptors without
// a priority come after every explicit one, and ties keep discovery order.
// The input slice is not modified.
func Order(descs []*suite.Descriptor) []*suite.Descriptor {
	ordered := slices.Clone(descs)
	slices.SortStableFunc(ordered, func(a, b *suite.Descriptor) int {
		switch {
		case a.HasPriority() && !b.HasPriority():
			return -1
		case !a.HasPriority() && b.HasPriority():
			return 1
		case !a.HasPriority() && !b.HasPriority():
			return 0
		}
		return cmp.Compare(*a.Priority, *b.Priority)
	})
	return ordered
}

// Filter keeps descriptors whose name matches pattern. An empty pattern keeps
// everything.
func Filter(descs []*suite.Descriptor, pattern string) (kept []*suite.Descriptor, dropped int) {
	if pattern == "" {
		return descs, 0
	}
	for _, d := range descs {
		if matchesPattern(d.Name, pattern) {
			kept = append(kept, d)
			continue
		}
		dropped++
	}
	return kept, dropped
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' && len(pattern) > 1 {
		substr := pattern[1 : len(pattern)-1]
		for i := 0; i <= len(name)-len(substr); i++ {
			if name[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	}

	if pattern[0] == '*' {
		suffix := pattern[1:]
		return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
	}

	if pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(name) >= len(prefix) && name[:len(prefix)] == prefix
	}

	return name == pattern
}
