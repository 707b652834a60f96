package suite

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrSuiteNotFound is returned when a provider has no suite with the requested name
	ErrSuiteNotFound = errors.New("suite not found")
	// ErrDuplicateTest is returned when two descriptors share a name
	ErrDuplicateTest = errors.New("duplicate test name")
	// ErrInvalidDescriptor is returned for descriptors without a name or body
	ErrInvalidDescriptor = errors.New("invalid test descriptor")
)

// Body performs a test. Returning a non-nil error marks the attempt as failed.
type Body func(t *T) error

// Descriptor is the static metadata of one test
type Descriptor struct {
	Name         string
	Priority     *int
	Dependencies []string
	Body         Body
}

// HasPriority reports whether an explicit priority was given
func (d *Descriptor) HasPriority() bool {
	return d.Priority != nil
}

// PriorityValue returns the explicit priority, or math.MaxInt when absent
func (d *Descriptor) PriorityValue() int {
	if d.Priority == nil {
		return math.MaxInt
	}
	return *d.Priority
}

func (d *Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.Priority != nil {
		fmt.Fprintf(&b, " (priority %d)", *d.Priority)
	}
	if len(d.Dependencies) > 0 {
		fmt.Fprintf(&b, " depends on %s", strings.Join(d.Dependencies, ", "))
	}
	return b.String()
}

// Provider supplies descriptors for a named suite
type Provider interface {
	Discover(suite string) ([]*Descriptor, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(suite string) ([]*Descriptor, error)

// Discover calls f(suite)
func (f ProviderFunc) Discover(suite string) ([]*Descriptor, error) {
	return f(suite)
}

// Validate checks that every descriptor has a name and a body and that names
// are unique. Dependencies on unknown names are allowed; they are never satisfied.
func Validate(descs []*Descriptor) error {
	seen := make(map[string]bool, len(descs))
	for i, d := range descs {
		if d == nil {
			return fmt.Errorf("%w: descriptor %d is nil", ErrInvalidDescriptor, i)
		}
		if d.Name == "" {
			return fmt.Errorf("%w: descriptor %d has no name", ErrInvalidDescriptor, i)
		}
		if d.Body == nil {
			return fmt.Errorf("%w: %q has no body", ErrInvalidDescriptor, d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTest, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// IntPtr returns a pointer to n, for building descriptors with a priority
func IntPtr(n int) *int {
	return &n
}

// Providers tries each provider in turn. A provider answering
// ErrSuiteNotFound is skipped; any other error stops the search.
type Providers []Provider

// Discover returns the descriptors from the first provider that knows suite
func (ps Providers) Discover(suite string) ([]*Descriptor, error) {
	for _, p := range ps {
		if p == nil {
			continue
		}
		descs, err := p.Discover(suite)
		if errors.Is(err, ErrSuiteNotFound) {
			continue
		}
		return descs, err
	}
	return nil, fmt.Errorf("%w: %q", ErrSuiteNotFound, suite)
}
