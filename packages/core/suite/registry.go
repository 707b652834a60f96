package suite

import (
	"fmt"
	"sort"
	"sync"
)

// DefineFunc declares the tests of a suite on a Builder
type DefineFunc func(b *Builder)

// Registry is a Provider backed by statically registered suites. Every
// Discover call runs the suite's DefineFunc again, so each run gets its own
// descriptors.
type Registry struct {
	mu     sync.RWMutex
	suites map[string]DefineFunc
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{suites: make(map[string]DefineFunc)}
}

// Register adds a suite. Registering the same name twice is an error.
func (r *Registry) Register(name string, define DefineFunc) error {
	if name == "" || define == nil {
		return fmt.Errorf("register suite: name and definition are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.suites[name]; exists {
		return fmt.Errorf("register suite: %q already registered", name)
	}
	r.suites[name] = define
	return nil
}

// MustRegister is Register that panics on error
func (r *Registry) MustRegister(name string, define DefineFunc) {
	if err := r.Register(name, define); err != nil {
		panic(err)
	}
}

// Discover builds the descriptors of the named suite in declaration order
func (r *Registry) Discover(name string) ([]*Descriptor, error) {
	r.mu.RLock()
	define, ok := r.suites[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSuiteNotFound, name)
	}

	b := &Builder{}
	define(b)
	if b.err != nil {
		return nil, fmt.Errorf("suite %q: %w", name, b.err)
	}
	if err := Validate(b.descriptors); err != nil {
		return nil, fmt.Errorf("suite %q: %w", name, err)
	}
	return b.descriptors, nil
}

// Suites returns the registered suite names, sorted
func (r *Registry) Suites() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder collects descriptors for a suite
type Builder struct {
	descriptors []*Descriptor
	err         error
}

// TestOption configures a descriptor declared with Builder.Test
type TestOption func(*Descriptor)

// Order sets an explicit priority; lower runs earlier
func Order(priority int) TestOption {
	return func(d *Descriptor) {
		d.Priority = IntPtr(priority)
	}
}

// DependsOn declares the tests that must pass before this one runs
func DependsOn(names ...string) TestOption {
	return func(d *Descriptor) {
		d.Dependencies = append(d.Dependencies, names...)
	}
}

// Test declares a test. Declaration order is the discovery order.
func (b *Builder) Test(name string, body Body, opts ...TestOption) *Builder {
	if b.err != nil {
		return b
	}
	if body == nil {
		b.err = fmt.Errorf("%w: %q has no body", ErrInvalidDescriptor, name)
		return b
	}

	d := &Descriptor{Name: name, Body: body}
	for _, opt := range opts {
		opt(d)
	}
	b.descriptors = append(b.descriptors, d)
	return b
}

// Descriptors returns what has been declared so far
func (b *Builder) Descriptors() []*Descriptor {
	return b.descriptors
}

// Err returns the first declaration error
func (b *Builder) Err() error {
	return b.err
}
