package suitefile

import (
	"fmt"
	"sort"
	"sync"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
)

// Provider discovers suites from suite files. Files are re-read on every
// Discover so edits show up on the next run.
type Provider struct {
	mu    sync.RWMutex
	paths map[string]string // suite name -> path
}

// NewProvider indexes the given suite files by suite name
func NewProvider(paths ...string) (*Provider, error) {
	p := &Provider{paths: make(map[string]string)}
	for _, path := range paths {
		if _, err := p.Add(path); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add parses the file at path, indexes it under its suite name and returns
// that name
func (p *Provider) Add(path string) (string, error) {
	f, err := ParseFile(path)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.paths[f.Suite]; ok && existing != path {
		return "", fmt.Errorf("suite %q defined in both %s and %s", f.Suite, existing, path)
	}
	p.paths[f.Suite] = path
	return f.Suite, nil
}

// Discover parses the file behind the named suite. A path to a suite file is
// accepted as well as a suite name.
func (p *Provider) Discover(name string) ([]*suite.Descriptor, error) {
	p.mu.RLock()
	path, ok := p.paths[name]
	if !ok {
		for _, candidate := range p.paths {
			if candidate == name {
				path, ok = candidate, true
				break
			}
		}
	}
	p.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", suite.ErrSuiteNotFound, name)
	}

	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return f.Descriptors()
}

// Suites returns the indexed suite names, sorted
func (p *Provider) Suites() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.paths))
	for name := range p.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file backing the named suite
func (p *Provider) Path(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	path, ok := p.paths[name]
	return path, ok
}
