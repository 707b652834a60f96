package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultWorkers is the default size of the worker pool
	DefaultWorkers = 4
	// MaxAttempts is the number of times a failing test body is tried
	MaxAttempts = 3
)

// ContextFactory builds the fresh per-attempt context handed to a test body.
// An error here is an infrastructure error, not a test failure.
type ContextFactory func(ctx context.Context, d *suite.Descriptor, attempt int, log logrus.FieldLogger) (*suite.T, error)

// Observer receives run events. TestFinished is called from worker goroutines
// and must be safe for concurrent use.
type Observer interface {
	RunStarted(runID string, total int)
	TestFinished(result *TestResult)
	RunFinished(summary *Summary)
}

// Config configures a Runner
type Config struct {
	Workers    int
	Baseline   time.Duration // nominal baseline for speedup; 0 uses the summed attempt time
	NameFilter string
	Logger     logrus.FieldLogger
	Observer   Observer
	NewContext ContextFactory
}

// Runner discovers suites and executes them, building a fresh Engine per run
type Runner struct {
	config *Config
}

// NewRunner creates a runner. A nil config uses defaults.
func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	return &Runner{config: &c}
}

// Run discovers the named suite from provider and executes it on the pool
func (r *Runner) Run(ctx context.Context, provider suite.Provider, name string) (*Summary, error) {
	descs, err := discover(provider, name)
	if err != nil {
		return nil, err
	}

	summary, err := r.RunDescriptors(ctx, descs)
	if summary != nil {
		summary.Suite = name
	}
	return summary, err
}

// RunDescriptors executes descriptors on the worker pool
func (r *Runner) RunDescriptors(ctx context.Context, descs []*suite.Descriptor) (*Summary, error) {
	e, err := r.newEngine(descs, false)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// RunSequential discovers the named suite and walks it on the calling
// goroutine. It is the baseline the parallel run is compared against.
func (r *Runner) RunSequential(ctx context.Context, provider suite.Provider, name string) (*Summary, error) {
	descs, err := discover(provider, name)
	if err != nil {
		return nil, err
	}

	e, err := r.newEngine(descs, true)
	if err != nil {
		return nil, err
	}
	summary, err := e.Run(ctx)
	if summary != nil {
		summary.Suite = name
	}
	return summary, err
}

// Plan returns the descriptors of a suite in the order they would be submitted
func (r *Runner) Plan(provider suite.Provider, name string) ([]*suite.Descriptor, error) {
	descs, err := discover(provider, name)
	if err != nil {
		return nil, err
	}
	kept, _ := Filter(descs, r.config.NameFilter)
	return Order(kept), nil
}

func (r *Runner) newEngine(descs []*suite.Descriptor, sequential bool) (*Engine, error) {
	if err := suite.Validate(descs); err != nil {
		return nil, err
	}

	kept, dropped := Filter(descs, r.config.NameFilter)
	cfg := *r.config
	if sequential {
		cfg.Workers = 1
	}

	e := NewEngine(&cfg, kept)
	e.sequential = sequential
	e.filtered = dropped
	return e, nil
}

func discover(provider suite.Provider, name string) ([]*suite.Descriptor, error) {
	if provider == nil {
		return nil, fmt.Errorf("discovering suite %q: no provider", name)
	}
	descs, err := provider.Discover(name)
	if err != nil {
		return nil, fmt.Errorf("discovering suite %q: %w", name, err)
	}
	return descs, nil
}
