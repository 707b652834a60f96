package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/latch"
	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/abdul-hamid-achik/suiterun/packages/core/pool"
	"github.com/abdul-hamid-achik/suiterun/packages/core/results"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Engine owns the state of a single run: the worker pool, the result store,
// the completion latch and the infrastructure errors. It is used once.
type Engine struct {
	runID       string
	config      *Config
	descriptors []*suite.Descriptor
	log         logrus.FieldLogger
	store       *results.Store

	sequential bool
	filtered   int
	started    atomic.Bool

	latch *latch.Latch
	pool  *pool.Pool

	busy     atomic.Int64 // summed wall time of every attempt
	mu       sync.Mutex
	errs     *multierror.Error
	errored  map[string]error
	attempts map[string]int
}

// NewEngine creates an engine for one run over descs
func NewEngine(cfg *Config, descs []*suite.Descriptor) *Engine {
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

	runID := uuid.New().String()
	return &Engine{
		runID:       runID,
		config:      &c,
		descriptors: descs,
		log:         c.Logger.WithField(logging.FieldRunID, runID[:8]),
		store:       results.NewStore(),
		errored:     make(map[string]error),
		attempts:    make(map[string]int),
	}
}

// RunID returns the unique id of this run
func (e *Engine) RunID() string {
	return e.runID
}

// Store returns the run's result store
func (e *Engine) Store() *results.Store {
	return e.store
}

// Run orders the descriptors, submits one unit of work per descriptor, waits
// for all of them and returns the summary. Cancelling ctx interrupts the wait
// and aborts the run with ErrRunAborted; units already running are not stopped.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	if !e.started.CompareAndSwap(false, true) {
		return nil, ErrEngineReused
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	ordered := Order(e.descriptors)

	if e.config.Observer != nil {
		e.config.Observer.RunStarted(e.runID, len(ordered))
	}

	e.latch = latch.New(len(ordered))
	if e.sequential {
		e.log.Debugf("Running %d tests sequentially", len(ordered))
		for _, d := range ordered {
			e.unit(ctx, d)()
		}
	} else {
		e.pool = pool.New(e.config.Workers, pool.WithLogger(e.log))
		e.log.Debugf("Submitting %d tests to %d workers", len(ordered), e.config.Workers)
		for _, d := range ordered {
			if !e.pool.Submit(e.unit(ctx, d)) {
				e.latch.CountDown()
			}
		}
	}

	if err := e.latch.Await(ctx); err != nil {
		if e.pool != nil {
			e.pool.Close()
		}
		e.log.WithError(err).Error("Run interrupted while waiting for tests")
		return nil, fmt.Errorf("%w: %w", ErrRunAborted, err)
	}

	if e.pool != nil {
		e.pool.Shutdown()
	}

	summary := e.summarize(ordered, start, time.Since(start))
	if e.config.Observer != nil {
		e.config.Observer.RunFinished(summary)
	}
	return summary, nil
}

func (e *Engine) recordError(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errored[name] = err
	e.errs = multierror.Append(e.errs, err)
}

func (e *Engine) setAttempts(name string, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempts[name] = n
}

func (e *Engine) summarize(ordered []*suite.Descriptor, startedAt time.Time, elapsed time.Duration) *Summary {
	workers := e.config.Workers
	if e.sequential {
		workers = 1
	}

	s := &Summary{
		RunID:      e.runID,
		Workers:    workers,
		Sequential: e.sequential,
		StartedAt:  startedAt,
		Duration:   elapsed,
		Total:      len(ordered),
		Passed:     e.store.PassedCount(),
		Failed:     e.store.FailedCount(),
		Skipped:    e.store.SkippedCount(),
		Filtered:   e.filtered,
		Durations:  e.store.Durations(),
		Busy:       time.Duration(e.busy.Load()),
		Results:    make([]*TestResult, 0, len(ordered)),
	}

	e.mu.Lock()
	s.Errored = len(e.errored)
	if e.errs != nil {
		s.Errors = e.errs.ErrorOrNil()
	}
	for _, d := range ordered {
		s.Results = append(s.Results, e.resultFor(d))
	}
	e.mu.Unlock()

	s.Baseline = e.config.Baseline
	if s.Baseline <= 0 {
		s.Baseline = s.Busy
	}
	s.computeSpeedup()
	return s
}

// resultFor must be called with e.mu held
func (e *Engine) resultFor(d *suite.Descriptor) *TestResult {
	r := &TestResult{
		Name:         d.Name,
		Priority:     d.Priority,
		Dependencies: d.Dependencies,
	}
	if o, ok := e.store.Lookup(d.Name); ok {
		r.Outcome = o
		r.Recorded = true
		return r
	}
	r.Err = e.errored[d.Name]
	r.Outcome.Attempts = e.attempts[d.Name]
	return r
}
