package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/abdul-hamid-achik/suiterun/packages/core/pool"
	"github.com/abdul-hamid-achik/suiterun/packages/core/results"
	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	goerrors "github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

type attemptKind int

const (
	attemptPassed attemptKind = iota
	attemptFailed
	attemptInfra
)

// attemptResult is the typed verdict of a single invocation of a test body
type attemptResult struct {
	kind     attemptKind
	duration time.Duration
	err      error
}

// unit wraps a descriptor into the work submitted to the pool. The latch is
// released exactly once whatever branch the unit takes.
func (e *Engine) unit(ctx context.Context, d *suite.Descriptor) pool.Work {
	return func() {
		defer e.latch.CountDown()

		result := e.execute(ctx, d)
		if e.config.Observer != nil {
			e.config.Observer.TestFinished(result)
		}
	}
}

func (e *Engine) execute(ctx context.Context, d *suite.Descriptor) *TestResult {
	log := e.log.WithField(logging.FieldTest, d.Name)
	result := &TestResult{Name: d.Name, Priority: d.Priority, Dependencies: d.Dependencies}

	if reason, unmet := e.unmetDependency(d); unmet {
		result.Outcome = results.Outcome{Status: results.StatusSkipped, Reason: reason}
		result.Recorded = e.store.Record(d.Name, result.Outcome)
		log.Infof("%s: SKIPPED (%s)", d.Name, reason)
		return result
	}

	var lastInfra error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		ar := e.attempt(ctx, d, attempt, log)
		alog := log.WithField(logging.FieldAttempt, attempt)

		switch ar.kind {
		case attemptPassed:
			result.Outcome = results.Outcome{Status: results.StatusPassed, Attempts: attempt, Duration: ar.duration}
			result.Recorded = e.store.Record(d.Name, result.Outcome)
			alog.Debugf("%s: PASSED in %dms", d.Name, ar.duration.Milliseconds())
			return result

		case attemptFailed:
			alog.Warnf("%s: FAILED (Attempt %d): %v", d.Name, attempt, ar.err)
			if attempt == MaxAttempts {
				result.Outcome = results.Outcome{
					Status:   results.StatusFailed,
					Attempts: attempt,
					Duration: ar.duration,
					Reason:   ar.err.Error(),
				}
				result.Recorded = e.store.Record(d.Name, result.Outcome)
				log.Errorf("Test failed after %d attempts: %s", MaxAttempts, d.Name)
				return result
			}

		case attemptInfra:
			alog.WithError(ar.err).Errorf("%s: ERROR during execution", d.Name)
			lastInfra = ar.err
		}
	}

	// Every remaining attempt ended in an infrastructure error, so there is
	// no verdict to record.
	result.Outcome.Attempts = MaxAttempts
	result.Err = lastInfra
	e.setAttempts(d.Name, MaxAttempts)
	e.recordError(d.Name, lastInfra)
	return result
}

// unmetDependency returns the reason the first unsatisfied dependency blocks d
func (e *Engine) unmetDependency(d *suite.Descriptor) (string, bool) {
	for _, dep := range d.Dependencies {
		o, ok := e.store.Lookup(dep)
		if !ok {
			return fmt.Sprintf("dependency %s has not completed", dep), true
		}
		if o.Status != results.StatusPassed {
			return fmt.Sprintf("dependency %s %s", dep, strings.ToLower(o.Status.String())), true
		}
	}
	return "", false
}

// attempt builds a fresh test context and invokes the body once. A panic in
// the body is a failed attempt.
func (e *Engine) attempt(ctx context.Context, d *suite.Descriptor, n int, log logrus.FieldLogger) (ar attemptResult) {
	t, err := e.newContext(ctx, d, n, log)
	if err == nil && t == nil {
		err = fmt.Errorf("context factory returned no test context")
	}
	if err != nil {
		return attemptResult{
			kind: attemptInfra,
			err:  &InfrastructureError{Test: d.Name, Attempt: n, Err: goerrors.Wrap(err, 1)},
		}
	}

	start := time.Now()
	defer func() {
		ar.duration = time.Since(start)
		e.busy.Add(int64(ar.duration))

		if r := recover(); r != nil {
			perr := goerrors.Wrap(r, 2)
			log.WithField(logging.FieldAttempt, n).Debugf("Recovered panic in %s:\n%s", d.Name, perr.ErrorStack())
			ar.kind = attemptFailed
			ar.err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := d.Body(t); err != nil {
		return attemptResult{kind: attemptFailed, err: err}
	}
	return attemptResult{kind: attemptPassed}
}

func (e *Engine) newContext(ctx context.Context, d *suite.Descriptor, n int, log logrus.FieldLogger) (*suite.T, error) {
	if e.config.NewContext != nil {
		return e.config.NewContext(ctx, d, n, log)
	}
	return suite.NewT(ctx, d.Name, n, log), nil
}
