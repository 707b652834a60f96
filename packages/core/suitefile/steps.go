package suitefile

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
)

type stepFunc func(t *suite.T) error

func (s Step) body() (stepFunc, error) {
	switch {
	case s.Sleep != "":
		d, err := time.ParseDuration(s.Sleep)
		if err != nil {
			return nil, fmt.Errorf("invalid sleep %q: %w", s.Sleep, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid sleep %q: negative duration", s.Sleep)
		}
		return func(t *suite.T) error {
			t.Sleep(d)
			return nil
		}, nil

	case s.Log != nil:
		msg := *s.Log
		return func(t *suite.T) error {
			t.Logf("%s", msg)
			return nil
		}, nil

	case s.Fail != nil:
		msg := *s.Fail
		if msg == "" {
			msg = "test failed"
		}
		return func(*suite.T) error {
			return suite.Failf("%s", msg)
		}, nil

	case s.Flaky != nil:
		n := *s.Flaky
		return func(t *suite.T) error {
			if t.Attempt() <= n {
				return suite.Failf("flaky: attempt %d of the first %d fails", t.Attempt(), n)
			}
			return nil
		}, nil
	}

	return nil, errors.New("step has no action")
}

// bodyFor compiles the steps of a test into a body that runs them in order
// and stops at the first failing step.
func bodyFor(ts TestSpec) (suite.Body, error) {
	steps := make([]stepFunc, 0, len(ts.Steps))
	for i, s := range ts.Steps {
		fn, err := s.body()
		if err != nil {
			return nil, fmt.Errorf("test %q step %d: %w", ts.Name, i+1, err)
		}
		steps = append(steps, fn)
	}

	return func(t *suite.T) error {
		for _, step := range steps {
			if err := t.Context().Err(); err != nil {
				return err
			}
			if err := step(t); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

// Descriptors builds fresh descriptors for the tests of f in file order
func (f *File) Descriptors() ([]*suite.Descriptor, error) {
	descs := make([]*suite.Descriptor, 0, len(f.Tests))
	for _, ts := range f.Tests {
		body, err := bodyFor(ts)
		if err != nil {
			return nil, err
		}

		d := &suite.Descriptor{
			Name:         ts.Name,
			Dependencies: append([]string(nil), ts.Depends...),
			Body:         body,
		}
		if ts.Priority != nil {
			d.Priority = suite.IntPtr(*ts.Priority)
		}
		descs = append(descs, d)
	}

	if err := suite.Validate(descs); err != nil {
		return nil, err
	}
	return descs, nil
}
