package suite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/sirupsen/logrus"
)

// T is the per-attempt test context handed to a Body. A fresh T is built for
// every attempt, so state stored with Set does not survive a retry.
type T struct {
	ctx     context.Context
	name    string
	attempt int
	log     logrus.FieldLogger

	mu     sync.Mutex
	values map[string]any
}

// NewT creates a context for one attempt of the named test
func NewT(ctx context.Context, name string, attempt int, log logrus.FieldLogger) *T {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &T{
		ctx:     ctx,
		name:    name,
		attempt: attempt,
		log:     log.WithField(logging.FieldTest, name).WithField(logging.FieldAttempt, attempt),
		values:  make(map[string]any),
	}
}

// Context returns the run context
func (t *T) Context() context.Context { return t.ctx }

// Name returns the test name
func (t *T) Name() string { return t.name }

// Attempt returns the 1-based attempt number
func (t *T) Attempt() int { return t.attempt }

// Logf writes a debug line tagged with the test name and attempt
func (t *T) Logf(format string, args ...any) {
	t.log.Debugf(format, args...)
}

// Sleep simulates work by blocking the worker for d
func (t *T) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Set stores a value for the remainder of this attempt
func (t *T) Set(key string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
}

// Get returns a value stored with Set
func (t *T) Get(key string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[key]
	return v, ok
}

// Failure is the error a Body returns to signal an assertion failure
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Failf builds a Failure with a formatted message
func Failf(format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}
