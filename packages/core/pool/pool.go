// Package pool provides a fixed-size worker pool fed by an unbounded FIFO queue.
//
// Workers are started by New and live until Shutdown. Submitted units of work
// run in FIFO order on whichever worker is idle; ordering across workers is
// not guaranteed. The pool knows nothing about tests, retries or dependencies.
package pool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/abdul-hamid-achik/suiterun/packages/core/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Work is a zero-argument unit of work. It is expected to handle its own errors.
type Work func()

// Pool runs units of work on a fixed set of workers
type Pool struct {
	size int
	log  logrus.FieldLogger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Work
	closed bool

	group     errgroup.Group
	done      chan struct{}
	processed atomic.Int64
	recovered atomic.Int64
}

// Option configures a Pool
type Option func(*Pool)

// WithLogger sets the logger used for worker lifecycle and recovered panics
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// New starts a pool with n workers. n < 1 is treated as 1.
func New(n int, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{
		size:  n,
		log:   logging.Discard(),
		queue: make([]Work, 0, n),
		done:  make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("worker-%d", i)
		p.group.Go(func() error {
			p.work(id)
			return nil
		})
	}

	go func() {
		_ = p.group.Wait()
		close(p.done)
	}()

	p.log.Debugf("Started pool with %d workers", n)
	return p
}

// Submit enqueues a unit of work. It never blocks. Once shutdown has begun
// the unit is dropped and Submit returns false.
func (p *Pool) Submit(w Work) bool {
	if w == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.log.Debug("Pool is shut down, dropping unit of work")
		return false
	}

	p.queue = append(p.queue, w)
	p.cond.Signal()
	return true
}

// Close stops accepting work and lets workers exit once the queue is drained.
// It does not wait.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.cond.Broadcast()
}

// Shutdown stops accepting work, drains the queue and blocks until every
// worker has exited.
func (p *Pool) Shutdown() {
	p.Close()
	<-p.done
	p.log.Debugf("Pool stopped after %d units of work", p.processed.Load())
}

// Done is closed once every worker has exited
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of queued units not yet picked up by a worker
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Processed returns the number of units that have finished running
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Recovered returns the number of units that panicked
func (p *Pool) Recovered() int64 {
	return p.recovered.Load()
}

// next blocks until a unit is available. It returns false once the pool is
// closed and the queue is empty.
func (p *Pool) next() (Work, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}

	if len(p.queue) == 0 {
		return nil, false
	}

	w := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return w, true
}

func (p *Pool) work(id string) {
	log := p.log.WithField(logging.FieldWorker, id)
	log.Trace("Worker started")

	for {
		w, ok := p.next()
		if !ok {
			log.Trace("Worker stopped")
			return
		}
		p.run(log, w)
	}
}

func (p *Pool) run(log logrus.FieldLogger, w Work) {
	defer func() {
		p.processed.Add(1)
		if r := recover(); r != nil {
			p.recovered.Add(1)
			log.WithField("panic", r).Error("Unit of work panicked")
		}
	}()

	w()
}
