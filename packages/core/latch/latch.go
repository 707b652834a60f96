// Package latch provides a single-use countdown signal.
//
// A Latch starts at a fixed count; every finished unit of work calls CountDown
// once and Await blocks until the count reaches zero. A latch is never reset.
package latch

import (
	"context"
	"sync"
	"sync/atomic"
)

// Latch is a one-shot countdown. The zero value is not usable; call New.
type Latch struct {
	count atomic.Int64
	done  chan struct{}
	once  sync.Once
}

// New creates a latch initialized to n. A latch created with n <= 0 is
// already released.
func New(n int) *Latch {
	l := &Latch{done: make(chan struct{})}
	if n <= 0 {
		l.release()
		return l
	}
	l.count.Store(int64(n))
	return l
}

// CountDown decrements the count. Calls after the latch reached zero are no-ops.
func (l *Latch) CountDown() {
	for {
		cur := l.count.Load()
		if cur <= 0 {
			return
		}
		if l.count.CompareAndSwap(cur, cur-1) {
			if cur == 1 {
				l.release()
			}
			return
		}
	}
}

// Count returns the remaining count.
func (l *Latch) Count() int {
	return int(l.count.Load())
}

// Done returns a channel that is closed once the count reaches zero.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Await blocks until the count reaches zero or ctx is done. It returns the
// context error when the wait was interrupted.
func (l *Latch) Await(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	default:
	}

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Latch) release() {
	l.once.Do(func() { close(l.done) })
}
