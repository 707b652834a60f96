package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsSize(t *testing.T) {
	p := New(0)
	defer p.Shutdown()
	assert.Equal(t, 1, p.Size())

	q := New(-3)
	defer q.Shutdown()
	assert.Equal(t, 1, q.Size())
}

func TestPoolRunsAllWork(t *testing.T) {
	p := New(4)

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		require.True(t, p.Submit(func() {
			count.Add(1)
		}))
	}

	p.Shutdown()
	assert.Equal(t, int64(100), count.Load())
	assert.Equal(t, int64(100), p.Processed())
	assert.Equal(t, 0, p.Pending())
}

func TestPoolSingleWorkerIsFIFO(t *testing.T) {
	p := New(1)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	p.Shutdown()

	require.Len(t, order, 20)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestPoolBoundedParallelism(t *testing.T) {
	const workers = 3
	p := New(workers)

	var active, peak atomic.Int64
	for i := 0; i < 30; i++ {
		p.Submit(func() {
			n := active.Add(1)
			for {
				cur := peak.Load()
				if n <= cur || peak.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			active.Add(-1)
		})
	}
	p.Shutdown()

	assert.LessOrEqual(t, peak.Load(), int64(workers))
	assert.Greater(t, peak.Load(), int64(0))
}

func TestPoolSubmitAfterShutdownIsDropped(t *testing.T) {
	p := New(2)
	p.Shutdown()

	ran := false
	assert.False(t, p.Submit(func() { ran = true }))
	assert.False(t, ran)
	assert.False(t, p.Submit(nil))
}

func TestPoolShutdownDrainsQueue(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	var count atomic.Int64

	// Block the only worker so the rest pile up in the queue
	p.Submit(func() {
		<-release
		count.Add(1)
	})
	for i := 0; i < 5; i++ {
		p.Submit(func() { count.Add(1) })
	}

	p.Close()
	close(release)

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop")
	}
	assert.Equal(t, int64(6), count.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	p := New(1)

	var after atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { after.Store(true) })
	p.Shutdown()

	assert.True(t, after.Load(), "worker must survive a panicking unit")
	assert.Equal(t, int64(1), p.Recovered())
	assert.Equal(t, int64(2), p.Processed())
}

func TestPoolShutdownIsIdempotent(t *testing.T) {
	p := New(2)
	p.Shutdown()
	p.Shutdown()
	p.Close()
}
