package latch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatchZeroIsReleased(t *testing.T) {
	l := New(0)
	assert.Equal(t, 0, l.Count())
	require.NoError(t, l.Await(context.Background()))

	// Awaiting again on a released latch returns immediately
	require.NoError(t, l.Await(context.Background()))
}

func TestLatchCountDown(t *testing.T) {
	l := New(3)
	assert.Equal(t, 3, l.Count())

	l.CountDown()
	l.CountDown()
	assert.Equal(t, 1, l.Count())

	select {
	case <-l.Done():
		t.Fatal("latch released early")
	default:
	}

	l.CountDown()
	assert.Equal(t, 0, l.Count())
	require.NoError(t, l.Await(context.Background()))
}

func TestLatchCountDownBelowZero(t *testing.T) {
	l := New(1)
	l.CountDown()
	l.CountDown()
	l.CountDown()
	assert.Equal(t, 0, l.Count())
}

func TestLatchConcurrentCountDown(t *testing.T) {
	const n = 500
	l := New(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.CountDown()
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, l.Await(ctx))
	wg.Wait()
	assert.Equal(t, 0, l.Count())
}

func TestLatchAwaitInterrupted(t *testing.T) {
	l := New(1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := l.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, l.Count())
}
