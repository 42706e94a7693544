package worker

import (
	"bytes"
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"slug/internal/logger"

	"github.com/stretchr/testify/assert"
)

// syncBuffer はテスト用のスレッドセーフなバッファ
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewWorkerPool(t *testing.T) {
	pool := NewPool(4)
	assert.Equal(t, 4, pool.NumWorkers())

	// Zero should default to CPU count
	assert.Equal(t, runtime.NumCPU(), NewPool(0).NumWorkers())
}

func TestWorkerPoolNegativeWorkers(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), NewPool(-5).NumWorkers())
}

func TestWorkerPoolStartStop(t *testing.T) {
	pool := NewPool(2)
	ctx := context.Background()

	pool.Start(ctx)
	// Double start should be no-op
	pool.Start(ctx)

	pool.Stop()
	// Double stop should be no-op
	pool.Stop()
}

func TestWorkerPoolSubmitAndWait(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	defer pool.Stop()

	var counter atomic.Int32
	for range 10 {
		assert.True(t, pool.Submit(func() {
			counter.Add(1)
		}))
	}

	pool.Wait()
	assert.Equal(t, int32(10), counter.Load())
	assert.Equal(t, 0, pool.QueueSize())
}

func TestWorkerPoolWaitBeforeStart(t *testing.T) {
	pool := NewPool(1)

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Wait should return immediately for a pool that was never started")
	}
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	pool.Stop()

	assert.False(t, pool.Submit(func() {}))
}

func TestWorkerPoolContextCancel(t *testing.T) {
	pool := NewPool(2)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	blocker := make(chan struct{})
	pool.Submit(func() {
		<-blocker
	})

	cancel()
	close(blocker)

	// Wait returns once the pool context is done
	pool.Wait()

	assert.False(t, pool.Submit(func() {}))
	pool.Stop()
}

func TestWorkerPoolSubmitWait(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	defer pool.Stop()

	var counter atomic.Int32
	for range 5 {
		assert.True(t, pool.SubmitWait(func() {
			counter.Add(1)
		}))
	}

	pool.Wait()
	assert.Equal(t, int32(5), counter.Load())
}

func TestWorkerPoolSubmitQueueFull(t *testing.T) {
	pool := NewPoolWithConfig(PoolConfig{NumWorkers: 1, QueueFactor: 1})
	pool.Start(context.Background())

	started := make(chan struct{})
	blocker := make(chan struct{})
	assert.True(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// キュー容量は1
	assert.True(t, pool.Submit(func() {}))
	assert.False(t, pool.Submit(func() {}), "Submit must not block on a full queue")
	assert.Equal(t, 1, pool.QueueSize())

	accepted := make(chan bool)
	go func() {
		accepted <- pool.SubmitWait(func() {})
	}()

	select {
	case <-accepted:
		t.Fatal("SubmitWait should block while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	close(blocker)
	assert.True(t, <-accepted)

	pool.Wait()
	pool.Stop()
}

func TestWorkerPoolSubmitWaitAfterCancel(t *testing.T) {
	pool := NewPool(2)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	cancel()
	assert.False(t, pool.SubmitWait(func() {}))

	pool.Stop()
}

func TestWorkerPoolConcurrentLogging(t *testing.T) {
	out := &syncBuffer{}
	l := logger.New(logger.LevelInfo, logger.WithConsole(out))

	pool := NewPoolWithConfig(PoolConfig{NumWorkers: 4, Logger: l})
	pool.Start(context.Background())
	defer pool.Stop()

	const numGoroutines = 10
	const jobsPerGoroutine = 100

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobsPerGoroutine {
				pool.SubmitWait(func() {
					l.Info("job")
				})
			}
		}()
	}
	wg.Wait()
	pool.Wait()

	lines := bytes.Count([]byte(out.String()), []byte("INFO:  job\n"))
	assert.Equal(t, numGoroutines*jobsPerGoroutine, lines)
}

func TestWorkerPoolTracesLifecycle(t *testing.T) {
	out := &syncBuffer{}
	l := logger.New(logger.LevelTrace, logger.WithConsole(out))

	pool := NewPoolWithConfig(PoolConfig{NumWorkers: 3, Logger: l})
	pool.Start(context.Background())
	pool.Stop()

	assert.Contains(t, out.String(), "TRACE: worker pool started with 3 workers")
	assert.Contains(t, out.String(), "TRACE: worker pool stopped")
}
