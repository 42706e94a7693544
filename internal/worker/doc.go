// Package worker provides a goroutine pool for concurrent job execution.
//
// The Pool manages a fixed number of worker goroutines that process jobs
// from a shared queue. It is used to drive many concurrent log calls through
// a single logger.Logger.
//
// # Basic Usage
//
//	pool := worker.NewPoolWithConfig(worker.PoolConfig{
//	    NumWorkers: 8,
//	    Logger:     l, // pool lifecycle is traced here
//	})
//	pool.Start(ctx)
//	defer pool.Stop()
//
//	for i := 0; i < 100; i++ {
//	    pool.Submit(func() { l.Info("job ", i) })
//	}
//	pool.Wait()
//
// # Graceful Shutdown
//
// Wait blocks until every submitted job has run or the context passed to
// Start is cancelled. Stop cancels the workers, waits for in-flight jobs and
// discards jobs still queued.
package worker
