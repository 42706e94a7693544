// Package bench drives concurrent log calls through a single logger.
//
// Run submits Workers x Messages calls at one level through a worker.Pool
// and records each call's latency in a metrics.Metrics, separating calls
// that were emitted from calls suppressed by the threshold.
//
//	snap, err := bench.Run(ctx, l, bench.Config{Workers: 8, Messages: 1000, Level: logger.LevelInfo})
//	fmt.Print(snap.Report())
package bench
