// Package metrics provides log call metrics collection and reporting.
//
// Metrics collects statistics about log call latency, how many calls were
// emitted or suppressed by the level threshold, and throughput. It is
// thread-safe and optimized for high-concurrency scenarios.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	// Record log calls
//	start := time.Now()
//	l.Info("message")
//	m.RecordEmitted(time.Since(start))
//
//	// Get statistics
//	fmt.Printf("Total: %d, calls/s: %.2f, P99: %v\n",
//	    m.TotalCalls(), m.CallsPerSecond(), m.P99Latency())
//
//	// Get a snapshot
//	snap := m.Snapshot()
//
// # Configuration
//
// Use NewWithConfig for custom settings:
//
//	config := metrics.Config{
//	    MaxLatencySamples: 5000, // More samples for P99 accuracy
//	}
//	m := metrics.NewWithConfig(config)
//
// # Thread Safety
//
// All operations use atomic counters and are safe for concurrent access.
package metrics
