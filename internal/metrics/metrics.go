package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Config はメトリクスの設定
type Config struct {
	MaxLatencySamples int // P99 計算用のサンプル上限
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{MaxLatencySamples: 1000}
}

// Metrics はログ呼び出しのメトリクスを収集する
type Metrics struct {
	totalCalls      atomic.Uint64
	emittedCalls    atomic.Uint64
	suppressedCalls atomic.Uint64
	totalLatencyNs  atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	lastResetTime     time.Time
	windowCalls       uint64
	latencies         []time.Duration
	maxLatencySamples int
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	if config.MaxLatencySamples <= 0 {
		config.MaxLatencySamples = DefaultConfig().MaxLatencySamples
	}
	now := time.Now()
	return &Metrics{
		startTime:         now,
		lastResetTime:     now,
		latencies:         make([]time.Duration, 0, config.MaxLatencySamples),
		maxLatencySamples: config.MaxLatencySamples,
	}
}

// RecordEmitted は出力されたログ呼び出しを記録する
func (m *Metrics) RecordEmitted(latency time.Duration) {
	m.emittedCalls.Add(1)
	m.record(latency)
}

// RecordSuppressed はしきい値で抑制されたログ呼び出しを記録する
func (m *Metrics) RecordSuppressed(latency time.Duration) {
	m.suppressedCalls.Add(1)
	m.record(latency)
}

func (m *Metrics) record(latency time.Duration) {
	m.totalCalls.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	m.windowCalls++
	if len(m.latencies) < m.maxLatencySamples {
		m.latencies = append(m.latencies, latency)
	}
	m.mu.Unlock()
}

// TotalCalls は総呼び出し数を返す
func (m *Metrics) TotalCalls() uint64 {
	return m.totalCalls.Load()
}

// EmittedCalls は出力された呼び出し数を返す
func (m *Metrics) EmittedCalls() uint64 {
	return m.emittedCalls.Load()
}

// SuppressedCalls は抑制された呼び出し数を返す
func (m *Metrics) SuppressedCalls() uint64 {
	return m.suppressedCalls.Load()
}

// CallsPerSecond は現在ウィンドウの毎秒呼び出し数を返す
func (m *Metrics) CallsPerSecond() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed := time.Since(m.lastResetTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.windowCalls) / elapsed
}

// OverallCallsPerSecond は開始からの平均毎秒呼び出し数を返す
func (m *Metrics) OverallCallsPerSecond() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.totalCalls.Load()) / elapsed
}

// AverageLatency は平均レイテンシを返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// P99Latency はP99レイテンシを返す（サンプルベース）
func (m *Metrics) P99Latency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// SuppressionRate は抑制率を返す（0.0〜1.0）
func (m *Metrics) SuppressionRate() float64 {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return float64(m.suppressedCalls.Load()) / float64(total)
}

// Reset はウィンドウメトリクスをリセットする
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.windowCalls = 0
	m.lastResetTime = time.Now()
	m.latencies = m.latencies[:0]
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalCalls            uint64
	EmittedCalls          uint64
	SuppressedCalls       uint64
	CallsPerSecond        float64
	OverallCallsPerSecond float64
	AverageLatency        time.Duration
	P99Latency            time.Duration
	SuppressionRate       float64
	Elapsed               time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TotalCalls:            m.TotalCalls(),
		EmittedCalls:          m.EmittedCalls(),
		SuppressedCalls:       m.SuppressedCalls(),
		CallsPerSecond:        m.CallsPerSecond(),
		OverallCallsPerSecond: m.OverallCallsPerSecond(),
		AverageLatency:        m.AverageLatency(),
		P99Latency:            m.P99Latency(),
		SuppressionRate:       m.SuppressionRate(),
		Elapsed:               time.Since(m.startTime),
	}
}

// Report はスナップショットを人間向けの文字列にする
func (s Snapshot) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "calls:       %d (emitted %d, suppressed %d)\n", s.TotalCalls, s.EmittedCalls, s.SuppressedCalls)
	fmt.Fprintf(&b, "throughput:  %.0f calls/s\n", s.OverallCallsPerSecond)
	fmt.Fprintf(&b, "latency:     avg %v, p99 %v\n", s.AverageLatency, s.P99Latency)
	fmt.Fprintf(&b, "suppressed:  %.1f%%\n", s.SuppressionRate*100)
	fmt.Fprintf(&b, "elapsed:     %v\n", s.Elapsed.Round(time.Millisecond))
	return b.String()
}
