package bench

import (
	"context"
	"time"

	"slug/internal/logger"
	"slug/internal/metrics"
	"slug/internal/worker"

	"github.com/pkg/errors"
)

// Config はベンチマークの設定
type Config struct {
	Workers  int          // 並行ワーカー数
	Messages int          // ワーカーあたりの呼び出し数
	Level    logger.Level // 呼び出すレベル
	Payload  string       // メッセージ本文
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Workers:  4,
		Messages: 1000,
		Level:    logger.LevelInfo,
		Payload:  "benchmark message",
	}
}

// Validate は設定を検証する
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if c.Messages <= 0 {
		return errors.New("messages must be positive")
	}
	if c.Level >= logger.LevelNone {
		return errors.Errorf("%s is not a message level", c.Level)
	}
	return nil
}

// Run は l に Workers x Messages 回のログ呼び出しを並行に行う
func Run(ctx context.Context, l *logger.Logger, config Config) (metrics.Snapshot, error) {
	if err := config.Validate(); err != nil {
		return metrics.Snapshot{}, errors.Wrap(err, "invalid bench config")
	}

	m := metrics.New()
	pool := worker.NewPoolWithConfig(worker.PoolConfig{
		NumWorkers: config.Workers,
		Logger:     l,
	})
	pool.Start(ctx)
	defer pool.Stop()

	for job := range config.Workers {
		for seq := range config.Messages {
			submitted := pool.SubmitWait(func() {
				call(l, m, config, job, seq)
			})
			if !submitted {
				if err := ctx.Err(); err != nil {
					return m.Snapshot(), errors.Wrap(err, "bench interrupted")
				}
				return m.Snapshot(), errors.New("bench job rejected by worker pool")
			}
		}
	}

	pool.Wait()
	if err := ctx.Err(); err != nil {
		return m.Snapshot(), errors.Wrap(err, "bench interrupted")
	}
	return m.Snapshot(), nil
}

// call は1回のログ呼び出しを計測する
func call(l *logger.Logger, m *metrics.Metrics, config Config, job, seq int) {
	enabled := l.Enabled(config.Level)
	start := time.Now()

	l.Log(config.Level, "job=", job, " seq=", seq, " ", config.Payload)

	if enabled {
		m.RecordEmitted(time.Since(start))
	} else {
		m.RecordSuppressed(time.Since(start))
	}
}
