package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"slug/internal/logger"
)

// Job はワーカーが実行するジョブを表す
type Job func()

// PoolConfig はワーカープールの設定
type PoolConfig struct {
	NumWorkers  int            // ワーカー数（0でCPU数）
	QueueFactor int            // キューサイズ = NumWorkers * QueueFactor
	Logger      *logger.Logger // ライフサイクルのトレース先（nil なら出力しない）
}

// DefaultPoolConfig はデフォルト設定を返す
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:  0,   // CPU数
		QueueFactor: 100, // デフォルト倍率
	}
}

// Pool はログ呼び出しなどのジョブを並行実行するゴルーチンのプール
type Pool struct {
	numWorkers int
	jobs       chan Job
	log        *logger.Logger

	wg      sync.WaitGroup
	pending sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	started  bool
	stopping atomic.Bool
	mu       sync.Mutex
}

// NewPool は新しいワーカープールを作成する
// numWorkers が 0 以下の場合は CPU 数を使用
func NewPool(numWorkers int) *Pool {
	config := DefaultPoolConfig()
	config.NumWorkers = numWorkers
	return NewPoolWithConfig(config)
}

// NewPoolWithConfig は設定を指定してワーカープールを作成する
func NewPoolWithConfig(config PoolConfig) *Pool {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueFactor := config.QueueFactor
	if queueFactor <= 0 {
		queueFactor = 100
	}
	log := config.Logger
	if log == nil {
		log = logger.New(logger.LevelNone)
	}
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*queueFactor),
		log:        log,
	}
}

// Start はワーカープールを起動する
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := range p.numWorkers {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.log.Trace("worker pool started with ", p.numWorkers, " workers")
}

// worker は個々のワーカーゴルーチン
func (p *Pool) worker(_ int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(job)
		}
	}
}

func (p *Pool) run(job Job) {
	defer p.pending.Done()
	job()
}

// Submit はジョブをプールに送信する。キューが満杯なら待たずに false を返す
func (p *Pool) Submit(job Job) bool {
	return p.submit(job, false)
}

// SubmitWait はジョブを送信し、キューに空きがなければブロックする
func (p *Pool) SubmitWait(job Job) bool {
	return p.submit(job, true)
}

func (p *Pool) submit(job Job, wait bool) (submitted bool) {
	if p.stopping.Load() {
		return false
	}

	p.pending.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.log.Warning("submit failed, queue may be closed: ", r)
			submitted = false
		}
		if !submitted {
			p.pending.Done()
		}
	}()

	// 先にコンテキストをチェック
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	if !wait {
		select {
		case p.jobs <- job:
			return true
		default:
			return false
		}
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Wait は送信済みのジョブが全て実行されるか、プールのコンテキストが終了するまで待つ
// 全ての Submit の後に呼ぶこと
func (p *Pool) Wait() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Stop はワーカープールを停止する。未実行のジョブは破棄される
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.stopping.Store(true)
	p.cancel()
	p.wg.Wait()
	close(p.jobs)

	discarded := 0
	for range p.jobs {
		p.pending.Done()
		discarded++
	}

	p.mu.Lock()
	p.started = false
	p.stopping.Store(false)
	p.mu.Unlock()

	p.log.Trace("worker pool stopped, discarded ", discarded, " queued jobs")
}

// NumWorkers はワーカー数を返す
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// QueueSize は現在のキューサイズを返す
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
