package logger

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"
)

// loggerIDs は Swap のロック順序を決める通し番号
var loggerIDs atomic.Uint64

// Logger はスレッドセーフなロガー
//
// しきい値はロックなしで読み書きできる。Sink へのアクセスは全て mu で
// 直列化されるため、1回のログ呼び出しの行が他の呼び出しと混ざることはない。
type Logger struct {
	id       uint64
	start    atomic.Pointer[time.Time]
	minLevel atomic.Uint32

	mu   sync.Mutex
	sink *Sink
}

// Option は Logger の生成オプション
type Option func(*options)

type options struct {
	console  io.Writer
	encoding Encoding
}

// WithConsole はコンソール出力先を差し替える（デフォルトは os.Stderr）
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// WithEncoding は出力のテキスト単位幅を設定する
func WithEncoding(e Encoding) Option {
	return func(o *options) {
		o.encoding = e
	}
}

// New はコンソール出力のロガーを作成する
func New(level Level, opts ...Option) *Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{
		id:   loggerIDs.Add(1),
		sink: NewSink(o.console, o.encoding),
	}
	now := time.Now()
	l.start.Store(&now)
	l.minLevel.Store(uint32(level))
	return l
}

// NewFile はファイル出力のロガーを作成する
//
// ファイルを開けなかった場合もロガーは返され、Sink は失敗状態になる。
func NewFile(path string, level Level, opts ...Option) (*Logger, error) {
	l := New(level, opts...)
	err := l.sink.Open(path)
	return l, err
}

// SetLevel はしきい値を設定する
func (l *Logger) SetLevel(level Level) *Logger {
	l.minLevel.Store(uint32(level))
	return l
}

// Level は現在のしきい値を返す
func (l *Logger) Level() Level {
	return Level(l.minLevel.Load())
}

// Enabled は level のメッセージが出力されるかどうかを返す
func (l *Logger) Enabled(level Level) bool {
	return level < LevelNone && level >= l.Level()
}

// OpenFile は出力先をファイルに切り替える
func (l *Logger) OpenFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink.Open(path)
}

// CloseFile はファイルを閉じてコンソール出力に戻す
func (l *Logger) CloseFile() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink.Close()
}

// Close は io.Closer 実装。CloseFile と同じ
func (l *Logger) Close() error {
	return l.CloseFile()
}

// Err は Sink の失敗状態を返す
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink.Err()
}

// Locked は Sink への排他アクセスを保持したまま fn を実行する
func (l *Logger) Locked(fn func(s *Sink)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.sink)
}

// Write は p をそのまま Sink に書き込む（io.Writer 実装）
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink.Write(p)
}

// StartTime は生成時刻を返す（モノトニック時計の読みを含む）
func (l *Logger) StartTime() time.Time {
	return *l.start.Load()
}

// Elapsed は生成からの経過時間を返す
func (l *Logger) Elapsed() time.Duration {
	return time.Since(l.StartTime())
}

// ElapsedTime は生成からの経過秒数を返す
func (l *Logger) ElapsedTime() float64 {
	return l.Elapsed().Seconds()
}

// Swap は2つのロガーの生成時刻・しきい値・Sink を交換する
func (l *Logger) Swap(other *Logger) {
	if l == other {
		return
	}

	first, second := l, other
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	mine, theirs := l.start.Load(), other.start.Load()
	l.start.Store(theirs)
	other.start.Store(mine)

	l.minLevel.Store(other.minLevel.Swap(l.minLevel.Load()))
	l.sink.Swap(other.sink)
}

// Trace はトレースログを出力する
func (l *Logger) Trace(args ...any) *Logger {
	return l.log(LevelTrace, args)
}

// Info は情報ログを出力する
func (l *Logger) Info(args ...any) *Logger {
	return l.log(LevelInfo, args)
}

// Warning は警告ログを出力する
func (l *Logger) Warning(args ...any) *Logger {
	return l.log(LevelWarn, args)
}

// Error はエラーログを出力する
func (l *Logger) Error(args ...any) *Logger {
	return l.log(LevelError, args)
}

// Fatal は致命的エラーのログを出力する。プロセスは終了しない
func (l *Logger) Fatal(args ...any) *Logger {
	return l.log(LevelFatal, args)
}

// Log は level でログを出力する。LevelNone 以上はメッセージレベルではないため何もしない
func (l *Logger) Log(level Level, args ...any) *Logger {
	return l.log(level, args)
}

// log は指定されたレベルでログを出力する
func (l *Logger) log(level Level, args []any) *Logger {
	if !l.Enabled(level) {
		return l
	}

	id := goid.Get()

	var b strings.Builder
	b.Grow(64)

	l.mu.Lock()
	defer l.mu.Unlock()

	writePrefix(&b, id, l.ElapsedTime())
	b.WriteString(level.Tag())
	for _, arg := range args {
		writeArg(&b, arg)
	}
	b.WriteByte('\n')

	// 失敗状態の Sink への書き込みは呼び出し側からは無視される
	_, _ = l.sink.WriteString(b.String())
	return l
}

// writePrefix は "[<goroutine id>, <経過秒>] " を書き込む
func writePrefix(b *strings.Builder, id int64, elapsed float64) {
	fmt.Fprintf(b, "[%5d, %.3f] ", id, elapsed)
}

// writeArg は区切りなしで引数を文字列化する
func writeArg(b *strings.Builder, arg any) {
	switch v := arg.(type) {
	case string:
		b.WriteString(v)
	case []byte:
		b.Write(v)
	case error:
		writeMethod(b, v, v.Error)
	case fmt.Stringer:
		writeMethod(b, v, v.String)
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	default:
		fmt.Fprint(b, v)
	}
}

// writeMethod は Error/String の結果を書き込む。nil ポインタのレシーバで
// パニックした場合は fmt と同じく "<nil>" を書く
func writeMethod(b *strings.Builder, arg any, method func() string) {
	defer func() {
		if r := recover(); r != nil {
			if v := reflect.ValueOf(arg); v.Kind() == reflect.Pointer && v.IsNil() {
				b.WriteString("<nil>")
				return
			}
			fmt.Fprintf(b, "<PANIC=%v>", r)
		}
	}()
	b.WriteString(method())
}
