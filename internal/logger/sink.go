package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// Sink はログの出力先（コンソールまたはファイル）を表す
//
// Sink 自体は同期を持たない。所有者（Logger）がアクセスを直列化する。
type Sink struct {
	console  io.Writer
	file     *os.File
	path     string
	err      error
	encoding Encoding
	encoder  *encoding.Encoder
}

// NewSink はコンソール出力の Sink を作成する。console が nil なら os.Stderr
func NewSink(console io.Writer, enc Encoding) *Sink {
	if console == nil {
		console = os.Stderr
	}
	return &Sink{
		console:  console,
		encoding: enc,
		encoder:  enc.newEncoder(),
	}
}

// Open は現在のファイルを閉じてから path を追記モードで開く
//
// 失敗した場合も出力先は path に切り替わり、Sink は失敗状態になる。
// 失敗状態の書き込みは何もしない。次の Open か Close で回復する。
func (s *Sink) Open(path string) error {
	if s.file != nil {
		_ = s.closeFile()
	}

	s.path = path
	s.err = nil

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		s.err = errors.Wrapf(err, "log file cannot be opened (%s)", path)
		return s.err
	}
	s.file = f
	return nil
}

// Close はファイルを閉じてコンソール出力に戻す。何度呼んでもよい
func (s *Sink) Close() error {
	err := s.closeFile()
	s.path = ""
	s.err = nil
	return err
}

func (s *Sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "log file cannot be closed (%s)", s.path)
	}
	return nil
}

// IsOpen はファイルが出力先かどうかを返す
func (s *Sink) IsOpen() bool {
	return s.file != nil
}

// Path は現在の（または失敗した）ファイルパスを返す。コンソールなら空
func (s *Sink) Path() string {
	return s.path
}

// Err は失敗状態のエラーを返す
func (s *Sink) Err() error {
	return s.err
}

// Encoding は出力エンコーディングを返す
func (s *Sink) Encoding() Encoding {
	return s.encoding
}

// Swap は2つの Sink の出力先を交換する
func (s *Sink) Swap(other *Sink) {
	if s == other {
		return
	}
	*s, *other = *other, *s
}

// Write は p をエンコードして現在の出力先に書き込む
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return len(p), nil
	}

	out := p
	if s.encoder != nil {
		encoded, err := s.encoder.Bytes(p)
		if err != nil {
			return 0, errors.Wrap(err, "encode log text")
		}
		out = encoded
	}

	var w io.Writer = s.console
	if s.file != nil {
		w = s.file
	}
	if _, err := w.Write(out); err != nil {
		s.err = errors.Wrap(err, "write log text")
		return 0, s.err
	}
	return len(p), nil
}

// WriteString は Write の文字列版
func (s *Sink) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}
