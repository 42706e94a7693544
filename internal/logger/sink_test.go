package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkDefaultsToConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSink(buf, EncodingUTF8)

	assert.False(t, s.IsOpen())
	assert.Empty(t, s.Path())

	_, err := s.WriteString("hello\n")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", buf.String())
}

func TestSinkNilConsoleIsStderr(t *testing.T) {
	s := NewSink(nil, EncodingUTF8)
	assert.Equal(t, os.Stderr, s.console)
}

func TestSinkOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	buf := &bytes.Buffer{}
	s := NewSink(buf, EncodingUTF8)
	require.NoError(t, s.Open(path))
	assert.True(t, s.IsOpen())
	assert.Equal(t, path, s.Path())

	_, err := s.WriteString("appended\n")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nappended\n", string(data))
	assert.Empty(t, buf.String(), "console should not receive file output")
}

func TestSinkCloseRevertsToConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	buf := &bytes.Buffer{}
	s := NewSink(buf, EncodingUTF8)

	require.NoError(t, s.Open(path))
	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())

	// 二回目の Close も同じ状態
	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())

	_, err := s.WriteString("console\n")
	require.NoError(t, err)
	assert.Equal(t, "console\n", buf.String())
}

func TestSinkOpenFailure(t *testing.T) {
	dir := t.TempDir()
	buf := &bytes.Buffer{}
	s := NewSink(buf, EncodingUTF8)

	bad := filepath.Join(dir, "missing", "out.log")
	err := s.Open(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, err, s.Err())
	assert.False(t, s.IsOpen())
	assert.Equal(t, bad, s.Path())

	// 失敗状態の書き込みは何もしない
	n, werr := s.WriteString("dropped\n")
	assert.NoError(t, werr)
	assert.Equal(t, len("dropped\n"), n)
	assert.Empty(t, buf.String())

	good := filepath.Join(dir, "out.log")
	require.NoError(t, s.Open(good))
	assert.NoError(t, s.Err())
	_, err = s.WriteString("kept\n")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", string(data))
}

func TestSinkCloseRecoversFromFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSink(buf, EncodingUTF8)

	require.Error(t, s.Open(filepath.Join(t.TempDir(), "nope", "x.log")))
	require.NoError(t, s.Close())
	assert.NoError(t, s.Err())

	_, err := s.WriteString("back\n")
	require.NoError(t, err)
	assert.Equal(t, "back\n", buf.String())
}

func TestSinkSwap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	bufA := &bytes.Buffer{}
	bufB := &bytes.Buffer{}
	a := NewSink(bufA, EncodingUTF8)
	b := NewSink(bufB, EncodingUTF8)
	require.NoError(t, b.Open(path))

	a.Swap(b)
	assert.True(t, a.IsOpen())
	assert.False(t, b.IsOpen())

	_, _ = a.WriteString("to file\n")
	_, _ = b.WriteString("to console A\n")
	assert.Equal(t, "to console A\n", bufA.String())
	assert.Empty(t, bufB.String())

	// 自分自身との交換は何もしない
	a.Swap(a)
	assert.True(t, a.IsOpen())

	require.NoError(t, a.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "to file\n", string(data))
}
