package logger

import (
	"strings"

	"github.com/pkg/errors"
)

// Level はログレベルを表す
type Level uint8

const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	// LevelNone はしきい値専用。全てのメッセージを抑制する
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Tag は行に埋め込む固定幅のレベルタグを返す
func (l Level) Tag() string {
	switch l {
	case LevelTrace:
		return "TRACE: "
	case LevelInfo:
		return "INFO:  "
	case LevelWarn:
		return "WARN:  "
	case LevelError:
		return "ERROR: "
	case LevelFatal:
		return "FATAL: "
	default:
		return ""
	}
}

// ParseLevel はレベル名をパースする（大文字小文字は区別しない）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelNone, errors.Errorf("unknown log level: %q", s)
	}
}
