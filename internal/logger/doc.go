// Package logger provides a small, thread-safe, leveled text logger.
//
// Every emitted line has the form
//
//	[<goroutine-id>, <elapsed-seconds>] <TAG><message>\n
//
// where the elapsed time is measured from the logger's construction with
// the monotonic clock and printed with three decimals, and TAG is one of
// the fixed-width tags "TRACE: ", "INFO:  ", "WARN:  ", "ERROR: ", "FATAL: ".
//
// # Basic Usage
//
//	l := logger.New(logger.DefaultLevel)
//	l.Info("starting up")
//	l.Warning("disk", " ", "low").Error("retry ", 3, " failed")
//
// Logging to a file:
//
//	l, err := logger.NewFile("app.log", logger.LevelTrace)
//	if err != nil {
//	    // l is still usable; writes are dropped until OpenFile or CloseFile succeeds
//	}
//	defer l.Close()
//
// # Log Levels
//
// Levels are ordered Trace < Info < Warn < Error < Fatal < None. A message
// is written when its level is at or above the threshold; LevelNone as a
// threshold suppresses everything. DefaultLevel is LevelInfo, or LevelError
// when built with -tags release.
//
// # Sinks
//
// A Sink writes either to a console writer (os.Stderr by default) or to a
// file opened in append mode. Opening a new file closes the previous one;
// closing always falls back to the console. Output can be transcoded to
// UTF-16 or UTF-32 with WithEncoding.
//
// # Thread Safety
//
// The threshold is stored atomically and can be read or changed while other
// goroutines log. Every access to the sink, including OpenFile, CloseFile
// and Swap, holds the logger's mutex, so lines from concurrent calls never
// interleave. Swap leaves both loggers usable. A Logger must not be closed,
// replaced or discarded while another goroutine is still inside one of its
// calls.
package logger
