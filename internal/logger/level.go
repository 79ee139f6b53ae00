// Package logger implements the compiler driver's structured logging
// layer (spec.md §4.13 ambient logging facility): a six-level severity
// lattice, a module-tagged filter spec, and console/file/null sinks.
// Built on zap.NewProductionConfig/AtomicLevel/Sync-on-shutdown, the
// pattern a structured-logging CLI in the corpus wires up.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a position in the Trace < Debug < Info < Warn < Error < Fatal
// lattice. It maps onto zapcore.Level by an offset so Trace (the one
// level zap has no native concept of) still sorts below Debug.
type Level int8

const (
	LevelTrace Level = iota - 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// zapLevel converts to the underlying zapcore.Level. Trace has no zap
// equivalent so it is encoded one notch below Debug using zap's raw
// int8 level space (DebugLevel == -1).
func (l Level) zapLevel() zapcore.Level {
	if l == LevelTrace {
		return zapcore.Level(-2)
	}
	return zapcore.Level(int8(l) - 1)
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("logger: unknown level %q", s)
	}
}
