package logger

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SinkKind selects a sink's output encoding.
type SinkKind int

const (
	SinkConsole SinkKind = iota // ANSI-colored text to a writer (stdout/stderr)
	SinkFile                    // plain text to a file
	SinkJSON                    // newline-delimited JSON to a file
	SinkNull                    // discards everything
)

// SinkConfig describes one logging destination.
type SinkConfig struct {
	Kind   SinkKind
	Writer io.Writer // for SinkConsole/SinkFile/SinkJSON; ignored for SinkNull
	Level  Level     // minimum level this sink accepts, independent of any module Filter
	Color  bool      // only meaningful for SinkConsole
}

func (s SinkConfig) core() zapcore.Core {
	if s.Kind == SinkNull {
		return zapcore.NewNopCore()
	}
	w := s.Writer
	if w == nil {
		w = os.Stderr
	}
	var enc zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch s.Kind {
	case SinkJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if s.Kind == SinkConsole && s.Color {
			encCfg.EncodeLevel = coloredLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.Level(s.Level.zapLevel()))
}

func coloredLevelEncoder(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var c *color.Color
	switch {
	case lvl < zapcore.DebugLevel:
		c = color.New(color.FgHiBlack)
	case lvl < zapcore.InfoLevel:
		c = color.New(color.FgCyan)
	case lvl < zapcore.WarnLevel:
		c = color.New(color.FgWhite)
	case lvl < zapcore.ErrorLevel:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	enc.AppendString(c.Sprint(lvl.CapitalString()))
}

// Manager owns the sinks and module filter shared by every Logger
// handed out from it. Safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	zapLog *zap.Logger
	filter *Filter
}

// NewManager builds a Manager from a set of sinks, teed together, and a
// module filter spec (empty string means "info for everything").
func NewManager(filterSpec string, sinks ...SinkConfig) (*Manager, error) {
	f, err := ParseFilter(filterSpec)
	if err != nil {
		return nil, err
	}
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, s := range sinks {
		cores = append(cores, s.core())
	}
	core := zapcore.NewTee(cores...)
	return &Manager{zapLog: zap.New(core), filter: f}, nil
}

// SetFilter replaces the module filter, e.g. after parsing a
// --log-filter flag post-construction.
func (m *Manager) SetFilter(spec string) error {
	f, err := ParseFilter(spec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
	return nil
}

// For returns a module-scoped Logger.
func (m *Manager) For(module string) *Logger {
	return &Logger{mgr: m, module: module}
}

// Sync flushes every sink; call before process exit, especially after
// any Fatal log (zap's own Fatal calls os.Exit, so callers that want a
// recoverable fatal path should use Logger.Fatal below instead of
// zap's native os.Exit behavior).
func (m *Manager) Sync() error {
	return m.zapLog.Sync()
}

// Logger is a module-scoped handle. Cheap to create; hold one per
// package/component rather than threading *Manager everywhere.
type Logger struct {
	mgr    *Manager
	module string
}

func (l *Logger) enabled(lvl Level) bool {
	l.mgr.mu.RLock()
	defer l.mgr.mu.RUnlock()
	return l.mgr.filter.Allows(l.module, lvl)
}

func (l *Logger) log(lvl Level, msg string, fields ...zap.Field) {
	if !l.enabled(lvl) {
		return
	}
	fields = append(fields, zap.String("module", l.module))
	ce := l.mgr.zapLog.Check(lvl.zapLevel(), msg)
	if ce == nil {
		return
	}
	ce.Write(fields...)
}

func (l *Logger) Trace(msg string, fields ...zap.Field) { l.log(LevelTrace, msg, fields...) }
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.log(LevelError, msg, fields...) }

// Fatal logs at fatal severity, flushes every sink, then exits with
// status 1. Unlike zap's built-in FatalLevel (which always calls
// os.Exit even on an otherwise-disabled logger), this honors the
// module filter like every other level — a filtered-out Fatal still
// exits, but silently.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.log(LevelFatal, msg, fields...)
	_ = l.mgr.Sync()
	os.Exit(1)
}

// Module returns the module name this Logger was scoped to.
func (l *Logger) Module() string { return l.module }
