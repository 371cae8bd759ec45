package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/config"
)

// Logger is a component-tagged view of the process logger. The handler is
// looked up on every call, so package-level loggers created before Init
// still pick up the handler Init installs.
type Logger struct {
	args []any
}

type Options struct {
	// Writer defaults to stdout.
	Writer io.Writer
	// JSON forces the JSON handler; otherwise it follows config.IS_PROD.
	JSON  bool
	Level slog.Leveler
}

func Init() {
	InitWith(Options{})
}

func InitWith(o Options) {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	options := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}

	var handler slog.Handler
	if config.IS_PROD {
		options.Level = config.LOG_LEVEL_PROD
	}
	if o.Level != nil {
		options.Level = o.Level
	}
	if config.IS_PROD || o.JSON {
		handler = slog.NewJSONHandler(o.Writer, options)
	} else {
		handler = slog.NewTextHandler(o.Writer, options)
	}
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps debug/info/warn/error to a level; anything else is nil so
// the default for the build applies.
func ParseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return nil
}

func NewLogger(section string) *Logger {
	return &Logger{args: []any{"component", section}}
}

// TraceID returns the trace id stored by the middleware, or "" when the
// context was not created by a request (workers, tests).
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func (l *Logger) Info(msg string, args ...any) {
	l.logWithSource(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logWithSource(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logWithSource(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logWithSource(slog.LevelDebug, msg, args...)
}

func (l *Logger) logWithSource(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	handler := slog.Default().With(l.args...).Handler()
	if !handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// Skip 3 levels: runtime.Callers, logWithSource, and the Info/Err/Dbg wrapper
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = handler.Handle(ctx, r)
}

func (l *Logger) With(args ...any) *Logger {
	merged := make([]any, 0, len(l.args)+len(args))
	merged = append(merged, l.args...)
	merged = append(merged, args...)
	return &Logger{args: merged}
}

// WithTrace is the common With("traceId", ...) call.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	return l.With("traceId", TraceID(ctx))
}
