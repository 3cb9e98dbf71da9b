package output

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Logger is responsible for logging the steps of loading and rendering a dashboard.
type Logger interface {
	LogLoadStart(path string)
	LogLoadComplete(path string, tables int)
	LogAggregateComplete(path string, samples int64)
	LogReportWritten(path, format string)
	LogServerStart(addr string)
	LogServerStop()

	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

type reportLogger struct {
	logger pterm.Logger
}

type noopLogger struct{}

// NewLoggerTo creates a logger writing to w at the given level ("debug", "info", "warn"
// or "error").
func NewLoggerTo(w io.Writer, level string) Logger {
	return &reportLogger{logger: *pterm.DefaultLogger.WithLevel(parseLevel(level)).WithWriter(w)}
}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func parseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}

func (l *reportLogger) LogLoadStart(path string) {
	l.logger.Debug("loading dashboard", l.logger.Args("path", path))
}

func (l *reportLogger) LogLoadComplete(path string, tables int) {
	l.logger.Info("loaded dashboard", l.logger.Args("path", path, "tables", tables))
}

func (l *reportLogger) LogAggregateComplete(path string, samples int64) {
	l.logger.Info("aggregated results", l.logger.Args("path", path, "samples", samples))
}

func (l *reportLogger) LogReportWritten(path, format string) {
	l.logger.Info("report written", l.logger.Args("path", path, "format", format))
}

func (l *reportLogger) LogServerStart(addr string) {
	l.logger.Info("serving dashboard", l.logger.Args("addr", addr))
}

func (l *reportLogger) LogServerStop() {
	l.logger.Info("server stopped")
}

func (l *reportLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args...))
}

func (l *reportLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.logger.Args(args...))
}

func (l *reportLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, l.logger.Args(args...))
}

func (l *noopLogger) LogLoadStart(path string)                        {}
func (l *noopLogger) LogLoadComplete(path string, tables int)         {}
func (l *noopLogger) LogAggregateComplete(path string, samples int64) {}
func (l *noopLogger) LogReportWritten(path, format string)            {}
func (l *noopLogger) LogServerStart(addr string)                      {}
func (l *noopLogger) LogServerStop()                                  {}
func (l *noopLogger) Info(msg string, args ...any)                    {}
func (l *noopLogger) Warn(msg string, args ...any)                    {}
func (l *noopLogger) Debug(msg string, args ...any)                   {}
