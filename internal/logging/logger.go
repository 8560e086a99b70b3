// Package logging provides the proxy's ambient logger.
//
// The choice between an active logger and a no-op logger is a runtime
// decision keyed off ADMIN_MODE, not a load-time binding: the admin UI
// renders to stdout and must never have proxy diagnostics bleed into its
// terminal frame, so every log call re-checks the environment.
package logging

import (
	"bytes"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	singleton atomic.Pointer[zap.SugaredLogger]
	envReader atomic.Pointer[EnvReader]
)

func init() {
	var r EnvReader = OSReader{}
	envReader.Store(&r)
	singleton.Store(newSugaredLogger())
}

func newSugaredLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	l, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a malformed config;
		// fall back to a no-frills logger rather than panic in library init.
		l = zap.NewNop()
	}
	return l.Sugar()
}

// Initialize (re)creates the singleton logger. Safe to call multiple times.
func Initialize() {
	singleton.Store(newSugaredLogger())
}

// newSugaredLoggerToWriter builds a logger writing console-encoded entries to
// w, used by tests to assert on emitted log lines without touching stderr.
func newSugaredLoggerToWriter(w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Get returns the current singleton logger, for components that need to
// inject it explicitly (the same *zap.SugaredLogger field injection style
// toolhive uses, e.g. pkg/api/v1/discovery.go).
func Get() *zap.SugaredLogger {
	return singleton.Load()
}

// setEnvReader overrides the ADMIN_MODE lookup; unexported, used by the
// package's tests.
func setEnvReader(r EnvReader) {
	envReader.Store(&r)
}

func adminMode() bool {
	r := *envReader.Load()
	v := strings.ToLower(strings.TrimSpace(r.Getenv("ADMIN_MODE")))
	return v == "true" || v == "1"
}

// Debugf logs at debug level unless ADMIN_MODE is active.
func Debugf(format string, args ...any) {
	if adminMode() {
		return
	}
	Get().Debugf(format, args...)
}

// Infof logs at info level unless ADMIN_MODE is active.
func Infof(format string, args ...any) {
	if adminMode() {
		return
	}
	Get().Infof(format, args...)
}

// Warnf logs at warn level unless ADMIN_MODE is active.
func Warnf(format string, args ...any) {
	if adminMode() {
		return
	}
	Get().Warnf(format, args...)
}

// Errorf logs at error level unless ADMIN_MODE is active.
func Errorf(format string, args ...any) {
	if adminMode() {
		return
	}
	Get().Errorf(format, args...)
}

// Info logs at info level unless ADMIN_MODE is active.
func Info(args ...any) {
	if adminMode() {
		return
	}
	Get().Info(args...)
}

// Warn logs at warn level unless ADMIN_MODE is active.
func Warn(args ...any) {
	if adminMode() {
		return
	}
	Get().Warn(args...)
}

// Error logs at error level unless ADMIN_MODE is active.
func Error(args ...any) {
	if adminMode() {
		return
	}
	Get().Error(args...)
}

// Infow logs a message with structured key/value pairs unless ADMIN_MODE is active.
func Infow(msg string, kv ...any) {
	if adminMode() {
		return
	}
	Get().Infow(msg, kv...)
}

// Warnw logs a message with structured key/value pairs unless ADMIN_MODE is active.
func Warnw(msg string, kv ...any) {
	if adminMode() {
		return
	}
	Get().Warnw(msg, kv...)
}

// Errorw logs a message with structured key/value pairs unless ADMIN_MODE is active.
func Errorw(msg string, kv ...any) {
	if adminMode() {
		return
	}
	Get().Errorw(msg, kv...)
}

// ForServer returns a child logger tagged with the backend's server name, used
// to stream a backend child process's stderr into the proxy's log stream.
func ForServer(serverName string) *zap.SugaredLogger {
	return Get().With("server", serverName)
}

// stderrWriter adapts a tagged SugaredLogger into an io.Writer, line-
// buffering writes so a child process's stderr streams into the proxy's
// structured log one line per entry.
type stderrWriter struct {
	logger *zap.SugaredLogger
	buf    []byte
}

// StderrWriter returns an io.Writer that logs each line written to it at
// warn level, tagged with serverName, for wiring into exec.Cmd.Stderr.
func StderrWriter(serverName string) io.Writer {
	return &stderrWriter{logger: ForServer(serverName)}
}

func (w *stderrWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:idx]), "\r")
		if line != "" && !adminMode() {
			w.logger.Warnf("%s", line)
		}
		w.buf = w.buf[idx+1:]
	}
	return len(p), nil
}
