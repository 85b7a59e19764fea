// Package logging provides the leveled console logger used by every stage.
//
// Output keeps one line per event in the form
//
//	2006-01-02 15:04:05 [LEVEL] text
//
// with the level tag colored when the terminal allows it. ERROR lines go to
// stderr, everything else to stdout, and an optional append-only file
// receives every line without color. The backend is logrus; the label field
// carries the display level (SUCCESS, SKIP) that logrus has no level for.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/term"
)

// labelField is the logrus field holding the display level.
const labelField = "label"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu      sync.Mutex
	log     *logrus.Logger
	file    *os.File
	verbose bool
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile for appending. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(os.Stdout, os.Stderr, cfg)
}

func newLogger(stdout, stderr io.Writer, cfg *config.Config) (*Logger, error) {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.DebugLevel)

	console := &lineFormatter{color: term.Enabled()}
	base.AddHook(&writerHook{
		out:       stdout,
		formatter: console,
		levels:    []logrus.Level{logrus.InfoLevel, logrus.WarnLevel, logrus.DebugLevel},
	})
	base.AddHook(&writerHook{
		out:       stderr,
		formatter: console,
		levels:    []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel},
	})

	l := &Logger{log: base, verbose: cfg.Verbose}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		base.AddHook(&writerHook{
			out:       f,
			formatter: &lineFormatter{},
			levels:    logrus.AllLevels,
		})
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) emit(level logrus.Level, label, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.WithField(labelField, label).Log(level, text)
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "INFO", fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "SUCCESS", fmt.Sprintf(format, args...))
}

// Skip logs at SKIP level (magenta) for work that was already done.
func (l *Logger) Skip(format string, args ...interface{}) {
	l.emit(logrus.InfoLevel, "SKIP", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(logrus.WarnLevel, "WARN", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(logrus.ErrorLevel, "ERROR", fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.emit(logrus.DebugLevel, "DEBUG", fmt.Sprintf(format, args...))
}
