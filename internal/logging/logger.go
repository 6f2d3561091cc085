// Package logging provides leveled, optionally colored logging with an
// optional plain-text file sink. The engine is logrus with a custom
// formatter that renders the classic "ts [LEVEL] msg" line shape.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/speedexp/internal/config"
	"github.com/backmassage/speedexp/internal/term"
)

// labelField carries a display label (e.g. SUCCESS) that overrides the
// logrus level name in the formatted line.
const labelField = "label"

// Logger wraps a logrus.Logger configured for terminal output. Components
// that log take a *Logger as a parameter; there is no package-level global.
type Logger struct {
	rus     *logrus.Logger
	file    *os.File
	verbose bool
}

// New configures terminal colors from cfg and returns a ready Logger,
// optionally with a plain-text file sink. Call Close() when done if
// cfg.LogFile was set.
func New(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	rus := logrus.New()
	rus.SetOutput(os.Stdout)
	rus.SetLevel(logrus.DebugLevel)
	rus.SetFormatter(&lineFormatter{})

	l := &Logger{rus: rus, verbose: cfg.Verbose}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		rus.AddHook(&fileHook{file: f})
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.rus.Infof(format, args...)
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.rus.WithField(labelField, "SUCCESS").Infof(format, args...)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.rus.Warnf(format, args...)
}

// Error logs at ERROR level (red).
func (l *Logger) Error(format string, args ...interface{}) {
	l.rus.Errorf(format, args...)
}

// Debug logs at DEBUG level (cyan) only when the logger was built from a
// verbose config; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.rus.Debugf(format, args...)
}

// --- formatter ---

// lineFormatter renders "ts [LEVEL] msg" with the level token colored via
// the term package variables (empty strings when colors are off).
type lineFormatter struct{}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, color := labelFor(e)
	ts := e.Time.Format("2006-01-02 15:04:05")

	var line string
	if color != "" {
		line = fmt.Sprintf("%s %s[%s]%s %s\n", ts, color, label, term.NC, e.Message)
	} else {
		line = fmt.Sprintf("%s [%s] %s\n", ts, label, e.Message)
	}
	return []byte(line), nil
}

func labelFor(e *logrus.Entry) (label, color string) {
	if v, ok := e.Data[labelField].(string); ok && v == "SUCCESS" {
		return "SUCCESS", term.Green
	}
	switch e.Level {
	case logrus.DebugLevel:
		return "DEBUG", term.Cyan
	case logrus.WarnLevel:
		return "WARN", term.Yellow
	case logrus.ErrorLevel:
		return "ERROR", term.Red
	default:
		return "INFO", term.Blue
	}
}

// --- file sink ---

// fileHook mirrors every entry to the log file without color escapes.
type fileHook struct {
	file *os.File
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	label, _ := labelFor(e)
	ts := e.Time.Format("2006-01-02 15:04:05")
	_, err := fmt.Fprintf(h.file, "%s [%s] %s\n", ts, label, e.Message)
	return err
}
