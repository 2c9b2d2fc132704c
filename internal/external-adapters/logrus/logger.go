// Package logrus adapts github.com/sirupsen/logrus to interfaces.Logger.
package logrus

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ochairo/update-chrome-driver/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on top of a logrus entry
type Logger struct {
	entry *logrus.Entry
}

// Options configures a new logger
type Options struct {
	Output  io.Writer
	Verbose bool
	NoColor bool
}

// New creates a text logger writing to opts.Output. Verbose enables debug
// entries.
func New(opts Options) *Logger {
	l := logrus.New()
	l.SetOutput(opts.Output)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    opts.NoColor,
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	if opts.Verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.withFields(fields).Debug(msg)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.withFields(fields).Info(msg)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.withFields(fields).Warn(msg)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.withFields(fields).Error(msg)
}

// With returns a logger carrying fields on every entry
func (l *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	return &Logger{entry: l.withFields(fields)}
}

func (l *Logger) withFields(fields []interfaces.Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			lf[f.Key] = err.Error()
			continue
		}
		lf[f.Key] = f.Value
	}
	return l.entry.WithFields(lf)
}

var _ interfaces.Logger = (*Logger)(nil)
