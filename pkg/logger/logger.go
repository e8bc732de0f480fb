// Package logger offers a small layer above logrus so that the rest of the
// code does not depend on its API directly, and so that every log line
// carries the namespace of the component that emitted it.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var baseLogger *logrus.Logger

// Fields type, used to pass to [Logger.WithFields].
type Fields map[string]interface{}

// Logger allows to emit logs to the underlying log system.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	WithField(fn string, fv interface{}) Logger
	WithFields(fields Fields) Logger
	WithTime(t time.Time) Logger
}

// Options contains the configuration values of the logger system.
type Options struct {
	Output io.Writer
	Level  string
}

// Init initializes the logger module with the specified options.
func Init(opt Options) error {
	level := opt.Level
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	output := opt.Output
	if output == nil {
		output = os.Stderr
	}

	l := logrus.New()
	l.SetLevel(logLevel)
	l.SetOutput(output)
	baseLogger = l
	return nil
}

// WithNamespace returns a logger with the specified namespace field.
func WithNamespace(nspace string) Logger {
	if baseLogger == nil {
		_ = Init(Options{})
	}
	return &entry{baseLogger.WithField("nspace", nspace)}
}

type entry struct {
	entry *logrus.Entry
}

func (e *entry) Debugf(format string, args ...interface{}) { e.entry.Debugf(format, args...) }
func (e *entry) Infof(format string, args ...interface{})  { e.entry.Infof(format, args...) }
func (e *entry) Warnf(format string, args ...interface{})  { e.entry.Warnf(format, args...) }
func (e *entry) Errorf(format string, args ...interface{}) { e.entry.Errorf(format, args...) }

func (e *entry) Debug(msg string) { e.entry.Debug(msg) }
func (e *entry) Info(msg string)  { e.entry.Info(msg) }
func (e *entry) Warn(msg string)  { e.entry.Warn(msg) }
func (e *entry) Error(msg string) { e.entry.Error(msg) }

func (e *entry) WithField(fn string, fv interface{}) Logger {
	return &entry{e.entry.WithField(fn, fv)}
}

func (e *entry) WithFields(fields Fields) Logger {
	return &entry{e.entry.WithFields(logrus.Fields(fields))}
}

func (e *entry) WithTime(t time.Time) Logger {
	return &entry{e.entry.WithTime(t)}
}
