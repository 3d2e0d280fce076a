package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05.000 Z07:00"

type utcFormatter struct {
	logrus.Formatter
}

func (f utcFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Time = entry.Time.UTC()
	return f.Formatter.Format(entry)
}

// Options controls diagnostic logging
type Options struct {
	Level  string
	JSON   bool
	Colors bool
	Output io.Writer

	// File, when set, receives a copy of every entry
	File string
}

// Setup configures the standard logrus logger. Diagnostics go to stderr so
// they never mix with the operator-facing output on stdout.
func Setup(opts Options) error {
	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	var lineFormatter logrus.Formatter
	if opts.JSON {
		lineFormatter = &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		}
	} else {
		lineFormatter = &logrus.TextFormatter{
			TimestampFormat:  timestampFormat,
			FullTimestamp:    true,
			ForceColors:      opts.Colors,
			DisableColors:    !opts.Colors,
			QuoteEmptyFields: true,
		}
	}
	formatter := &utcFormatter{lineFormatter}
	logrus.SetFormatter(formatter)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)

	if opts.File == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	// the file always gets plain text, whatever the console uses
	fileFormatter := &utcFormatter{&logrus.TextFormatter{
		TimestampFormat: timestampFormat,
		FullTimestamp:   true,
		DisableColors:   true,
	}}
	logrus.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: f,
		logrus.InfoLevel:  f,
		logrus.WarnLevel:  f,
		logrus.ErrorLevel: f,
		logrus.FatalLevel: f,
		logrus.PanicLevel: f,
	}, fileFormatter))

	return nil
}

// ForRun returns an entry tagged with the run id and mode
func ForRun(runID, mode string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"run":  runID,
		"mode": mode,
	})
}
