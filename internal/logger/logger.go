package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var base = newBase(io.Discard)

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	return l
}

// Init configures JSONL logging into log/app.log.
func Init(baseDir string) error {
	logDir := filepath.Join(baseDir, "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	base.SetOutput(f)
	return nil
}

// SetOutput redirects log lines, mostly for tests. nil discards them.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	base.SetOutput(w)
}

func SetDebug(enabled bool) {
	if enabled {
		base.SetLevel(logrus.DebugLevel)
		return
	}
	base.SetLevel(logrus.InfoLevel)
}

func Debug(msg string, fields map[string]any) {
	base.WithFields(logrus.Fields(fields)).Debug(msg)
}

func Info(msg string, fields map[string]any) {
	base.WithFields(logrus.Fields(fields)).Info(msg)
}

func Warn(msg string, fields map[string]any) {
	base.WithFields(logrus.Fields(fields)).Warn(msg)
}

func Error(msg string, fields map[string]any) {
	base.WithFields(logrus.Fields(fields)).Error(msg)
}
