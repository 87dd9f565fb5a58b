package logsvc

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kuponim/kuponim/core"
)

// LogrusLogger is the local development logger.
type LogrusLogger struct {
	log     *logrus.Logger
	enabled bool
}

var _ core.Logger = (*LogrusLogger)(nil)

func NewLogrusLogger(conf *core.Config) *LogrusLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)
	if conf.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return &LogrusLogger{log: log, enabled: true}
}

func (l *LogrusLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *LogrusLogger) entry(args []interface{}) *logrus.Entry {
	if len(args) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithField("args", args)
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) {
	if l.enabled {
		l.entry(args).Debug(msg)
	}
}

func (l *LogrusLogger) Info(msg string, args ...interface{}) {
	if l.enabled {
		l.entry(args).Info(msg)
	}
}

func (l *LogrusLogger) Warn(msg string, args ...interface{}) {
	if l.enabled {
		l.entry(args).Warn(msg)
	}
}

func (l *LogrusLogger) Error(msg string, args ...interface{}) {
	if l.enabled {
		l.entry(args).Error(msg)
	}
}

func (l *LogrusLogger) Fatal(msg string, args ...interface{}) {
	l.entry(args).Fatal(msg)
}
