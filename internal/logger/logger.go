package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New returns the root logger. It starts at trace level so config
// loading stays visible, SetVerbose settles the level once the config
// is read.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.DateTime,
		FullTimestamp:   true,
	})
	l.SetLevel(logrus.TraceLevel)
	return l
}

// SetVerbose keeps trace logging for debug runs and switches to info
// level otherwise.
func SetVerbose(l *logrus.Logger, debug bool) {
	if debug {
		l.SetLevel(logrus.TraceLevel)
		return
	}
	l.SetLevel(logrus.InfoLevel)
}
