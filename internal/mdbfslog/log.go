// Package mdbfslog implements mdbfs's diagnostic stream: one line per
// message in the form "** mdbfs: LEVEL: message\n", written to stderr.
// DEBUG is gated behind the MDBFS_DEBUG environment variable; every other
// level is always emitted.
package mdbfslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()

func init() {
	std.Out = os.Stderr
	std.Formatter = new(lineFormatter)
	if os.Getenv("MDBFS_DEBUG") != "" {
		std.Level = logrus.DebugLevel
	} else {
		std.Level = logrus.InfoLevel
	}
}

// lineFormatter renders "** mdbfs: LEVEL: message\n" regardless of fields.
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := levelName(e.Level)
	line := "** mdbfs: " + level + ": " + e.Message + "\n"
	return []byte(line), nil
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	default:
		return "FAIL"
	}
}

// Debugf logs at DEBUG, visible only when MDBFS_DEBUG is set.
func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }

// Infof logs at INFO.
func Infof(format string, args ...interface{}) { std.Infof(format, args...) }

// Warnf logs at WARN.
func Warnf(format string, args ...interface{}) { std.Warnf(format, args...) }

// Failf logs at FAIL (mapped onto logrus's Error level, since logrus has no
// native "FAIL" level and mdbfs never exits from inside this package).
func Failf(format string, args ...interface{}) { std.Errorf(format, args...) }
