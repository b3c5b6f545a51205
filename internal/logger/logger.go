package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetOutput sets the output destination for all log messages. The
// interactive form uses this to capture lines for its log pane.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetVerbose enables or disables debug-level messages.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// EnableFile tees log output into a size-rotated file at path, in addition
// to the current destination.
func EnableFile(path string) {
	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	log.SetOutput(io.MultiWriter(log.Out, rotated))
}

func tagPrefix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf("[%s] ", strings.Join(tags, "]["))
}

// Info logs an informational message
func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// InfoTagged logs an informational message with tags
func InfoTagged(tags []string, format string, v ...interface{}) {
	log.Infof(tagPrefix(tags)+format, v...)
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// WarningTagged logs a warning message with tags
func WarningTagged(tags []string, format string, v ...interface{}) {
	log.Warnf(tagPrefix(tags)+format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

// ErrorTagged logs an error message with tags
func ErrorTagged(tags []string, format string, v ...interface{}) {
	log.Errorf(tagPrefix(tags)+format, v...)
}

// Debug logs a message only when verbose mode is on
func Debug(format string, v ...interface{}) {
	log.Debugf(format, v...)
}
