// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// InitLogger sets up Apex with a custom handler and a log level from the
// CSVFILTER_LOG env variable.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("CSVFILTER_LOG"))
	traceEnabled = envLevel == "trace"
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	log.SetLevel(levelFor(envLevel))
}

// levelFor maps a CSVFILTER_LOG value to an apex level. Unknown and empty
// values fall back to error.
func levelFor(envLevel string) log.Level {
	switch envLevel {
	case "trace", "debug":
		// Trace is emitted at debug with a marker prefix.
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// CustomHandler formats log messages as single lines. Matched rows go to
// stdout, so the handler writes to stderr unless told otherwise.
type CustomHandler struct {
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	if err, ok := e.Fields["error"]; ok {
		message = fmt.Sprintf("%s: %v", message, err)
	}

	fmt.Fprintf(w, "%s %s %s\n", timestamp, level, message)
	return nil
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
