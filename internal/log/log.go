// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var traceEnabled bool

// InitLogger sets up Apex with a custom handler and a log level from the
// ASTROJOBS_LOG env variable. Records go to stderr so that json/yaml reports
// on stdout stay parseable, or to a rotated file when ASTROJOBS_LOG_FILE is
// set.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("ASTROJOBS_LOG"))
	if envLevel == "" {
		envLevel = "error"
	}
	traceEnabled = envLevel == "trace"

	var w io.Writer = os.Stderr
	if path := os.Getenv("ASTROJOBS_LOG_FILE"); path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	log.SetHandler(NewHandler(w))
	log.SetLevel(ParseLevel(envLevel))
}

// ParseLevel maps a level name to an Apex level. Unknown names yield
// ErrorLevel.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "trace":
		return log.DebugLevel // Show debug and above for trace
	case "debug":
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

// CustomHandler formats log messages as "<timestamp> <level> <message>".
type CustomHandler struct {
	w io.Writer
}

// NewHandler returns a CustomHandler writing to w, or stderr if w is nil.
func NewHandler(w io.Writer) *CustomHandler {
	if w == nil {
		w = os.Stderr
	}
	return &CustomHandler{w: w}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
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

	for _, name := range e.Fields.Names() {
		message += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}

	_, err := fmt.Fprintf(h.w, "%s %s %s\n", timestamp, level, message)
	return err
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

// Leveled adapts the package logger to the key/value leveled logger shape
// expected by go-retryablehttp. Every message is logged at Debug because
// callers report the final error themselves.
type Leveled struct{}

func (Leveled) Error(msg string, keysAndValues ...interface{}) {
	log.WithFields(kv(keysAndValues)).Debug(msg)
}

func (Leveled) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(kv(keysAndValues)).Debug(msg)
}

func (Leveled) Debug(msg string, keysAndValues ...interface{}) {
	log.WithFields(kv(keysAndValues)).Debug(msg)
}

func (Leveled) Warn(msg string, keysAndValues ...interface{}) {
	log.WithFields(kv(keysAndValues)).Debug(msg)
}

func kv(keysAndValues []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
