// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "WSINFRA_LOG"

const tracePrefix = "TRACE: "

var (
	traceEnabled bool
	levels       = map[string]log.Level{
		"trace": log.DebugLevel, // trace rides on debug with a message prefix
		"debug": log.DebugLevel,
		"info":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"fatal": log.FatalLevel,
	}
	letters = map[log.Level]string{
		log.DebugLevel: "D",
		log.InfoLevel:  "I",
		log.WarnLevel:  "W",
		log.ErrorLevel: "E",
		log.FatalLevel: "F",
	}
)

// InitLogger installs the line handler on stderr and sets the level from
// WSINFRA_LOG. Unknown or empty values fall back to error.
func InitLogger() {
	InitLoggerTo(os.Stderr, os.Getenv(EnvLevel))
}

// InitLoggerTo is InitLogger with an explicit sink and level name. Templates
// and query results go to stdout, so logs never share it.
func InitLoggerTo(w io.Writer, level string) {
	name := strings.ToLower(strings.TrimSpace(level))
	traceEnabled = name == "trace"

	apexLevel, ok := levels[name]
	if !ok {
		apexLevel = log.ErrorLevel
	}

	log.SetHandler(&LineHandler{Writer: w})
	log.SetLevel(apexLevel)
}

// LineHandler writes "<timestamp> <level> <message>" lines.
type LineHandler struct {
	mu     sync.Mutex
	Writer io.Writer
	// Now is swapped in tests.
	Now func() time.Time
}

// HandleLog implements log.Handler.
func (h *LineHandler) HandleLog(e *log.Entry) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	message := e.Message
	level, ok := letters[e.Level]
	if !ok {
		level = "?"
	}
	if strings.HasPrefix(message, tracePrefix) {
		level = "T"
		message = strings.TrimPrefix(message, tracePrefix)
	}

	// Fields attached via WithField/WithError trail the message.
	for _, name := range e.Fields.Names() {
		message += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.Writer, "%s %s %s\n", now().Format("2006-01-02 15:04:05"), level, message)
	return err
}

// Tracef logs below Debug when WSINFRA_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
