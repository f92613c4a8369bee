// Package llog implements a simple logger on top of stdlib's log with two log levels.
//
// Both commands in this repository reserve stdout for program output, so loggers
// are normally pointed at stderr.
package llog

import (
	"io"
	"log"
)

type Logger struct {
	*log.Logger
	dbg bool
}

func NewLogger(logger *log.Logger, debug bool) *Logger {
	return &Logger{logger, debug}
}

// New returns a Logger writing to w. The prefix is typically the command name.
func New(w io.Writer, prefix string, debug bool) *Logger {
	return NewLogger(log.New(w, prefix, log.LstdFlags), debug)
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "", false)
}

func (l *Logger) SetDebug(debug bool) { l.dbg = debug }

func (l *Logger) Debug() bool { return l.dbg }

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.dbg {
		l.Printf(format, args...)
	}
}

func (l *Logger) Debugln(args ...interface{}) {
	if l.dbg {
		l.Println(args...)
	}
}
