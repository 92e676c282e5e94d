// Package logging is the package-level logging facility shared by litt's
// internal packages: a mutable package-level target that every internal
// package logs through, silent by default.
package logging

import (
	"io"
	"log"
)

// Log is the shared logger. It discards output until a caller installs one
// with SetOutput.
var Log = log.New(io.Discard, "litt: ", log.LstdFlags)

// SetOutput redirects all litt logging to w. Passing nil restores the
// default (silent) behaviour.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	Log.SetOutput(w)
}

// Debugf logs a debug-level message. litt's log levels are informational
// only; nothing filters on them.
func Debugf(format string, args ...interface{}) {
	Log.Printf("DEBUG "+format, args...)
}

// Infof logs an info-level message.
func Infof(format string, args ...interface{}) {
	Log.Printf("INFO  "+format, args...)
}

// Errorf logs an error-level message.
func Errorf(format string, args ...interface{}) {
	Log.Printf("ERROR "+format, args...)
}
