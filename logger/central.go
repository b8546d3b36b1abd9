package logger

import "io"

// maximum number of entries in the central logger
const maxCentral = 512

// one log for the whole application
var central = New(maxCentral)

// Central returns the application log.
func Central() *Logger {
	return central
}

// Log adds an entry to the central logger.
func Log(tag, detail string) {
	central.Log(tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(tag, format string, args ...interface{}) {
	central.Logf(tag, format, args...)
}

// Write contents of the central logger to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail writes the last n entries of the central logger to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// SetEcho prints new central log entries to w.
func SetEcho(w io.Writer) {
	central.SetEcho(w)
}
