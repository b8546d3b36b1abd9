/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package logger is a bounded, scrollable log of tagged entries. The
// debugger draws a window of it on screen and the terminal front-end echoes
// it to stderr.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string

	// number of identical entries folded into this one
	repeated int
}

func (e Entry) String() string {
	if e.Tag == "" {
		return e.Detail
	}

	s := fmt.Sprintf("%s: %s", e.Tag, e.Detail)
	if e.repeated > 0 {
		s += fmt.Sprintf(" (repeat x%d)", e.repeated+1)
	}

	return s
}

// Logger keeps the most recent entries and a read position for scrolling.
type Logger struct {
	mu sync.Mutex

	maxEntries int
	entries    []Entry

	// pos is the current user read position within the log.
	pos int

	echo io.Writer
}

// New creates a Logger holding at most maxEntries.
func New(maxEntries int) *Logger {
	return &Logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, 100),
	}
}

// Log adds an entry. An entry identical to the last one is folded into it.
func (l *Logger) Log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", " ")

	now := time.Now()
	scroll := l.pos == len(l.entries)

	if n := len(l.entries); n > 0 && tag != "" && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].repeated++
		l.entries[n-1].Timestamp = now
	} else {
		l.entries = append(l.entries, Entry{Timestamp: now, Tag: tag, Detail: detail})
	}

	// drop the oldest entries, keeping the read position on the same line
	if over := len(l.entries) - l.maxEntries; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)

		if l.pos -= over; l.pos < 0 {
			l.pos = 0
		}
	}

	if scroll {
		l.pos = len(l.entries)
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String()+"\n")
	}
}

// Logf adds a formatted entry.
func (l *Logger) Logf(tag, format string, args ...interface{}) {
	l.Log(tag, fmt.Sprintf(format, args...))
}

// Separator adds an empty line.
func (l *Logger) Separator() {
	l.Log("", "")
}

// Clear all entries.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = l.entries[:0]
	l.pos = 0
}

// Len is the number of entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// SetEcho also writes every new entry to w. A nil writer stops echoing.
func (l *Logger) SetEcho(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.echo = w
}

// Write every entry to w.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		io.WriteString(w, e.String()+"\n")
	}
}

// Tail writes the last n entries to w.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}

	for _, e := range l.entries[len(l.entries)-n:] {
		io.WriteString(w, e.String()+"\n")
	}
}

// Window returns up to n lines ending at the read position.
func (l *Logger) Window(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := l.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	end := start + n
	if end > len(l.entries) {
		end = len(l.entries)
	}

	lines := make([]string, 0, end-start)
	for _, e := range l.entries[start:end] {
		lines = append(lines, e.String())
	}

	return lines
}

// Home scrolls the log to the beginning.
func (l *Logger) Home() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pos = 0
}

// End scrolls the log to the end.
func (l *Logger) End() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pos = len(l.entries)
}

// ScrollUp scrolls the log back n lines.
func (l *Logger) ScrollUp(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// clamp to home
	if l.pos -= n; l.pos < 0 {
		l.pos = 0
	}
}

// ScrollDown scrolls the log forward n lines, for a window of windowSize.
func (l *Logger) ScrollDown(n, windowSize int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pos += n

	// a window above the top shows the first page
	if l.pos < windowSize {
		l.pos = windowSize
	}

	// clamp to end
	if l.pos > len(l.entries) {
		l.pos = len(l.entries)
	}
}
