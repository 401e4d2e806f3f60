// Package testutil provides shared test helpers.
package testutil

import (
	"sync"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
)

// CaptureLogger implements logging.Logger and records every entry, letting
// tests assert on what a component logged. Safe for concurrent use.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewCaptureLogger returns an empty capture logger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (l *CaptureLogger) record(level, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *CaptureLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *CaptureLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *CaptureLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *CaptureLogger) Error(msg string, fields ...logging.Field) { l.record("error", msg, fields) }

// Fatal records the entry without exiting, so tests can assert on fatal
// paths.
func (l *CaptureLogger) Fatal(msg string, fields ...logging.Field) { l.record("fatal", msg, fields) }

// With returns the logger itself; captured entries do not track bound
// fields separately.
func (l *CaptureLogger) With(_ ...logging.Field) logging.Logger { return l }

// Named returns the logger itself; names are not tracked.
func (l *CaptureLogger) Named(_ string) logging.Logger { return l }

// Entries returns a copy of all captured entries.
func (l *CaptureLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset discards all captured entries.
func (l *CaptureLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Has reports whether an entry with the given level and message was logged.
func (l *CaptureLogger) Has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
