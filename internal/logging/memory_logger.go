package logging

import (
	"fmt"
	"sync"
)

// MemoryLogger records all messages in memory. Intended for tests that
// assert on diagnostics the harness emits (e.g. missing chain keys).
// Safe for concurrent use by multiple goroutines.
type MemoryLogger struct {
	mu       sync.Mutex
	Messages []string
}

// NewMemoryLogger creates a new MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Verbose records a verbose message.
func (l *MemoryLogger) Verbose(format string, args ...interface{}) {
	l.record("VERBOSE", format, args)
}

// Info records an info message.
func (l *MemoryLogger) Info(format string, args ...interface{}) {
	l.record("INFO", format, args)
}

// Error records an error message.
func (l *MemoryLogger) Error(format string, args ...interface{}) {
	l.record("ERROR", format, args)
}

func (l *MemoryLogger) record(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, level+": "+fmt.Sprintf(format, args...))
}

// All returns a copy of the recorded messages.
func (l *MemoryLogger) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.Messages))
	copy(out, l.Messages)
	return out
}
