package testhelper

import (
	"fmt"
	"strings"
	"sync"
)

// LogEntry represents a captured log entry with its message and fields
type LogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// TestLogger implements logger.Logger and records everything it is told,
// so tests can assert on log output
type TestLogger struct {
	mu            sync.RWMutex
	infoMessages  []LogEntry
	errorMessages []LogEntry
	warnMessages  []LogEntry
	debugMessages []LogEntry
	debugEnabled  bool
}

// NewTestLogger creates a new test logger instance
func NewTestLogger(debugEnabled bool) *TestLogger {
	return &TestLogger{debugEnabled: debugEnabled}
}

func (t *TestLogger) LogInfo(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.infoMessages = append(t.infoMessages, LogEntry{Message: msg, Fields: fields})
}

func (t *TestLogger) LogError(err error, msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}
	t.errorMessages = append(t.errorMessages, LogEntry{Message: msg, Fields: fields})
	return err
}

func (t *TestLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return t.LogError(err, fmt.Sprintf(format, args...))
}

func (t *TestLogger) LogFatal(err error, context string) {
	// Fatal must not exit in tests; record it as an error instead
	_ = t.LogError(err, "FATAL: "+context)
}

func (t *TestLogger) LogWarn(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnMessages = append(t.warnMessages, LogEntry{Message: msg, Fields: fields})
}

func (t *TestLogger) LogDebug(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.debugEnabled {
		return
	}
	t.debugMessages = append(t.debugMessages, LogEntry{Message: msg, Fields: fields})
}

// EnableDebug turns on debug message capture
func (t *TestLogger) EnableDebug() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debugEnabled = true
}

// DisableDebug turns off debug message capture
func (t *TestLogger) DisableDebug() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debugEnabled = false
}

// GetInfoMessages returns the captured info entries
func (t *TestLogger) GetInfoMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.infoMessages...)
}

// GetErrorMessages returns the captured error entries
func (t *TestLogger) GetErrorMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.errorMessages...)
}

// GetWarnMessages returns the captured warn entries
func (t *TestLogger) GetWarnMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.warnMessages...)
}

// GetDebugMessages returns the captured debug entries
func (t *TestLogger) GetDebugMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.debugMessages...)
}

// HasWarnContaining reports whether any warn entry contains the substring
func (t *TestLogger) HasWarnContaining(substr string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, entry := range t.warnMessages {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}
