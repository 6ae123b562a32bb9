package logger

// Logger is the structured logging surface used across the backend.
// Fields carry per-line context; nil is fine when there is none.
type Logger interface {
	LogDebug(msg string, fields map[string]interface{})
	LogInfo(msg string, fields map[string]interface{})
	LogWarn(msg string, fields map[string]interface{})
	// LogError logs err under msg and returns err, so call sites can log
	// and propagate in one expression.
	LogError(err error, msg string) error
	LogErrorf(err error, format string, args ...interface{}) error
	// LogFatal logs and exits; reserved for unrecoverable startup
	// failures.
	LogFatal(err error, context string)
}
