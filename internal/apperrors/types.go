package apperrors

// ValidationError represents a validation error with a field and message.
// Validation errors are rejected before any I/O and are never retried.
type ValidationError struct {
	Field   string
	Message string
}

// NotFoundError represents a missing target entity (user, video, comment)
type NotFoundError struct {
	Resource string
	ID       string
}

// TransientError represents a retryable storage failure. The enclosing
// atomic unit of work has been rolled back in full when one is returned.
type TransientError struct {
	Message string
	Cause   error
}

// InvariantError represents a data-consistency violation detected at
// runtime, such as a counter that would go negative. These indicate
// upstream corruption rather than a caller mistake; they are logged and
// clamped rather than propagated.
type InvariantError struct {
	Message string
}
