package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeConsistency = "CONSISTENCY_ERROR"
	ErrCodeParse       = "PARSE_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeState       = "STATE_ERROR"
	ErrCodeIO          = "IO_ERROR"
)

// T2DError is the structured error type for all t2d operations.
type T2DError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	EntityID string         `json:"entity_id,omitempty"`
	Cause    error          `json:"-"`
}

func (e *T2DError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("[%s] entity %s: %s", e.Code, e.EntityID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *T2DError) Unwrap() error {
	return e.Cause
}

// NewError creates a new T2DError.
func NewError(code, message string) *T2DError {
	return &T2DError{Code: code, Message: message}
}

// NewErrorf creates a new T2DError with a formatted message.
func NewErrorf(code, format string, args ...any) *T2DError {
	return &T2DError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithEntity attaches the id of the diagram or content file the error concerns.
func (e *T2DError) WithEntity(id string) *T2DError {
	e.EntityID = id
	return e
}

// WithCause attaches an underlying cause.
func (e *T2DError) WithCause(err error) *T2DError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *T2DError) WithDetails(details map[string]any) *T2DError {
	e.Details = details
	return e
}
