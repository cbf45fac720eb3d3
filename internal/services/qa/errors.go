// File: internal/services/qa/errors.go
package qa

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeBackend    ErrorType = "BACKEND"
)

type QAError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *QAError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("QA %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("QA %s error: %s", e.Type, e.Message)
}

func (e *QAError) Unwrap() error { return e.Cause }

func NewValidationError(msg string) *QAError {
	return &QAError{Type: ErrTypeValidation, Message: msg}
}

func NewNetworkError(msg string, cause error) *QAError {
	return &QAError{Type: ErrTypeNetwork, Message: msg, Cause: cause}
}

func NewBackendError(code int, msg string) *QAError {
	return &QAError{Type: ErrTypeBackend, Code: code, Message: msg}
}
