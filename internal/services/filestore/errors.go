// File: internal/services/filestore/errors.go
package filestore

import "fmt"

type ErrorType string

const (
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNetwork     ErrorType = "NETWORK"
	ErrTypeBackend     ErrorType = "BACKEND"
	ErrTypePersistence ErrorType = "PERSISTENCE"
)

type FileError struct {
	Type     ErrorType
	Code     int
	FileName string
	Message  string
	Cause    error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("File %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("File %s error: %s", e.Type, e.Message)
}

func (e *FileError) Unwrap() error { return e.Cause }

func NewValidationError(msg string) *FileError {
	return &FileError{Type: ErrTypeValidation, Message: msg}
}

func NewNetworkError(msg string, cause error) *FileError {
	return &FileError{Type: ErrTypeNetwork, Message: msg, Cause: cause}
}

func NewBackendError(code int, fileName, msg string) *FileError {
	return &FileError{Type: ErrTypeBackend, Code: code, FileName: fileName, Message: msg}
}

func NewPersistenceError(msg string, cause error) *FileError {
	return &FileError{Type: ErrTypePersistence, Message: msg, Cause: cause}
}
