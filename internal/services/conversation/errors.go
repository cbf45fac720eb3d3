// File: internal/services/conversation/errors.go
package conversation

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired gates the destructive clear operations. Callers
// must pass an explicit confirmation instead of relying on a UI prompt.
var ErrConfirmationRequired = errors.New("confirmation required for destructive operation")

type ErrorType string

const (
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypePersistence ErrorType = "PERSISTENCE"
)

type ConversationError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ConversationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Conversation %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Conversation %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ConversationError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ConversationError {
	return &ConversationError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, conversationID string) *ConversationError {
	return &ConversationError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   fmt.Sprintf("conversation %s not found", conversationID),
	}
}

func NewPersistenceError(operation string, cause error) *ConversationError {
	return &ConversationError{
		Type:      ErrTypePersistence,
		Operation: operation,
		Message:   "could not persist conversation state",
		Cause:     cause,
	}
}

// IsNotFound reports whether err is a missing-conversation failure.
func IsNotFound(err error) bool {
	var ce *ConversationError
	return errors.As(err, &ce) && ce.Type == ErrTypeNotFound
}
