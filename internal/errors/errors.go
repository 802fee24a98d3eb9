package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound     ErrorType = "NOT_FOUND"
	ErrRateLimit    ErrorType = "RATE_LIMIT"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
	ErrInternal     ErrorType = "INTERNAL"
	ErrUpstream     ErrorType = "UPSTREAM"
	ErrConflict     ErrorType = "CONFLICT"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func isType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return true
	}
	return isType(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return isType(err, ErrInvalidInput)
}

// IsUpstream checks if the error came from the AV API
func IsUpstream(err error) bool {
	return isType(err, ErrUpstream)
}

// IsConflict checks if the error is a conflict, including a collection already running
func IsConflict(err error) bool {
	var inProgress *CollectionInProgressError
	if stderrors.As(err, &inProgress) {
		return true
	}
	return isType(err, ErrConflict)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewUpstreamError wraps a failure returned by the AV API
func NewUpstreamError(message string, err error) *AppError {
	return New(ErrUpstream, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// CollectionInProgressError is returned when a collection run is requested while another one is active
type CollectionInProgressError struct {
	RunID string
}

func (e *CollectionInProgressError) Error() string {
	return fmt.Sprintf("collection already in progress: run %s", e.RunID)
}

// NewCollectionInProgressError creates a new CollectionInProgressError
func NewCollectionInProgressError(runID string) error {
	return &CollectionInProgressError{RunID: runID}
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewResourceNotFoundError creates a new NotFoundError for a specific resource
func NewResourceNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}
