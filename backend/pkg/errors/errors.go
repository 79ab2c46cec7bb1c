package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents a referenced user or post that does not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict represents a uniqueness violation
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeValidation represents a caller-supplied invariant violation
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInternal represents store failures, aborted transactions and unexpected results
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrType reports the category of the error
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Not Found Errors

// ErrUserNotFound is returned when a user is not found in the graph
type ErrUserNotFound struct {
	*BaseError
	UserID string
}

func NewUserNotFound(userID string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// ErrPostNotFound is returned when a post is not found in the graph
type ErrPostNotFound struct {
	*BaseError
	PostID string
}

func NewPostNotFound(postID string) *ErrPostNotFound {
	return &ErrPostNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("post not found: %s", postID), nil),
		PostID:    postID,
	}
}

// Conflict Errors

// ErrUsernameTaken is returned when a username is already registered
type ErrUsernameTaken struct {
	*BaseError
	Username string
}

func NewUsernameTaken(username string, err error) *ErrUsernameTaken {
	return &ErrUsernameTaken{
		BaseError: NewBaseError(ErrorTypeConflict, fmt.Sprintf("user with username '%s' already exists", username), err),
		Username:  username,
	}
}

// Validation Errors

// ErrSelfFollow is returned when a user tries to follow themselves
type ErrSelfFollow struct {
	*BaseError
	UserID string
}

func NewSelfFollow(userID string) *ErrSelfFollow {
	return &ErrSelfFollow{
		BaseError: NewBaseError(ErrorTypeValidation, "user cannot follow themselves", nil),
		UserID:    userID,
	}
}

// ErrInvalidArgument is returned when an operation input is malformed
type ErrInvalidArgument struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidArgument(field, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeInternal, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph statement or transaction fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeInternal, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled or its deadline passes
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typed interface {
	ErrType() ErrorType
}

// TypeOf returns the category of err, looking through wrapped errors.
// Errors that carry no category are internal.
func TypeOf(err error) ErrorType {
	var t typed
	if stderrors.As(err, &t) {
		return t.ErrType()
	}
	return ErrorTypeInternal
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == errType
}

func IsNotFound(err error) bool   { return IsErrorType(err, ErrorTypeNotFound) }
func IsConflict(err error) bool   { return IsErrorType(err, ErrorTypeConflict) }
func IsValidation(err error) bool { return IsErrorType(err, ErrorTypeValidation) }

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Graph connection and query errors are retryable; everything the caller caused is not
	return IsErrorType(err, ErrorTypeInternal)
}
