package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrTemplateInactive    = errors.New("template is inactive")
	ErrTemplateInUse       = errors.New("template has issued contracts")
	ErrAlreadySigned       = errors.New("contract already signed")
	ErrAlreadyTerminal     = errors.New("contract is in a terminal state")
	ErrStateConflict       = errors.New("contract status changed concurrently")
	ErrCannotDeleteActive  = errors.New("contract is active and cannot be deleted")
	ErrIdentifierCollision = errors.New("generated identifier already exists")
	ErrSKUImmutable        = errors.New("sku cannot change once contracts reference the template")
)

// ValidationReason identifies the kind of variable schema violation
type ValidationReason string

const (
	ReasonMissingRequired ValidationReason = "missing_required_variable"
	ReasonUnknownVariable ValidationReason = "unknown_variable"
	ReasonTypeMismatch    ValidationReason = "type_mismatch"
)

// ValidationError reports a variable map that violates a template schema.
// It carries the offending key and, for type mismatches, the expected and
// actual types so callers can correct the input.
type ValidationError struct {
	Reason   ValidationReason `json:"reason"`
	Key      string           `json:"key"`
	Expected string           `json:"expected,omitempty"`
	Actual   string           `json:"actual,omitempty"`
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingRequired:
		return fmt.Sprintf("missing required variable %q", e.Key)
	case ReasonUnknownVariable:
		return fmt.Sprintf("unknown variable %q", e.Key)
	default:
		return fmt.Sprintf("variable %q: expected %s, got %s", e.Key, e.Expected, e.Actual)
	}
}

// MissingRequiredVariable builds a ValidationError for an absent required key
func MissingRequiredVariable(key string) *ValidationError {
	return &ValidationError{Reason: ReasonMissingRequired, Key: key}
}

// UnknownVariable builds a ValidationError for a key not declared in the schema
func UnknownVariable(key string) *ValidationError {
	return &ValidationError{Reason: ReasonUnknownVariable, Key: key}
}

// TypeMismatch builds a ValidationError for a value that does not coerce
// to its declared type
func TypeMismatch(key, expected, actual string) *ValidationError {
	return &ValidationError{Reason: ReasonTypeMismatch, Key: key, Expected: expected, Actual: actual}
}

// RenderError reports a body placeholder with no value. Unreachable when the
// validator ran against an internally consistent schema; kept as an integrity
// check rather than a user-facing failure.
type RenderError struct {
	Key string `json:"key"`
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("unresolved placeholder %q", e.Key)
}

// UnresolvedPlaceholder builds a RenderError for key
func UnresolvedPlaceholder(key string) *RenderError {
	return &RenderError{Key: key}
}

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}
