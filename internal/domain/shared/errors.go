package shared

import (
	"errors"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that sentinel checks survive
// errors that carry a more specific message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by all bounded contexts
const (
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeInvalidState  = "INVALID_STATE"
	CodeIntegrity     = "INTEGRITY"
	CodeUpstream      = "UPSTREAM"
	CodeInvalidURL    = "INVALID_URL"
	CodeTooLarge      = "REQUEST_TOO_LARGE"
	CodeRateLimited   = "RATE_LIMITED"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput  = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized  = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden     = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrIntegrity     = NewDomainError(CodeIntegrity, "Data integrity violation")
	ErrUpstream      = NewDomainError(CodeUpstream, "Upstream resource unavailable")
	ErrInvalidURL    = NewDomainError(CodeInvalidURL, "Введите правильный URL.")

	// ErrMissingArguments is returned when required request arguments are absent
	ErrMissingArguments = NewDomainError(CodeInvalidInput, "Не указаны все необходимые аргументы")

	ErrRequestTooLarge = NewDomainError(CodeTooLarge, "Размер запроса превышает допустимый.")
	ErrRateLimited     = NewDomainError(CodeRateLimited, "Слишком много запросов. Повторите попытку позже.")
)

// NewIntegrityError wraps a storage constraint violation, keeping the
// driver message for the caller.
func NewIntegrityError(message string) *DomainError {
	return NewDomainError(CodeIntegrity, message)
}

// ValidationError carries field-keyed messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field string, messages ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: messages}}
}

// Add appends a message for a field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return strings.Join(parts, ", ")
}
