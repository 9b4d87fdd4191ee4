package commonerrors

import (
	"errors"
	"fmt"
)

type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "VALIDATION"
	CategoryAuth       ErrorCategory = "AUTH"
	CategoryNotFound   ErrorCategory = "NOT_FOUND"
	CategoryConflict   ErrorCategory = "CONFLICT"
	CategoryInternal   ErrorCategory = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		message:  e.message,
		cause:    cause,
	}
}

func NewDomainError(code string, category ErrorCategory, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		"missing required environment variable",
	)

	ErrLoginAlreadyExists = NewDomainError(
		"LOGIN_ALREADY_EXISTS",
		CategoryConflict,
		"login already exists",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		"user not found",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryAuth,
		"invalid login or password",
	)

	ErrUserNotConnected = NewDomainError(
		"USER_NOT_CONNECTED",
		CategoryNotFound,
		"user not connected",
	)

	ErrSessionClosed = NewDomainError(
		"SESSION_CLOSED",
		CategoryInternal,
		"session closed",
	)

	ErrValidationLoginLength = NewDomainError(
		"VALIDATION_LOGIN_LENGTH",
		CategoryValidation,
		"login length is out of bounds",
	)

	ErrValidationLoginChars = NewDomainError(
		"VALIDATION_LOGIN_CHARS",
		CategoryValidation,
		"login contains invalid characters",
	)

	ErrValidationPasswordLength = NewDomainError(
		"VALIDATION_PASSWORD_LENGTH",
		CategoryValidation,
		"password length is out of bounds",
	)
)
