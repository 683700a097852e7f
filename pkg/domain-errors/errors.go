// Package domainerrors provides coded errors for business-rule failures.
// Stores return sentinel errors for infrastructure facts (pkg/platform/sentinel);
// services translate those into coded errors here, and the HTTP layer maps
// codes onto statuses without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and branching.
type Code string

const (
	CodeValidation         Code = "validation_failed"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"

	// Sign-in and identity outcomes. All recoverable: the caller re-prompts
	// rather than failing the page.
	CodeDomainRejected     Code = "domain_rejected"
	CodeFormatUnrecognized Code = "format_unrecognized"
	CodePopupClosed        Code = "popup_closed"
	CodeProviderError      Code = "provider_error"

	// CodeInvalidUser marks a malformed user object handed to the session
	// store. Programmer error, surfaced loudly.
	CodeInvalidUser Code = "invalid_user"

	// CodeAuthRequired gates commerce actions attempted from an anonymous
	// session; the UI responds by surfacing the auth prompt.
	CodeAuthRequired Code = "auth_required"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err carries a domain error anywhere in its chain.
func Is(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest, CodeInvalidUser:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeAuthRequired:
		return http.StatusUnauthorized
	case CodeDomainRejected, CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodePopupClosed:
		return http.StatusBadRequest
	case CodeProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
