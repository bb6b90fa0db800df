// Package domainerrors carries the closed error taxonomy used across the
// storefront. Transport and store errors are normalized into these codes at
// the boundary so business logic never inspects transport-specific shapes.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a failure class.
type Code string

const (
	CodeNoCredential        Code = "no_credential"
	CodeMalformedCredential Code = "malformed_credential"
	CodeCredentialExpired   Code = "credential_expired"
	CodeRenewalFailed       Code = "renewal_failed"
	CodeProfileFetchFailed  Code = "profile_fetch_failed"
	CodeCartEmpty           Code = "cart_empty"
	CodeProfileIncomplete   Code = "profile_incomplete"
	CodeInternal            Code = "internal_error"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeUnavailable  Code = "unavailable"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code and message so tests can compare against New(...).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any *Error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is shorthand for HasCode, kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ToHTTPStatus maps a code to the status used in JSON error responses.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeCartEmpty:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeNoCredential, CodeMalformedCredential, CodeCredentialExpired, CodeRenewalFailed:
		return http.StatusUnauthorized
	case CodeProfileIncomplete:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable, CodeProfileFetchFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
