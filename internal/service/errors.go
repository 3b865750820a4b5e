package service

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorCode identifies a business failure for the boundary layer
type ErrorCode string

const (
	CodeShopNotReady          ErrorCode = "shop_not_ready"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeNotFound              ErrorCode = "not_found"
	CodeInvalidState          ErrorCode = "invalid_state"
	CodeInvalidQuantity       ErrorCode = "invalid_quantity"
	CodeInsufficientStock     ErrorCode = "insufficient_stock"
	CodeInventoryNotAvailable ErrorCode = "inventory_not_available"
	CodeAlreadyPaid           ErrorCode = "already_paid"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeInvalidAmount         ErrorCode = "invalid_amount"
	CodeUnexpected            ErrorCode = "unexpected_error"
)

// Error is the structured failure every core operation resolves to: a machine
// code, one or more human-readable messages and an HTTP-like status class for
// the boundary layer to translate. Nothing escapes a core operation as an
// unhandled fault.
type Error struct {
	Code       ErrorCode `json:"error_code"`
	Messages   []string  `json:"errors"`
	HTTPStatus int       `json:"-"`
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// IsServerError reports whether the failure is a server-class fault rather
// than something the caller can correct
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= http.StatusInternalServerError
}

// NewError builds a failure with the default status for its code
func NewError(code ErrorCode, messages ...string) *Error {
	return &Error{Code: code, Messages: messages, HTTPStatus: statusFor(code)}
}

// Unexpected wraps any non-business error as a server-class failure
func Unexpected(message string) *Error {
	return &Error{
		Code:       CodeUnexpected,
		Messages:   []string{message},
		HTTPStatus: http.StatusInternalServerError,
	}
}

// AsError extracts a structured failure from an error chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func statusFor(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
