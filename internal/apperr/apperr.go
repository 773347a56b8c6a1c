// Package apperr maps service failures onto the HTTP error taxonomy:
// bad input, missing configuration and upstream failure.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeNotFound      Code = "NOT_FOUND"
	CodeNotConfigured Code = "NOT_CONFIGURED"
	CodeUpstream      Code = "UPSTREAM_ERROR"
	CodeInternal      Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus    int
	PublicMessage string
	// ShowMessage allows the error's own message to reach the client.
	ShowMessage bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "invalid request", ShowMessage: true},
	CodeUnauthorized:  {HTTPStatus: http.StatusUnauthorized, PublicMessage: "not authorized", ShowMessage: true},
	CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "not found", ShowMessage: true},
	CodeNotConfigured: {HTTPStatus: http.StatusNotImplemented, PublicMessage: "not configured", ShowMessage: true},
	CodeUpstream:      {HTTPStatus: http.StatusBadGateway, PublicMessage: "upstream error"},
	CodeInternal:      {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error"},
}

func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded failure. Reason is a short machine-readable tag
// (for example "out_of_stock") returned alongside the message.
type Error struct {
	code    Code
	reason  string
	message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// WithReason returns a copy tagged with reason.
func (e *Error) WithReason(reason string) *Error {
	cp := *e
	cp.reason = reason
	return &cp
}

func (e *Error) Code() Code      { return e.code }
func (e *Error) Reason() string  { return e.reason }
func (e *Error) Message() string { return e.message }

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on code and reason so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code && e.reason == t.reason
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Public returns the status, message and reason safe to send to a client.
// Errors without a code are treated as internal.
func Public(err error) (status int, message, reason string) {
	e := As(err)
	if e == nil {
		m := MetadataFor(CodeInternal)
		return m.HTTPStatus, m.PublicMessage, ""
	}
	m := MetadataFor(e.code)
	message = m.PublicMessage
	if m.ShowMessage && e.message != "" {
		message = e.message
	}
	return m.HTTPStatus, message, e.reason
}
