// ABOUTME: Error hierarchy for compute service fetches plus the user-facing message classifier.
// ABOUTME: HTTP, network, decode, and invalid-response errors all embed FetchError.
package compute

import (
	"errors"
	"fmt"
	"strings"
)

// FetchError is the base error type for a failed fetch.
// All other error types in this package embed FetchError.
type FetchError struct {
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// HTTPError is a non-2xx response. Message is the service's error text, or
// "HTTP error! status: N" when the body carried none.
type HTTPError struct {
	FetchError
	StatusCode int
}

func (e *HTTPError) Error() string { return e.FetchError.Error() }
func (e *HTTPError) Unwrap() error { return e.FetchError.Unwrap() }

// As enables errors.As to match FetchError from an HTTPError.
func (e *HTTPError) As(target any) bool {
	switch t := target.(type) {
	case **FetchError:
		*t = &e.FetchError
		return true
	default:
		return false
	}
}

// NetworkError is a transport-level failure (DNS, connection refused, timeout).
type NetworkError struct {
	FetchError
}

func (e *NetworkError) Error() string { return e.FetchError.Error() }
func (e *NetworkError) Unwrap() error { return e.FetchError.Unwrap() }

func (e *NetworkError) As(target any) bool {
	switch t := target.(type) {
	case **FetchError:
		*t = &e.FetchError
		return true
	default:
		return false
	}
}

// DecodeError means a 2xx body was not valid JSON of the expected shape.
type DecodeError struct {
	FetchError
}

func (e *DecodeError) Error() string { return e.FetchError.Error() }
func (e *DecodeError) Unwrap() error { return e.FetchError.Unwrap() }

func (e *DecodeError) As(target any) bool {
	switch t := target.(type) {
	case **FetchError:
		*t = &e.FetchError
		return true
	default:
		return false
	}
}

// InvalidResponseError means the body decoded but its grids or shape are inconsistent.
type InvalidResponseError struct {
	FetchError
}

func (e *InvalidResponseError) Error() string { return e.FetchError.Error() }
func (e *InvalidResponseError) Unwrap() error { return e.FetchError.Unwrap() }

func (e *InvalidResponseError) As(target any) bool {
	switch t := target.(type) {
	case **FetchError:
		*t = &e.FetchError
		return true
	default:
		return false
	}
}

// newHTTPError builds an HTTPError from a status code and the body's error text.
func newHTTPError(status int, serviceMessage string) *HTTPError {
	msg := strings.TrimSpace(serviceMessage)
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &HTTPError{FetchError: FetchError{Message: msg}, StatusCode: status}
}

// Kind is the category a failure is reported under.
type Kind string

const (
	KindUnsupportedFunction Kind = "unsupported_function"
	KindDivisionByZero      Kind = "division_by_zero"
	KindMalformedExpression Kind = "malformed_expression"
	KindOther               Kind = "other"
)

// User-facing messages for the recognized evaluation failures.
const (
	MessageUnsupportedFunction = "Function error: Make sure you're using supported functions (sin, cos, tan, log, exp, sqrt, abs)"
	MessageDivisionByZero      = "Function error: Division by zero in your expression"
	MessageMalformedExpression = "Function error: Please use only valid mathematical expressions with z as the variable"
)

// Classification is a failure rewritten for display.
type Classification struct {
	Kind    Kind
	Message string
}

// Classify maps an error to the message shown in place of every panel. The service's
// message is matched by substring; unrecognized messages pass through unchanged.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Kind: KindOther}
	}
	msg := err.Error()
	var fe *FetchError
	if errors.As(err, &fe) && fe.Cause == nil {
		msg = fe.Message
	}
	return ClassifyMessage(msg)
}

// ClassifyMessage applies the substring rules to a raw message.
func ClassifyMessage(msg string) Classification {
	switch {
	case strings.Contains(msg, "not defined"):
		return Classification{Kind: KindUnsupportedFunction, Message: MessageUnsupportedFunction}
	case strings.Contains(msg, "division by zero"):
		return Classification{Kind: KindDivisionByZero, Message: MessageDivisionByZero}
	case strings.Contains(msg, "Invalid function string"):
		return Classification{Kind: KindMalformedExpression, Message: MessageMalformedExpression}
	default:
		return Classification{Kind: KindOther, Message: msg}
	}
}
