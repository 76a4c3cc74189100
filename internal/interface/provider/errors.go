package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures into the shared taxonomy. The
// orchestrator keys its degradation behavior off the kind, never off
// provider-specific error details.
type ErrorKind int

const (
	// KindMissingCredential means required auth is absent. A configuration
	// problem, never retried; the provider is sidelined for its lifetime.
	KindMissingCredential ErrorKind = iota
	// KindInvalidRequest means the query could not be formed into a valid
	// provider request. Caller error, not retried.
	KindInvalidRequest
	// KindTransportFailure is a connectivity error. Transient; the provider
	// stays active for subsequent calls.
	KindTransportFailure
	// KindUpstreamError is a non-success HTTP response. Transient.
	KindUpstreamError
	// KindMalformedResponse means the body could not be decoded at all, as
	// opposed to individual bad records which are silently dropped.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidRequest:
		return "invalid_request"
	case KindTransportFailure:
		return "transport_failure"
	case KindUpstreamError:
		return "upstream_error"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is the typed failure every adapter returns.
type Error struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int // set for KindUpstreamError
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the error kind from a provider failure.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

func missingCredential(provider, hint string) *Error {
	return &Error{Provider: provider, Kind: KindMissingCredential, Message: hint}
}

func invalidRequest(provider, msg string) *Error {
	return &Error{Provider: provider, Kind: KindInvalidRequest, Message: msg}
}

func transportFailure(provider string, cause error) *Error {
	return &Error{Provider: provider, Kind: KindTransportFailure, Message: "request failed", Cause: cause}
}

func upstreamError(provider string, status int) *Error {
	return &Error{Provider: provider, Kind: KindUpstreamError, StatusCode: status, Message: fmt.Sprintf("HTTP %d", status)}
}

func malformedResponse(provider string, cause error) *Error {
	return &Error{Provider: provider, Kind: KindMalformedResponse, Message: "decoding response", Cause: cause}
}
