package zilliz

import (
	"errors"
	"fmt"
)

// Kind classifies an APIError. The set is exhaustive: every failed call
// maps to exactly one kind, and callers never need to re-interpret HTTP
// statuses or envelope codes themselves.
type Kind string

// Failure kinds.
const (
	// KindTransport covers connection, DNS, TLS and timeout failures.
	// The request may never have reached the upstream.
	KindTransport Kind = "transport"

	// KindHTTP covers non-2xx responses.
	KindHTTP Kind = "http"

	// KindDecode covers 2xx responses whose body is not a valid envelope:
	// the upstream was reachable but sent garbage.
	KindDecode Kind = "decode"

	// KindBusiness covers well-formed envelopes reporting a non-zero code.
	KindBusiness Kind = "business"

	// KindNotFound covers cluster ids that cannot be resolved to a
	// data-plane endpoint.
	KindNotFound Kind = "not_found"
)

// Sentinels for errors.Is matching. Every APIError of a given kind matches
// the corresponding sentinel.
var (
	ErrTransport = errors.New("zilliz: transport failure")
	ErrHTTP      = errors.New("zilliz: http error")
	ErrDecode    = errors.New("zilliz: malformed response")
	ErrBusiness  = errors.New("zilliz: business error")
	ErrNotFound  = errors.New("zilliz: cluster endpoint not found")
)

// APIError is the single error type returned by Client.Execute. Message
// carries the upstream's own text whenever one exists, so callers can relay
// an actionable diagnostic instead of a generic "request failed".
type APIError struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is human-readable. For business failures it is the
	// envelope's message verbatim, never fabricated.
	Message string

	// Code is the raw upstream code: the HTTP status for KindHTTP, the
	// envelope code for KindBusiness, zero otherwise.
	Code int64

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("zilliz: HTTP %d: %s", e.Code, e.Message)
	case KindBusiness:
		return fmt.Sprintf("zilliz: business error %d: %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("zilliz: %s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error { return e.cause }

// Is maps each kind onto its sentinel so errors.Is(err, ErrBusiness) works
// without callers inspecting the struct.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrBusiness:
		return e.Kind == KindBusiness
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func newAPIError(kind Kind, msg string, code int64, cause error) *APIError {
	return &APIError{Kind: kind, Message: msg, Code: code, cause: cause}
}
