package dispatch

import (
	"context"
	"net/http"
)

// ErrorKey identifies the type of a TypedError. Keys are opaque strings
// compared by equality during catcher selection; conventionally they are
// namespaced like "store.not-found". The empty key means "no type".
type ErrorKey string

// NoErrorKey registers a catcher without an error-type filter. Such a
// catcher matches any typed error as well as the untyped case.
const NoErrorKey ErrorKey = ""

// TypedError attaches a matchable type identity to an error value
// produced by a guard or handler. A nil *TypedError on an outcome is the
// untyped case and is distinct from a TypedError with an empty key.
type TypedError struct {
	Key ErrorKey
	Err error
}

// Keyed is implemented by error values that carry their own ErrorKey.
// FromResult uses it to tag failures without reflection.
type Keyed interface {
	error
	ErrorKey() ErrorKey
}

// Tagged wraps err in a TypedError with the given key.
func Tagged(key ErrorKey, err error) *TypedError {
	return &TypedError{Key: key, Err: err}
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeForward
	outcomeFailure
)

// Outcome is the result of running a guard or a handler against a
// request. It is a tagged union of three variants:
//
//   - Success: a response was produced; dispatching stops.
//   - Forward: this route declines the request; the dispatcher tries the
//     next candidate route and falls back to catching when none remain.
//   - Failure: this route positively asserts an error; no further
//     candidates are tried and catching begins immediately.
//
// The Forward/Failure distinction is load-bearing: only Forward permits
// further route attempts.
type Outcome struct {
	kind     outcomeKind
	response *Response
	status   Status
	err      *TypedError
}

// Success returns an outcome carrying the final response.
func Success(resp *Response) Outcome {
	return Outcome{kind: outcomeSuccess, response: resp}
}

// Forward returns an outcome that declines the request with the given
// status and optional typed error. A nil err is the untyped case.
func Forward(status Status, err *TypedError) Outcome {
	return Outcome{kind: outcomeForward, status: status, err: err}
}

// Failure returns an outcome that asserts an error with the given status
// and optional typed error. A nil err is the untyped case.
func Failure(status Status, err *TypedError) Outcome {
	return Outcome{kind: outcomeFailure, status: status, err: err}
}

// IsSuccess reports whether the outcome carries a response.
func (o Outcome) IsSuccess() bool { return o.kind == outcomeSuccess }

// IsForward reports whether the outcome declines the request.
func (o Outcome) IsForward() bool { return o.kind == outcomeForward }

// IsFailure reports whether the outcome asserts an error.
func (o Outcome) IsFailure() bool { return o.kind == outcomeFailure }

// Response returns the response for Success outcomes and nil otherwise.
func (o Outcome) Response() *Response { return o.response }

// Status returns the status for Forward and Failure outcomes and 0 for
// Success (the response's own status is authoritative there).
func (o Outcome) Status() Status { return o.status }

// Error returns the typed error for Forward and Failure outcomes, which
// may be nil (the untyped case).
func (o Outcome) Error() *TypedError { return o.err }

// Handler produces an Outcome for a request once its route's guards have
// all succeeded.
type Handler interface {
	Handle(ctx context.Context, r *http.Request) Outcome
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, r *http.Request) Outcome

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, r *http.Request) Outcome {
	return f(ctx, r)
}

// Guard is a precondition checked before a route's handler runs. Guards
// run in declared order; the first guard that does not succeed becomes
// the route's outcome without running further guards or the handler.
// A guard Forward advances the dispatcher to the next candidate route;
// a guard Failure stops candidate iteration.
type Guard interface {
	Check(ctx context.Context, r *http.Request) Outcome
}

// GuardFunc adapts a function to the Guard interface.
type GuardFunc func(ctx context.Context, r *http.Request) Outcome

// Check implements Guard.
func (f GuardFunc) Check(ctx context.Context, r *http.Request) Outcome {
	return f(ctx, r)
}

// Pass is the success outcome for guards, which carry no response.
func Pass() Outcome {
	return Outcome{kind: outcomeSuccess}
}
