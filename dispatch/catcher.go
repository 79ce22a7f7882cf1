package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrRegistrySealed is returned when registering a catcher after Seal.
var ErrRegistrySealed = errors.New("dispatch: catcher registry is sealed")

// ErrDuplicateCatcher is returned when a catcher for the same
// (status, error key) pair is already registered.
var ErrDuplicateCatcher = errors.New("dispatch: duplicate catcher")

// Catcher produces the final response for a request that no route
// handled. It receives the status and optional typed error of the last
// outcome, plus the original request.
type Catcher interface {
	Catch(ctx context.Context, status Status, err *TypedError, r *http.Request) *Response
}

// CatcherFunc adapts a function to the Catcher interface.
type CatcherFunc func(ctx context.Context, status Status, err *TypedError, r *http.Request) *Response

// Catch implements Catcher.
func (f CatcherFunc) Catch(ctx context.Context, status Status, err *TypedError, r *http.Request) *Response {
	return f(ctx, status, err, r)
}

type catcherKey struct {
	status Status
	key    ErrorKey
}

// Registry is the build-time-populated collection of catchers plus the
// built-in defaults. Registration happens before Seal; after Seal the
// registry is immutable and safe for concurrent reads without locking.
type Registry struct {
	catchers map[catcherKey]Catcher
	sealed   bool
}

// NewRegistry returns an empty catcher registry.
func NewRegistry() *Registry {
	return &Registry{
		catchers: make(map[catcherKey]Catcher),
	}
}

// Register adds a catcher for the given status and error key. Use
// AnyStatus to register a cross-status typed catcher and NoErrorKey to
// match any error, including the untyped case. It returns
// ErrRegistrySealed after Seal and ErrDuplicateCatcher when the
// (status, key) pair is taken.
func (g *Registry) Register(status Status, key ErrorKey, c Catcher) error {
	if g.sealed {
		return ErrRegistrySealed
	}
	if status != AnyStatus && !status.Valid() {
		return fmt.Errorf("dispatch: catcher status %d out of range [100, 599]", int(status))
	}
	if c == nil {
		return errors.New("dispatch: catcher must not be nil")
	}

	ck := catcherKey{status: status, key: key}
	if _, dup := g.catchers[ck]; dup {
		return fmt.Errorf("%w: status=%d key=%q", ErrDuplicateCatcher, int(status), string(key))
	}

	g.catchers[ck] = c
	return nil
}

// Seal transitions the registry to its immutable, servable state.
func (g *Registry) Seal() {
	g.sealed = true
}

// Sealed reports whether the registry has been sealed.
func (g *Registry) Sealed() bool {
	return g.sealed
}

// Registered returns the (status, key) pairs of explicitly registered
// catchers. Built-in defaults are not included.
func (g *Registry) Registered() []CatcherInfo {
	infos := make([]CatcherInfo, 0, len(g.catchers))
	for ck := range g.catchers {
		infos = append(infos, CatcherInfo{Status: ck.status, Key: ck.key})
	}
	return infos
}

// CatcherInfo identifies a registered catcher.
type CatcherInfo struct {
	Status Status
	Key    ErrorKey
}

// Resolve selects the catcher for a (status, typed error) pair. The
// fallback chain is evaluated in strict order, first hit wins:
//
//  1. the catcher for the exact (status, error key) pair,
//  2. the catcher for (status, no key), matching any error,
//  3. the cross-status catcher for (AnyStatus, error key),
//  4. the built-in default for the exact status,
//  5. the built-in generic default, associated with 500.
//
// Step 5 always exists, so Resolve never returns nil.
func (g *Registry) Resolve(status Status, err *TypedError) Catcher {
	if err != nil && err.Key != NoErrorKey {
		if c, ok := g.catchers[catcherKey{status: status, key: err.Key}]; ok {
			return c
		}
	}
	if c, ok := g.catchers[catcherKey{status: status, key: NoErrorKey}]; ok {
		return c
	}
	if err != nil && err.Key != NoErrorKey {
		if c, ok := g.catchers[catcherKey{status: AnyStatus, key: err.Key}]; ok {
			return c
		}
	}
	if status.Class() == ClassClientError || status.Class() == ClassServerError {
		if _, known := reasonPhrases[status]; known {
			return defaultCatcher(status)
		}
	}
	return defaultCatcher(StatusInternalServerError)
}

// defaultDescriptions holds the body text of the built-in error pages
// for the most common error statuses. Other statuses get a generic
// description for their class.
var defaultDescriptions = map[Status]string{
	StatusBadRequest:          "The request could not be understood by the server due to malformed syntax.",
	StatusUnauthorized:        "The request requires user authentication.",
	StatusForbidden:           "The server refuses to authorize the request.",
	StatusNotFound:            "The requested resource could not be found.",
	StatusUnprocessableEntity: "The request was well-formed but could not be processed.",
	StatusInternalServerError: "The server encountered an internal error while processing this request.",
	StatusNotImplemented:      "The server does not support the functionality required to fulfill the request.",
	StatusServiceUnavailable:  "The server is currently unable to handle the request.",
}

// describe returns the built-in description for a status code.
func describe(status Status) string {
	if d, ok := defaultDescriptions[status]; ok {
		return d
	}
	if status.Class() == ClassServerError {
		return "The server encountered an error while processing this request."
	}
	return "The request could not be completed."
}

// defaultCatcher returns the built-in catcher for a status code,
// producing a minimal HTML error page.
func defaultCatcher(status Status) Catcher {
	return CatcherFunc(func(_ context.Context, _ Status, _ *TypedError, _ *http.Request) *Response {
		body := fmt.Sprintf(
			"<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body>\n<h1>%d: %s</h1>\n<p>%s</p>\n</body>\n</html>\n",
			status, int(status), status.Reason(), describe(status),
		)
		return HTML(status, body)
	})
}

// fallbackResponse is the minimal hardcoded response substituted when a
// selected catcher fails to produce a response. It never goes through
// catching again.
func fallbackResponse(status Status) *Response {
	if !status.Valid() {
		status = StatusInternalServerError
	}
	return Text(status, status.String())
}
