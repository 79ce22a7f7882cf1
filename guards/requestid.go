package guards

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vitalvas/skyway/dispatch"
)

// RequestIDFrom returns the request ID set by the RequestID guard,
// read from the request header it propagates through. Returns an empty
// string if no ID is present.
func RequestIDFrom(r *http.Request, headerName string) string {
	if headerName == "" {
		headerName = "X-Request-ID"
	}
	return r.Header.Get(headerName)
}

// RequestIDConfig configures the RequestID guard behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// It receives the current request, allowing ID generation based on
	// request context. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestID returns a guard that generates or propagates a request ID.
// It always succeeds. The ID is set on the request header, where
// handlers and catchers downstream can read it via RequestIDFrom and
// echo it on responses.
func RequestID(cfg RequestIDConfig) dispatch.Guard {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	trustIncoming := cfg.TrustIncoming

	return dispatch.GuardFunc(func(_ context.Context, r *http.Request) dispatch.Outcome {
		id := ""
		if trustIncoming {
			id = r.Header.Get(headerName)
		}

		if id == "" {
			id = generate(r)
		}

		if id != "" {
			r.Header.Set(headerName, id)
		}

		return dispatch.Pass()
	})
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
