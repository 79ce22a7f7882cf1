package guards

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/skyway/dispatch"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither
// ValidateFunc nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// KeyUnauthorized is the error key attached to forwards produced by the
// BasicAuth guard. Register UnauthorizedCatcher for it to emit the
// WWW-Authenticate challenge.
const KeyUnauthorized dispatch.ErrorKey = "guards.unauthorized"

// ChallengeError is the typed-error payload of a BasicAuth forward. It
// carries the challenge to send in the WWW-Authenticate header per
// RFC 7617 Section 2.
type ChallengeError struct {
	Challenge string
}

// Error implements error.
func (e ChallengeError) Error() string {
	return "basic auth: missing or invalid credentials"
}

// BasicAuthConfig configures the BasicAuth guard behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate
	// header. Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuth returns a guard that implements HTTP Basic Authentication
// per RFC 7617. When credentials are missing or invalid it forwards
// with 401 Unauthorized and a ChallengeError tagged KeyUnauthorized, so
// other candidate routes may still serve the request before catching.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are
// nil/empty.
func BasicAuth(cfg BasicAuthConfig) (dispatch.Guard, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	challenge := fmt.Sprintf("Basic realm=%q", realm)
	unauthorized := dispatch.Forward(dispatch.StatusUnauthorized,
		dispatch.Tagged(KeyUnauthorized, ChallengeError{Challenge: challenge}))

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return dispatch.GuardFunc(func(_ context.Context, r *http.Request) dispatch.Outcome {
		username, password, ok := r.BasicAuth()
		if !ok {
			return unauthorized
		}

		if validate != nil {
			if !validate(username, password) {
				return unauthorized
			}
		} else {
			expectedPassword, exists := credentials[username]
			// Always perform the password comparison to prevent timing
			// leaks that reveal whether a username exists in the map.
			passwordMatch := constantTimeEqual(password, expectedPassword)
			if !exists || !passwordMatch {
				return unauthorized
			}
		}

		return dispatch.Pass()
	}), nil
}

// UnauthorizedCatcher returns a catcher for (401, KeyUnauthorized) that
// writes the WWW-Authenticate challenge carried by the guard's typed
// error and an empty body.
func UnauthorizedCatcher() dispatch.Catcher {
	return dispatch.CatcherFunc(func(_ context.Context, status dispatch.Status, terr *dispatch.TypedError, _ *http.Request) *dispatch.Response {
		resp := dispatch.NewResponse(status)
		if terr != nil {
			if challenge, ok := terr.Err.(ChallengeError); ok {
				resp.Header().Set("WWW-Authenticate", challenge.Challenge)
			}
		}
		return resp
	})
}

// constantTimeEqual compares two strings in constant time by first
// hashing them with SHA-256. This prevents both value leaks and
// length-based timing leaks that raw ConstantTimeCompare would allow on
// different-length inputs.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}
