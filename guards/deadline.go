package guards

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vitalvas/skyway/dispatch"
)

// ErrInvalidDeadline is returned when DeadlineConfig.MinRemaining is not
// greater than zero.
var ErrInvalidDeadline = errors.New("deadline: minimum remaining time must be greater than zero")

// DeadlineConfig configures the Deadline guard behaviour.
type DeadlineConfig struct {
	// MinRemaining is the minimum time that must remain before the
	// request context's deadline for the route to run. Must be greater
	// than zero.
	MinRemaining time.Duration
}

// Deadline returns a guard that refuses work the route cannot finish in
// time. A request whose context is already done, or whose deadline
// leaves less than MinRemaining, fails with 503 Service Unavailable so
// no further candidate routes are tried. Requests without a deadline
// always pass.
//
// It returns ErrInvalidDeadline if MinRemaining is not greater than
// zero.
func Deadline(cfg DeadlineConfig) (dispatch.Guard, error) {
	if cfg.MinRemaining <= 0 {
		return nil, ErrInvalidDeadline
	}

	minRemaining := cfg.MinRemaining

	return dispatch.GuardFunc(func(ctx context.Context, _ *http.Request) dispatch.Outcome {
		if ctx.Err() != nil {
			return dispatch.Failure(dispatch.StatusServiceUnavailable, nil)
		}

		if deadline, ok := ctx.Deadline(); ok {
			if time.Until(deadline) < minRemaining {
				return dispatch.Failure(dispatch.StatusServiceUnavailable, nil)
			}
		}

		return dispatch.Pass()
	}), nil
}
