package dispatch

import "net/http"

// Responder is implemented by values that a handler can return through
// the normalization helpers. A Responder may produce a final response,
// decline the request (forward), or assert an error.
type Responder interface {
	RespondTo(r *http.Request) Outcome
}

// RespondTo implements Responder. A response responds with itself.
func (resp *Response) RespondTo(*http.Request) Outcome {
	if resp == nil {
		return Forward(StatusNotFound, nil)
	}
	return Success(resp)
}

// RespondTo implements Responder. The produced outcome depends on the
// status code:
//
//   - [400, 599]: forwards to the catcher for that status.
//   - 100 and [200, 205]: an empty response with that status.
//   - anything else: invalid; forwards to the 500 catcher.
func (s Status) RespondTo(*http.Request) Outcome {
	switch {
	case s.Class() == ClassClientError || s.Class() == ClassServerError:
		return Forward(s, nil)
	case s.Class() == ClassSuccess && s < 206, s == StatusContinue:
		return Success(NewResponse(s))
	default:
		return Forward(StatusInternalServerError, nil)
	}
}

// Respond normalizes a Responder value into an Outcome. A nil value is
// treated as an absent result and forwards with 404 Not Found.
func Respond(r *http.Request, v Responder) Outcome {
	if v == nil {
		return Forward(StatusNotFound, nil)
	}
	return v.RespondTo(r)
}

// FromResult normalizes a (value, error) pair:
//
//   - A nil error responds with v.
//   - An error that itself implements Responder responds through that
//     capability (its own status applies, 500 by default).
//   - An error implementing Keyed becomes a Failure(500) carrying a
//     typed error with the error's key.
//   - Any other error becomes a Failure(500) carrying an untagged
//     typed error, which matches only no-filter and default catchers.
func FromResult(r *http.Request, v Responder, err error) Outcome {
	if err == nil {
		return Respond(r, v)
	}
	if responder, ok := err.(Responder); ok {
		return responder.RespondTo(r)
	}
	if keyed, ok := err.(Keyed); ok {
		return Failure(StatusInternalServerError, Tagged(keyed.ErrorKey(), keyed))
	}
	return Failure(StatusInternalServerError, Tagged(NoErrorKey, err))
}

// FromOption normalizes an optional value: when present it responds with
// v, otherwise it forwards with 404 Not Found.
func FromOption(r *http.Request, v Responder, present bool) Outcome {
	if !present {
		return Forward(StatusNotFound, nil)
	}
	return Respond(r, v)
}

// Error returns the outcome of manually forwarding with the given
// status. It mirrors returning the bare status from a handler and never
// carries a typed error.
func Error(status Status) Outcome {
	return Forward(status, nil)
}
