package dispatch

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync"
)

// Route stores what is needed to match a request and produce an outcome:
// the methods and pattern to match, the rank deciding candidate order,
// the guards to run, and the handler. Routes are configured through
// chained calls and become immutable once their table is sealed.
type Route struct {
	methods []string
	pattern string
	path    []segment
	query   []queryParam
	format  string
	rank    int
	ranked  bool
	guards  []Guard
	handler Handler
	name    string
	err     error

	// index is the registration order, assigned by the table. It is the
	// final tie-break for candidate ordering.
	index int

	staticCtx     *routeContext
	staticCtxOnce sync.Once
}

// payloadMethods are the methods whose Format matches the Content-Type
// header rather than Accept, per RFC 9110 Section 8.3 (content in
// requests).
var payloadMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// Methods restricts the route to the given HTTP methods. Method tokens
// are case-sensitive per RFC 9110 Section 9.1 and conventionally upper
// case. A route without methods matches any method.
func (r *Route) Methods(methods ...string) *Route {
	for i, m := range methods {
		methods[i] = strings.ToUpper(m)
	}
	r.methods = methods
	return r
}

// Path sets the route pattern. Dynamic segments are written "<name>" or
// "{name}"; a final "<name..>" segment matches the rest of the path. An
// optional query part declares required query parameters:
//
//	/items/<id>
//	/files/<path..>
//	/search?q=<query>&exact
func (r *Route) Path(pattern string) *Route {
	if r.err != nil {
		return r
	}

	segments, query, err := parsePattern(pattern)
	if err != nil {
		r.err = err
		return r
	}

	r.pattern = pattern
	r.path = segments
	r.query = query
	return r
}

// Format restricts the route to a media type. For methods that carry a
// payload (POST, PUT, PATCH, DELETE) the request Content-Type must match;
// for all other methods the Accept header must admit the type.
func (r *Route) Format(mediaType string) *Route {
	if r.err != nil {
		return r
	}

	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		r.err = fmt.Errorf("dispatch: invalid format %q: %w", mediaType, err)
		return r
	}

	r.format = parsed
	return r
}

// Rank overrides the derived default rank. Lower ranks are tried first.
func (r *Route) Rank(rank int) *Route {
	r.rank = rank
	r.ranked = true
	return r
}

// Guard appends guards to the route. Guards run in declared order before
// the handler.
func (r *Route) Guard(guards ...Guard) *Route {
	r.guards = append(r.guards, guards...)
	return r
}

// Handler sets the handler for the route.
func (r *Route) Handler(h Handler) *Route {
	r.handler = h
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(ctx context.Context, r *http.Request) Outcome) *Route {
	return r.Handler(HandlerFunc(f))
}

// Name sets the route name, used for inspection. Returns an error state
// if the name was already set.
func (r *Route) Name(name string) *Route {
	if r.name != "" {
		r.err = fmt.Errorf("dispatch: route already has name %q, can't set %q", r.name, name)
		return r
	}
	r.name = name
	return r
}

// GetName returns the route name, if any.
func (r *Route) GetName() string {
	return r.name
}

// GetMethods returns the methods the route matches. Empty means any.
func (r *Route) GetMethods() []string {
	return r.methods
}

// GetPattern returns the raw route pattern.
func (r *Route) GetPattern() string {
	return r.pattern
}

// GetRank returns the effective rank: the explicit rank when set,
// otherwise the derived default.
func (r *Route) GetRank() int {
	if r.ranked {
		return r.rank
	}
	return defaultRank(r.path, r.query)
}

// GetError returns any error accumulated while configuring the route.
func (r *Route) GetError() error {
	return r.err
}

// matchMethod reports whether the request method is admitted.
func (r *Route) matchMethod(method string) bool {
	if len(r.methods) == 0 {
		return true
	}
	for _, m := range r.methods {
		if m == method {
			return true
		}
	}
	return false
}

// match checks the route against a request and extracts path variables.
// Only segment arity and shape are checked here; value validity belongs
// to guards.
func (r *Route) match(req *http.Request) (map[string]string, bool) {
	if r.err != nil || !r.matchMethod(req.Method) {
		return nil, false
	}

	reqSegments := splitPath(req.URL.Path)

	var vars map[string]string
	setVar := func(name, value string) {
		if vars == nil {
			vars = make(map[string]string)
		}
		vars[name] = value
	}

	for i, seg := range r.path {
		if seg.trailing {
			setVar(seg.value, strings.Join(reqSegments[i:], "/"))
			reqSegments = nil
			break
		}
		if i >= len(reqSegments) {
			return nil, false
		}
		if seg.dynamic {
			if reqSegments[i] == "" {
				return nil, false
			}
			setVar(seg.value, reqSegments[i])
			continue
		}
		if seg.value != reqSegments[i] {
			return nil, false
		}
	}

	if reqSegments != nil && len(reqSegments) != len(r.path) {
		return nil, false
	}

	if len(r.query) > 0 {
		values := req.URL.Query()
		for _, param := range r.query {
			got, present := values[param.key]
			if !present {
				return nil, false
			}
			switch {
			case param.dynamic:
				if len(got) == 0 || got[0] == "" {
					return nil, false
				}
				setVar(param.value, got[0])
			case param.value != "":
				if !matchInArray(got, param.value) {
					return nil, false
				}
			}
		}
	}

	if r.format != "" && !r.matchFormat(req) {
		return nil, false
	}

	return vars, true
}

// matchFormat applies the route's media type against the relevant
// negotiation header per RFC 9110 Section 12.
func (r *Route) matchFormat(req *http.Request) bool {
	if _, payload := payloadMethods[req.Method]; payload {
		ct := req.Header.Get("Content-Type")
		if ct == "" {
			return false
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return false
		}
		return strings.EqualFold(mediaType, r.format)
	}

	accept := req.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return acceptsMediaType(accept, r.format)
}

// acceptsMediaType reports whether an Accept header field admits the
// given media type, honoring "*/*" and "type/*" ranges per
// RFC 9110 Section 12.5.1. Quality values are ignored.
func acceptsMediaType(accept, mediaType string) bool {
	wantType, _, _ := strings.Cut(mediaType, "/")

	for _, part := range strings.Split(accept, ",") {
		rangeSpec, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if rangeSpec == "*/*" || strings.EqualFold(rangeSpec, mediaType) {
			return true
		}
		if gotType, gotSub, ok := strings.Cut(rangeSpec, "/"); ok && gotSub == "*" && strings.EqualFold(gotType, wantType) {
			return true
		}
	}
	return false
}

// matchInArray returns true if the given string value is in the array.
func matchInArray(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}
