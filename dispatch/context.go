package dispatch

import (
	"context"
	"net/http"
)

type routeContextKey struct{}

// ctxKey is the only context key this package installs; the matched
// route and its variables travel together under it.
var ctxKey = routeContextKey{}

type routeContext struct {
	route *Route
	vars  map[string]string
}

// Vars returns the path variables extracted while matching the current
// request, nil when no route has matched.
func Vars(r *http.Request) map[string]string {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.vars
	}
	return nil
}

// VarGet looks up a single path variable by name, reporting whether it
// was declared by the matched pattern.
func VarGet(r *http.Request, name string) (string, bool) {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok && rc.vars != nil {
		val, exists := rc.vars[name]
		return val, exists
	}
	return "", false
}

// CurrentRoute returns the route that matched the request. Dispatch
// installs it before guards run, so it is available to guards, handlers,
// and catchers, and nil everywhere else.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// SetVars returns a request carrying the given path variables, keeping
// any route already attached. Meant for exercising guards and handlers
// directly in tests, without going through Dispatch.
func SetVars(r *http.Request, vars map[string]string) *http.Request {
	var route *Route
	if rc, ok := r.Context().Value(ctxKey).(*routeContext); ok {
		route = rc.route
	}
	return setRouteContext(r, route, vars)
}

// setRouteContext attaches the matched route and its variables to the
// request. Variable-free routes share a single cached routeContext.
func setRouteContext(r *http.Request, route *Route, vars map[string]string) *http.Request {
	var rc *routeContext
	if route != nil && vars == nil {
		route.staticCtxOnce.Do(func() {
			route.staticCtx = &routeContext{route: route}
		})
		rc = route.staticCtx
	} else {
		rc = &routeContext{route: route, vars: vars}
	}
	ctx := context.WithValue(r.Context(), ctxKey, rc)
	return r.WithContext(ctx)
}
