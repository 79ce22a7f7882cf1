package dispatch

import (
	"context"
	"net/http"
	"path"
)

// App ties a route table and a catcher registry into the serve-time
// entry point. Build it, register routes and catchers, Seal it, then
// serve: App implements http.Handler.
//
//	app := dispatch.New()
//	app.HandleFunc("/items/<id>", getItem).Methods(http.MethodGet)
//	app.Catch(dispatch.StatusNotFound, dispatch.NoErrorKey, notFound)
//	if err := app.Seal(); err != nil {
//	    // build-time conflict: fatal, do not serve
//	}
//	http.ListenAndServe(":8080", app)
type App struct {
	// ErrorLog is an optional callback invoked when a selected catcher
	// fails to produce a response (returns nil or panics). When nil, no
	// logging is performed. The failure is absorbed either way: the
	// client receives a minimal response for the status.
	ErrorLog func(r *http.Request, status Status, v any)

	table    *Table
	catchers *Registry
}

// New returns an app with an empty route table and catcher registry.
func New() *App {
	return &App{
		table:    NewTable(),
		catchers: NewRegistry(),
	}
}

// Table returns the app's route table.
func (a *App) Table() *Table {
	return a.table
}

// Catchers returns the app's catcher registry.
func (a *App) Catchers() *Registry {
	return a.catchers
}

// NewRoute creates an empty route for configuration.
func (a *App) NewRoute() *Route {
	return a.table.NewRoute()
}

// Handle registers a new route with the given pattern and handler.
func (a *App) Handle(pattern string, h Handler) *Route {
	return a.NewRoute().Path(pattern).Handler(h)
}

// HandleFunc registers a new route with the given pattern and handler
// function.
func (a *App) HandleFunc(pattern string, f func(ctx context.Context, r *http.Request) Outcome) *Route {
	return a.NewRoute().Path(pattern).HandlerFunc(f)
}

// Catch registers a catcher for the given status and error key.
func (a *App) Catch(status Status, key ErrorKey, c Catcher) error {
	return a.catchers.Register(status, key, c)
}

// CatchFunc registers a catcher function for the given status and
// error key.
func (a *App) CatchFunc(status Status, key ErrorKey, f func(ctx context.Context, status Status, err *TypedError, r *http.Request) *Response) error {
	return a.catchers.Register(status, key, CatcherFunc(f))
}

// Seal transitions the app to its immutable, servable state. Any route
// configuration error or registration conflict is returned here and
// must be treated as fatal: an unsealed app does not dispatch.
func (a *App) Seal() error {
	if err := a.table.Seal(); err != nil {
		return err
	}
	a.catchers.Seal()
	return nil
}

// Dispatch resolves a request to a response. It is the single call the
// transport layer makes per request and always returns a response:
// serve-time errors from guards and handlers are outcomes routed into
// catching, never surfaced to the caller.
func (a *App) Dispatch(ctx context.Context, r *http.Request) *Response {
	if !a.table.Sealed() || !a.catchers.Sealed() {
		if a.ErrorLog != nil {
			a.ErrorLog(r, StatusInternalServerError, "dispatch on unsealed app")
		}
		return fallbackResponse(StatusInternalServerError)
	}

	outcome := a.resolve(ctx, r)
	if outcome.IsSuccess() {
		if resp := outcome.Response(); resp != nil {
			return resp
		}
		// A success without a response cannot be written out; treat it
		// as an internal error.
		return a.catch(ctx, StatusInternalServerError, nil, r)
	}

	return a.catch(ctx, outcome.Status(), outcome.Error(), r)
}

// resolve walks the candidate routes in order, running guards and
// handler for each. A Forward advances to the next candidate; a Success
// or Failure stops immediately. When candidates are exhausted, the last
// non-success outcome is returned; with no matching candidates at all,
// the result is Forward(404).
func (a *App) resolve(ctx context.Context, r *http.Request) Outcome {
	last := Forward(StatusNotFound, nil)

	for _, route := range a.table.Routes() {
		// Client disconnect is observed between steps; a response for a
		// canceled request is never written anywhere.
		if ctx.Err() != nil {
			return Failure(StatusServiceUnavailable, nil)
		}

		vars, ok := route.match(r)
		if !ok {
			continue
		}

		outcome := runRoute(ctx, route, setRouteContext(r, route, vars))
		if outcome.IsForward() {
			last = outcome
			continue
		}
		return outcome
	}

	return last
}

// runRoute executes a route's guards in declared order, then its
// handler. The first non-success guard outcome is the route's outcome;
// further guards and the handler do not run.
func runRoute(ctx context.Context, route *Route, r *http.Request) Outcome {
	for _, guard := range route.guards {
		if ctx.Err() != nil {
			return Failure(StatusServiceUnavailable, nil)
		}
		if outcome := guard.Check(ctx, r); !outcome.IsSuccess() {
			return outcome
		}
	}

	if ctx.Err() != nil {
		return Failure(StatusServiceUnavailable, nil)
	}

	if route.handler == nil {
		return Forward(StatusNotFound, nil)
	}
	return route.handler.Handle(ctx, r)
}

// catch selects and invokes the best-matching catcher. A catcher that
// fails (nil response or panic) is not caught again: a minimal
// hardcoded response for the status is substituted and the failure is
// reported through ErrorLog.
func (a *App) catch(ctx context.Context, status Status, err *TypedError, r *http.Request) *Response {
	catcher := a.catchers.Resolve(status, err)

	var recovered any
	resp := func() (resp *Response) {
		defer func() {
			if v := recover(); v != nil {
				recovered = v
				resp = nil
			}
		}()
		return catcher.Catch(ctx, status, err, r)
	}()

	if resp == nil {
		if a.ErrorLog != nil {
			a.ErrorLog(r, status, recovered)
		}
		return fallbackResponse(status)
	}
	return resp
}

// ServeHTTP dispatches the request and writes the resulting response.
// The request path is normalized per RFC 3986 Section 5.2.4 (removing
// dot segments) before matching.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cleaned := cleanPath(r.URL.Path); cleaned != r.URL.Path {
		u := *r.URL
		u.Path = cleaned
		u.RawPath = ""
		r = r.Clone(r.Context())
		r.URL = &u
	}

	a.Dispatch(r.Context(), r).Write(w)
}

// cleanPath returns the canonical path for p, eliminating . and ..
// elements per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}
