// Package dispatch implements the request-dispatch and error-catching
// core of a web service: it matches incoming HTTP requests against a
// ranked route table, interprets guard and handler results as outcomes,
// and resolves unhandled requests to error catchers with a deterministic
// fallback chain.
//
// The package implements semantics based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 9112 (HTTP/1.1)
//   - RFC 3986 (URIs)
//
// # Build and serve phases
//
// An App is populated at build time and sealed before serving. Sealing
// is the point of no return: registration conflicts surface there as
// fatal errors, and after Seal both the route table and the catcher
// registry are immutable and safe for concurrent reads without locking.
//
//	app := dispatch.New()
//	app.HandleFunc("/items/<id>", getItem).Methods(http.MethodGet)
//	if err := app.Seal(); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", app)
//
// # Patterns and ranks
//
// Route patterns use "<name>" (or "{name}") for dynamic segments and a
// final "<name..>" for the rest of the path. A query part declares
// required query parameters:
//
//	/items/<id>
//	/files/<path..>
//	/search?q=<query>&exact
//
// Candidate routes are tried in rank order, lowest first, with
// registration order as the tie-break. By default more static patterns
// get lower ranks; Rank overrides the derived value. Two routes with an
// identical (method, pattern, rank) triple are rejected when sealing.
//
// Path variables are extracted into the request context:
//
//	id, ok := dispatch.VarGet(r, "id")
//
// # Outcomes
//
// Guards and handlers produce an Outcome: Success carries the final
// response, Forward declines the request so the next candidate route is
// tried, and Failure stops route iteration and goes straight to
// catching. Handlers typically build outcomes through the Responder
// helpers:
//
//	func getItem(ctx context.Context, r *http.Request) dispatch.Outcome {
//	    id, _ := dispatch.VarGet(r, "id")
//	    item, err := store.Get(ctx, id)
//	    if err != nil {
//	        return dispatch.FromResult(r, nil, err)
//	    }
//	    return dispatch.FromOption(r, dispatch.JSON(dispatch.StatusOK, item), item != nil)
//	}
//
// # Catchers
//
// A catcher produces the response for a request no route handled. It is
// selected by status code and, when the outcome carries a typed error,
// by the error's key:
//
//	app.CatchFunc(dispatch.StatusNotFound, dispatch.NoErrorKey, notFoundPage)
//	app.CatchFunc(dispatch.StatusInternalServerError, "store.timeout", storeTimeout)
//	app.CatchFunc(dispatch.AnyStatus, "auth.expired", sessionExpired)
//
// Selection falls back from the exact (status, key) pair to the
// untyped catcher for the status, then to cross-status typed catchers,
// then to built-in per-status defaults, and finally to the generic
// default associated with 500. Dispatch therefore always produces a
// well-formed response; a catcher that itself fails is substituted with
// a minimal hardcoded response, never caught again.
package dispatch
