// Package inspect renders a sealed dispatch.App as a YAML document:
// the route table in candidate order and the registered catchers.
//
// The document is meant for diagnostics and route review, answering
// "what will this server actually try, and in which order" without
// reading registration code:
//
//	doc := inspect.Describe(app)
//	out, err := doc.YAML()
//
// Handler serves the same document over HTTP:
//
//	mux := http.NewServeMux()
//	mux.Handle("/debug/routes", inspect.Handler(app))
//	mux.Handle("/", app)
package inspect
