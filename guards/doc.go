// Package guards provides stock route guards for the dispatch package,
// plus companion catchers for the typed errors the guards produce.
//
// A guard is a precondition run before a route's handler. Most guards
// in this package forward on unmet preconditions, so other candidate
// routes still get a chance before the request falls back to catching;
// Deadline fails instead, since a request that is out of time is out of
// time on every route.
//
//	auth, err := guards.BasicAuth(guards.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": "secret"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := dispatch.New()
//	app.HandleFunc("/admin", adminPage).Guard(auth)
//	app.Catch(dispatch.StatusUnauthorized, guards.KeyUnauthorized, guards.UnauthorizedCatcher())
package guards
