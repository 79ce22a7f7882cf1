// Package serve runs a dispatch.App (or any http.Handler) behind an
// http.Server with server identification headers and optional HTTP/2
// over cleartext (h2c).
//
// Every response carries an X-Server-Hostname header identifying the
// serving instance; the value is resolved once at construction from the
// Config, environment variables, or os.Hostname.
//
//	srv, err := serve.New(serve.Config{
//		Addr:        ":8080",
//		HostnameEnv: []string{"POD_NAME"},
//		EnableH2C:   true,
//	}, app)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go func() {
//		if err := srv.ListenAndServe(); err != nil {
//			log.Fatal(err)
//		}
//	}()
//
//	// on signal:
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	srv.Shutdown(ctx)
package serve
