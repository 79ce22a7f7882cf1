package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ErrNoHandler is returned by New when no handler is provided.
var ErrNoHandler = errors.New("serve: handler must not be nil")

// Config configures the Server behaviour.
type Config struct {
	// Addr is the TCP address to listen on. Defaults to ":8080".
	Addr string

	// Hostname is the value written to the X-Server-Hostname response
	// header. Resolution order: Hostname field, then HostnameEnv
	// environment variables, then os.Hostname.
	Hostname string

	// HostnameEnv is a list of environment variable names checked in
	// order (e.g. ["POD_NAME", "HOSTNAME"]). The first non-empty
	// value is used. Only consulted when Hostname is empty. When all
	// variables are unset or empty, os.Hostname is used as a fallback.
	HostnameEnv []string

	// EnableH2C accepts HTTP/2 over cleartext TCP, both via the h2c
	// upgrade mechanism and via prior knowledge. Useful behind load
	// balancers that terminate TLS.
	EnableH2C bool

	// ReadHeaderTimeout bounds reading request headers. Defaults to
	// 10 seconds.
	ReadHeaderTimeout time.Duration
}

// Server wraps http.Server with hostname identification headers and
// optional h2c support.
type Server struct {
	srv      *http.Server
	hostname string
}

// New builds a Server around the handler. The hostname is resolved once
// here; it returns an error if the hostname cannot be determined.
func New(cfg Config, handler http.Handler) (*Server, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}

	hostname := cfg.Hostname

	if hostname == "" {
		for _, env := range cfg.HostnameEnv {
			if v, ok := os.LookupEnv(env); ok && v != "" {
				hostname = v
				break
			}
		}
	}

	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, err
		}

		hostname = h
	}

	wrapped := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Server-Hostname", hostname)
		handler.ServeHTTP(w, r)
	}))

	if cfg.EnableH2C {
		wrapped = h2c.NewHandler(wrapped, &http2.Server{})
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	readHeaderTimeout := cfg.ReadHeaderTimeout
	if readHeaderTimeout == 0 {
		readHeaderTimeout = 10 * time.Second
	}

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           wrapped,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		hostname: hostname,
	}, nil
}

// Handler returns the fully wrapped handler, for mounting under another
// server or for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Hostname returns the resolved hostname.
func (s *Server) Hostname() string {
	return s.hostname
}

// ListenAndServe listens on the configured address and serves requests
// until Shutdown or Close. A clean shutdown returns nil rather than
// http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Serve accepts connections on the listener. A clean shutdown returns
// nil rather than http.ErrServerClosed.
func (s *Server) Serve(ln net.Listener) error {
	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until the context is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Close immediately closes the listener and all active connections.
func (s *Server) Close() error {
	return s.srv.Close()
}
