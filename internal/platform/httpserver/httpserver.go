// Package httpserver builds the HTTP server with project-wide defaults.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server with conservative timeouts. Per-route deadlines are
// handled by middleware, so only the connection-level limits live here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
