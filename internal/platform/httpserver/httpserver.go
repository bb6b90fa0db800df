package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the storefront's timeouts. WriteTimeout
// leaves room beyond the router's request timeout for the error response.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
