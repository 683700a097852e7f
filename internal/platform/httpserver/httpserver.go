package httpserver

import (
	"net/http"
	"time"
)

// Timeouts sized for a small-payload JSON API: every request body here is a
// popup outcome, a cart line, or a webhook callback, so slow readers are
// cut off early and keep-alives are recycled generously.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// New builds the storefront's HTTP server around the given router.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
