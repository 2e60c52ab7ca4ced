// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – GET-only API, bodies are never read (10 s)
//   • WriteTimeout      – a specfile load plus one stat per file (15 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//

package server

import (
	"net/http"
	"time"
)

// newHTTPServer constructs an *http.Server with the defaults above.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
