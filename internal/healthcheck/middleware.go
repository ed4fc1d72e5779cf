package healthcheck

import (
	"net/http"
)

// NewMiddleware answers statusPath with a plain success message and passes
// every other request to handler. An empty statusPath disables the check.
func NewMiddleware(handler http.Handler, statusPath string) http.Handler {
	if statusPath == "" {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			handler.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("success\n"))
	})
}
