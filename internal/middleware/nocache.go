package middleware

import (
	"net/http"
)

// noCacheHeaders force the browser to refetch every resource while developing
var noCacheHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate, max-age=0",
	"Pragma":        "no-cache",
	"Expires":       "0",
	"Last-Modified": "Thu, 01 Jan 1970 00:00:00 GMT",
}

// NoCacheHeaders returns a copy of the cache-suppression headers
func NoCacheHeaders() http.Header {
	headers := http.Header{}
	setNoCacheHeaders(headers)

	return headers
}

func setNoCacheHeaders(h http.Header) {
	for k, v := range noCacheHeaders {
		h.Set(k, v)
	}
}

type noCacheResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

// WriteHeader sets the cache-suppression headers last, so nothing written by
// the wrapped handler can override them.
func (w *noCacheResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		setNoCacheHeaders(w.Header())
		w.wroteHeader = true
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *noCacheResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	return w.ResponseWriter.Write(data)
}

// NoCache adds the cache-suppression headers to every response of handler,
// redirects and errors included
func NoCache(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setNoCacheHeaders(w.Header())

		nw := &noCacheResponseWriter{ResponseWriter: w}
		handler.ServeHTTP(nw, r)

		// the handler returned without writing anything, net/http sends an
		// implicit 200 with the current header map
		if !nw.wroteHeader {
			setNoCacheHeaders(w.Header())
		}
	})
}
