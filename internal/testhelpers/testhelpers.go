package testhelpers

import (
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var noCacheHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate, max-age=0",
	"Pragma":        "no-cache",
	"Expires":       "0",
	"Last-Modified": "Thu, 01 Jan 1970 00:00:00 GMT",
}

// Serve runs a request for target through handler and returns the recording
func Serve(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	handler.ServeHTTP(w, req)

	return w
}

// AssertHTTP404 asserts handler returns 404 with provided str body
func AssertHTTP404(t *testing.T, handler http.Handler, target string, str interface{}) {
	t.Helper()

	w := Serve(t, handler, http.MethodGet, target)

	require.Equal(t, http.StatusNotFound, w.Code, "HTTP status")

	if str != nil {
		contentType, _, _ := mime.ParseMediaType(w.Header().Get("Content-Type"))
		require.Equal(t, "text/html", contentType, "Content-Type")
		require.Contains(t, w.Body.String(), str)
	}
}

// AssertRedirectTo asserts that handler redirects to particular URL
func AssertRedirectTo(t *testing.T, handler http.Handler, target string, expectedStatus int, expectedURL string) {
	t.Helper()

	w := Serve(t, handler, http.MethodGet, target)

	require.Equal(t, expectedStatus, w.Code, "HTTP status")
	require.Equal(t, expectedURL, w.Header().Get("Location"))
}

// AssertNoCacheHeaders checks that each cache suppression header is present exactly once
func AssertNoCacheHeaders(t *testing.T, header http.Header) {
	t.Helper()

	for k, v := range noCacheHeaders {
		require.Equal(t, []string{v}, header.Values(k), k)
	}
}

// AssertLogContains checks that wantLogEntry is contained in at least one of the log entries
func AssertLogContains(t *testing.T, wantLogEntry string, entries []*logrus.Entry) {
	t.Helper()

	if wantLogEntry != "" {
		messages := make([]string, len(entries))
		for k, entry := range entries {
			messages[k] = entry.Message
		}

		require.Contains(t, messages, wantLogEntry)
	}
}
