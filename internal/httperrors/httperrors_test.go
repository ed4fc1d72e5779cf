package httperrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// creates a new implementation of http.ResponseWriter that allows the
// casting of values in order to aid testing efforts.
type testResponseWriter struct {
	status  int
	content string
	http.ResponseWriter
}

func newTestResponseWriter(w http.ResponseWriter) *testResponseWriter {
	return &testResponseWriter{0, "", w}
}

func (w *testResponseWriter) Status() int {
	return w.status
}

func (w *testResponseWriter) Content() string {
	return w.content
}

func (w *testResponseWriter) Header() http.Header {
	return w.ResponseWriter.Header()
}

func (w *testResponseWriter) Write(data []byte) (int, error) {
	w.content += string(data)
	return w.ResponseWriter.Write(data)
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

var (
	testingContent = content{
		http.StatusNotFound,
		"Title",
		"533",
		"Header test",
		"explanation text",
	}
)

func TestGenerateErrorHTML(t *testing.T) {
	actual := generateErrorHTML(testingContent)
	require.Contains(t, actual, testingContent.title)
	require.Contains(t, actual, testingContent.statusString)
	require.Contains(t, actual, testingContent.header)
	require.Contains(t, actual, testingContent.explanation)
}

func TestGenerateErrorHTMLEscapesMessage(t *testing.T) {
	c := testingContent
	c.header = "File not found: /<script>.html"

	actual := generateErrorHTML(c)
	require.NotContains(t, actual, "<script>")
	require.Contains(t, actual, "File not found: /&lt;script&gt;.html")
}

func TestServeErrorPage(t *testing.T) {
	w := newTestResponseWriter(httptest.NewRecorder())
	serveErrorPage(w, testingContent)
	require.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
	require.Equal(t, w.Header().Get("X-Content-Type-Options"), "nosniff")
	require.Equal(t, w.Status(), testingContent.status)
}

func TestServe404(t *testing.T) {
	tests := map[string]struct {
		reason          string
		expectedMessage string
	}{
		"with reason": {
			reason:          "Directory not found: /missing/",
			expectedMessage: "Message: Directory not found: /missing/.",
		},
		"without reason": {
			reason:          "",
			expectedMessage: "Message: File not found.",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestResponseWriter(httptest.NewRecorder())
			Serve404(w, test.reason)
			require.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
			require.Equal(t, w.Status(), http.StatusNotFound)
			require.Contains(t, w.Content(), content404.title)
			require.Contains(t, w.Content(), test.expectedMessage)
		})
	}
}

func TestServe403(t *testing.T) {
	w := newTestResponseWriter(httptest.NewRecorder())
	Serve403(w)
	require.Equal(t, w.Status(), content403.status)
	require.Contains(t, w.Content(), content403.title)
	require.Contains(t, w.Content(), content403.explanation)
}

func TestServe414(t *testing.T) {
	w := newTestResponseWriter(httptest.NewRecorder())
	Serve414(w)
	require.Equal(t, w.Status(), content414.status)
	require.Contains(t, w.Content(), content414.title)
	require.Contains(t, w.Content(), content414.header)
}

func TestServe500(t *testing.T) {
	w := newTestResponseWriter(httptest.NewRecorder())
	Serve500(w)
	require.Equal(t, w.Status(), content500.status)
	require.Contains(t, w.Content(), content500.title)
}

func TestServe501(t *testing.T) {
	w := newTestResponseWriter(httptest.NewRecorder())
	Serve501(w, http.MethodPost)
	require.Equal(t, w.Status(), content501.status)
	require.Contains(t, w.Content(), "Unsupported method (POST)")
}
