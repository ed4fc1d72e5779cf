package logging

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"
)

// AccessLogger logs every request handled by handler. The text format
// prints one `[addr] "METHOD URI PROTO" status size` line per request to
// stdout, the json format uses the structured access logger.
func AccessLogger(handler http.Handler, format string) (http.Handler, error) {
	switch format {
	case FormatText, "":
		return textAccessLogger(handler, os.Stdout), nil
	case FormatJSON:
		return log.AccessLogger(handler,
			log.WithExtraFields(extraFields),
			log.WithXFFAllowed(func(sip string) bool { return false }),
		), nil
	default:
		return nil, fmt.Errorf("unknown access log format %q", format)
	}
}

func extraFields(r *http.Request) log.Fields {
	return log.Fields{
		"correlation_id": correlation.ExtractFromContext(r.Context()),
		"pages_host":     r.Host,
	}
}

// messageFormatter prints the bare entry message
type messageFormatter struct{}

func (messageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

func textAccessLogger(handler http.Handler, out io.Writer) http.Handler {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(messageFormatter{})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := &loggingResponseWriter{ResponseWriter: w}
		handler.ServeHTTP(lw, r)

		logger.Info(accessLine(r, lw.statusCode(), lw.written))
	})
}

func accessLine(r *http.Request, status int, written int64) string {
	size := "-"
	if written > 0 {
		size = strconv.FormatInt(written, 10)
	}

	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}

	return fmt.Sprintf("[%s] \"%s %s %s\" %d %s", clientAddress(r), r.Method, uri, r.Proto, status, size)
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}

	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingResponseWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(data)
	w.written += int64(n)

	return n, err
}

func (w *loggingResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *loggingResponseWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}

	return w.status
}
