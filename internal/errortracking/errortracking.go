// Package errortracking reports unexpected failures to Sentry through labkit.
// Nothing is sent unless labkit errortracking was initialized with a DSN.
package errortracking

import (
	"fmt"
	"net/http"

	"gitlab.com/gitlab-org/labkit/errortracking"
)

// CaptureOption alias to avoid importing labkit/errortracking in internal packages
type CaptureOption = errortracking.CaptureOption

// WithField alias to avoid importing labkit/errortracking in internal packages
func WithField(key, value string) CaptureOption {
	return errortracking.WithField(key, value)
}

// CaptureErrWithReqAndStackTrace reports err together with the request that
// triggered it
func CaptureErrWithReqAndStackTrace(err error, r *http.Request, fields ...CaptureOption) {
	opts := append(
		fields,
		errortracking.WithContext(r.Context()),
		errortracking.WithRequest(r),
		errortracking.WithStackTrace(),
	)

	errortracking.Capture(err, opts...)
}

// CaptureErrWithStackTrace reports err outside of a request
func CaptureErrWithStackTrace(err error, fields ...CaptureOption) {
	errortracking.Capture(err, append(fields, errortracking.WithStackTrace())...)
}

// PanicError wraps a value recovered from a panicking handler
func PanicError(recovered ...interface{}) error {
	return fmt.Errorf("panic while serving request: %s", fmt.Sprint(recovered...))
}
