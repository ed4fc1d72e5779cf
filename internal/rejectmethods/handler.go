// Package rejectmethods answers requests for methods the server does not implement
package rejectmethods

import (
	"net/http"

	"gitlab.com/gitlab-org/pages-devserver/internal/httperrors"
	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
)

// Handler answers 501 naming the request method
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogRequest(r).WithField("method", r.Method).Debug("unsupported method")
		httperrors.Serve501(w, r.Method)
	})
}
