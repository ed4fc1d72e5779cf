package urilimiter

import (
	"net/http"

	"gitlab.com/gitlab-org/pages-devserver/internal/httperrors"
	"gitlab.com/gitlab-org/pages-devserver/internal/logging"
)

// NewMiddleware answers 414 to requests whose URI is longer than limit.
// A zero limit disables the check.
func NewMiddleware(handler http.Handler, limit int) http.Handler {
	if limit <= 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.RequestURI) > limit {
			logging.LogRequest(r).WithField("uri_length", len(r.RequestURI)).Debug("request URI too long")
			httperrors.Serve414(w)

			return
		}

		handler.ServeHTTP(w, r)
	})
}
