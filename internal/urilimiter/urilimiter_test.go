package urilimiter

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-devserver/internal/testhelpers"
)

func TestNewMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	})

	tests := map[string]struct {
		limit          int
		url            string
		expectedStatus int
	}{
		"with_disabled_middleware": {
			limit:          0,
			url:            "/client/index.html?q=a",
			expectedStatus: http.StatusOK,
		},
		"with_limit_set_to_request_length": {
			limit:          17,
			url:            "/index.html?q=a#b",
			expectedStatus: http.StatusOK,
		},
		"with_uri_length_exceeding_the_limit": {
			limit:          17,
			url:            "/index1.html?q=a#b",
			expectedStatus: http.StatusRequestURITooLong,
		},
		"with_uri_length_exceeding_the_limit_with_query": {
			limit:          17,
			url:            "/index.html?q=aa#b",
			expectedStatus: http.StatusRequestURITooLong,
		},
	}

	for tn, tt := range tests {
		t.Run(tn, func(t *testing.T) {
			w := testhelpers.Serve(t, NewMiddleware(handler, tt.limit), http.MethodGet, tt.url)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				require.Equal(t, "hello", w.Body.String())
			} else {
				require.Contains(t, w.Body.String(), "Request URI Too Long")
			}
		})
	}
}
