package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidHeaderParameter is returned for a header not given as "Name: value"
var ErrInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

// AddCustomHeaders adds a map of Headers to a Response
func AddCustomHeaders(w http.ResponseWriter, headers http.Header) {
	for k, v := range headers {
		for _, value := range v {
			w.Header().Add(k, value)
		}
	}
}

// CustomHeaders adds headers to every response of handler
func CustomHeaders(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, headers)

		handler.ServeHTTP(w, r)
	})
}

// ParseHeaderString parses "Name: value" strings into a map. Names must be
// HTTP tokens and values may not contain control characters such as CR/LF.
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}
	for _, keyValueString := range customHeaders {
		keyValue := strings.SplitN(keyValueString, ":", 2)
		if len(keyValue) != 2 {
			return nil, ErrInvalidHeaderParameter
		}

		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])

		if !httpguts.ValidHeaderFieldName(key) {
			return nil, fmt.Errorf("%w: invalid name %q", ErrInvalidHeaderParameter, key)
		}

		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("%w: invalid value for %s", ErrInvalidHeaderParameter, key)
		}

		if joinedHeaders(value) {
			return nil, fmt.Errorf("%w: %s holds more than one header, separate them with ;;", ErrInvalidHeaderParameter, key)
		}

		headers[key] = append(headers[key], value)
	}
	return headers, nil
}

// joinedHeaders reports whether a comma separated element of value is
// itself a "Name: value" pair. URLs such as https://host do not match.
func joinedHeaders(value string) bool {
	for _, element := range strings.Split(value, ",") {
		name, rest, ok := strings.Cut(element, ":")
		if !ok || !httpguts.ValidHeaderFieldName(strings.TrimSpace(name)) {
			continue
		}

		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return true
		}
	}

	return false
}
