package redirects

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var regexpPlaceholder = regexp.MustCompile(`(?i)/:[a-z]+`)

// validateURL runs validations against a rule URL.
// Returns `nil` if the URL is valid.
func validateURL(urlText string) error {
	url, err := url.Parse(urlText)
	if err != nil {
		return errFailedToParseURL
	}

	// No support for domain-level redirects to outside sites:
	// - `https://google.com`
	// - `//google.com`
	// - `/\google.com`
	if url.Host != "" || url.Scheme != "" || strings.HasPrefix(url.Path, "/\\") {
		return errNoDomainLevelRedirects
	}

	// No parent traversing relative URL's with `./` or `../`
	// No ambiguous URLs like bare domains `GitLab.com`
	if !strings.HasPrefix(url.Path, "/") {
		return errNoStartingForwardSlashInURLPath
	}

	// Rules are exact matches, https://docs.netlify.com/routing/redirects/redirect-options/#splats
	if strings.Contains(url.Path, "*") {
		return errNoSplats
	}

	// https://docs.netlify.com/routing/redirects/redirect-options/#placeholders
	if regexpPlaceholder.MatchString(url.Path) {
		return errNoPlaceholders
	}

	return nil
}

// validateFrom additionally requires a bare path, the rule is matched
// against the request path only
func validateFrom(from string) error {
	if err := validateURL(from); err != nil {
		return err
	}

	if strings.ContainsAny(from, "?#") {
		return errNoQueryInFrom
	}

	return nil
}

// validateRule runs all validation rules on the provided rule.
// Returns `nil` if the rule is valid
func validateRule(r Rule) error {
	if err := validateFrom(r.From); err != nil {
		return err
	}

	if err := validateURL(r.To); err != nil {
		return err
	}

	switch r.Status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		// noop
	default:
		return errUnsupportedStatus
	}

	return nil
}
