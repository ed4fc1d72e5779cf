package redirects

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	netlifyRedirects "github.com/tj/go-redirects"
)

const (
	// maxConfigSize bounds the size of a _redirects file
	maxConfigSize = 64 * 1024

	// SourceFlag marks rules given with -redirect
	SourceFlag = "flag"
)

var (
	errInvalidRedirectFlag = errors.New("redirect must be specified as from:to or from:to:status")
	errNeedRegularFile     = errors.New("redirects file needs to be a regular file (not a directory)")
	errFileTooLarge        = fmt.Errorf("redirects file too large, the maximum is %d bytes", maxConfigSize)
)

// Sources lists where the redirect table is read from. Later sources
// override earlier ones for the same path: defaults, NetlifyConfig,
// RedirectsFile, then Flags.
type Sources struct {
	NoDefaults    bool
	NetlifyConfig string
	RedirectsFile string
	Flags         []string
}

// Build reads every configured source into a single table. All invalid
// rules are reported at once.
func Build(src Sources) (*Table, error) {
	table := Default()
	if src.NoDefaults {
		table = New()
	}

	var result *multierror.Error

	add := func(rules []Rule, err error) {
		if err != nil {
			result = multierror.Append(result, err)
		}

		for _, rule := range rules {
			if err := table.Add(rule); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", rule.Source, err))
			}
		}
	}

	if src.NetlifyConfig != "" {
		add(LoadNetlifyConfig(src.NetlifyConfig))
	}

	if src.RedirectsFile != "" {
		add(LoadRedirectsFile(src.RedirectsFile))
	}

	add(ParseFlags(src.Flags))

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return table, nil
}

// ParseFlag parses a -redirect value of the form from:to[:status]
func ParseFlag(value string) (Rule, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Rule{}, fmt.Errorf("%q: %w", value, errInvalidRedirectFlag)
	}

	rule := Rule{
		From:   strings.TrimSpace(parts[0]),
		To:     strings.TrimSpace(parts[1]),
		Status: DefaultStatus,
		Source: SourceFlag,
	}

	if len(parts) == 3 {
		status, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return Rule{}, fmt.Errorf("%q: %w", value, errInvalidRedirectFlag)
		}

		rule.Status = status
	}

	return rule, nil
}

// ParseFlags parses every -redirect value
func ParseFlags(values []string) ([]Rule, error) {
	var result *multierror.Error

	rules := make([]Rule, 0, len(values))
	for _, value := range values {
		rule, err := ParseFlag(value)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		rules = append(rules, rule)
	}

	return rules, result.ErrorOrNil()
}

type netlifyConfig struct {
	Redirects []netlifyRedirect `toml:"redirects"`
}

// netlifyRedirect is a [[redirects]] entry of netlify.toml,
// https://docs.netlify.com/routing/redirects/#syntax-for-the-netlify-configuration-file
type netlifyRedirect struct {
	From       string                 `toml:"from"`
	To         string                 `toml:"to"`
	Status     int                    `toml:"status"`
	Force      bool                   `toml:"force"`
	Query      map[string]interface{} `toml:"query"`
	Conditions map[string]interface{} `toml:"conditions"`
}

// LoadNetlifyConfig reads the [[redirects]] entries of a netlify.toml file.
// Other sections of the file are ignored.
func LoadNetlifyConfig(path string) ([]Rule, error) {
	var config netlifyConfig

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	source := filepath.Base(path)
	rules := make([]Rule, 0, len(config.Redirects))

	var result *multierror.Error
	for i, r := range config.Redirects {
		if len(r.Query) > 0 || len(r.Conditions) > 0 {
			result = multierror.Append(result, fmt.Errorf("%s: redirect %d: %w", source, i+1, errNoParams))
			continue
		}

		rules = append(rules, Rule{From: r.From, To: r.To, Status: r.Status, Source: source})
	}

	return rules, result.ErrorOrNil()
}

// LoadRedirectsFile reads Netlify style redirect rules,
// https://docs.netlify.com/routing/redirects/#syntax-for-the-redirects-file
func LoadRedirectsFile(path string) ([]Rule, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, errNeedRegularFile)
	}

	if fi.Size() > maxConfigSize {
		return nil, fmt.Errorf("%s: %w", path, errFileTooLarge)
	}

	reader, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	redirectRules, err := netlifyRedirects.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	source := filepath.Base(path)
	rules := make([]Rule, 0, len(redirectRules))

	var result *multierror.Error
	for i, r := range redirectRules {
		// No support for query parameters, https://docs.netlify.com/routing/redirects/redirect-options/#query-parameters
		if r.Params != nil {
			result = multierror.Append(result, fmt.Errorf("%s: rule %d: %w", source, i+1, errNoParams))
			continue
		}

		rules = append(rules, Rule{From: r.From, To: r.To, Status: r.Status, Source: source})
	}

	return rules, result.ErrorOrNil()
}
