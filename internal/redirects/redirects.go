// Package redirects holds the exact-path redirect aliases of the server and
// loads them from flags, netlify.toml and Netlify style _redirects files
package redirects

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// DefaultStatus is used by rules that do not name a status
	DefaultStatus = http.StatusMovedPermanently

	// maxRuleCount is used to limit the total number of rules in a table
	maxRuleCount = 1000

	// SourceDefault marks the built-in rules
	SourceDefault = "default"
)

var (
	errNoStartingForwardSlashInURLPath = errors.New("url path must start with forward slash /")
	errNoDomainLevelRedirects          = errors.New("no domain-level redirects to outside sites")
	errFailedToParseURL                = errors.New("unable to parse URL")
	errNoSplats                        = errors.New("splats are not supported")
	errNoPlaceholders                  = errors.New("placeholders are not supported")
	errNoParams                        = errors.New("params not supported")
	errNoQueryInFrom                   = errors.New("source path cannot contain a query or fragment")
	errUnsupportedStatus               = errors.New("status not supported")
	errTooManyRules                    = fmt.Errorf("redirect table may not contain more than %d rules", maxRuleCount)
)

// Rule redirects requests for exactly From to To
type Rule struct {
	From   string
	To     string
	Status int
	// Source names where the rule was configured, e.g. a file name
	Source string
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.From, r.To)
}

// defaultRules are the aliases served when nothing else is configured
var defaultRules = []Rule{
	{From: "/admin", To: "/admin/", Status: DefaultStatus, Source: SourceDefault},
	{From: "/client", To: "/client/", Status: DefaultStatus, Source: SourceDefault},
	{From: "/", To: "/client/", Status: DefaultStatus, Source: SourceDefault},
}

// Table is an ordered set of rules keyed by their source path. It is built
// once at start-up and only read afterwards.
type Table struct {
	rules []Rule
	index map[string]int
}

// New returns an empty table
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Default returns a table holding the built-in aliases
func Default() *Table {
	t := New()
	for _, rule := range defaultRules {
		// built-in rules are known to be valid
		_ = t.Add(rule)
	}

	return t
}

// Add validates rule and stores it. A rule for a path that is already in
// the table replaces the previous one in place.
func (t *Table) Add(rule Rule) error {
	if rule.Status == 0 {
		rule.Status = DefaultStatus
	}

	if err := validateRule(rule); err != nil {
		return fmt.Errorf("%s: %w", rule, err)
	}

	if i, ok := t.index[rule.From]; ok {
		t.rules[i] = rule
		return nil
	}

	if len(t.rules) >= maxRuleCount {
		return errTooManyRules
	}

	t.index[rule.From] = len(t.rules)
	t.rules = append(t.rules, rule)

	return nil
}

// Lookup returns the rule whose source is exactly path
func (t *Table) Lookup(path string) (Rule, bool) {
	i, ok := t.index[path]
	if !ok {
		return Rule{}, false
	}

	return t.rules[i], true
}

// Rules returns the rules in the order they were first added
func (t *Table) Rules() []Rule {
	rules := make([]Rule, len(t.rules))
	copy(rules, t.rules)

	return rules
}

// Len returns the number of rules
func (t *Table) Len() int {
	return len(t.rules)
}
