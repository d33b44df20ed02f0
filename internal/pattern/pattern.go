// Package pattern holds the rule tables that drive sanitization. The tables
// are data, not code: defaults ship embedded as TOML and operators can layer
// their own file on top without touching the engine.
//
// Three independent tables exist:
//   - key rules: key names presumed to hold secrets; a match replaces the value
//   - value rules: credential shapes embedded inside strings; a match replaces
//     only the secret segment
//   - token rules: shapes of well-known token formats, used to label what was
//     found; a token match never triggers replacement on its own
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPlaceholder is substituted for every detected credential value.
const DefaultPlaceholder = "PLACEHOLDER"

// KeyRule matches configuration key names. Matching is case-insensitive and
// anchored to the whole key.
type KeyRule struct {
	Name  string `toml:"name"`
	Match string `toml:"match"`

	re *regexp.Regexp
}

// ValueRule matches a credential-shaped substring inside a value. Capture
// group 1 is the prefix that survives redaction (scheme, query-param name);
// everything else in the match is replaced by the placeholder.
type ValueRule struct {
	Name  string `toml:"name"`
	Match string `toml:"match"`

	re          *regexp.Regexp
	replacement string
}

// TokenRule maps a token shape to a classification label. Rules are tried in
// table order; the first match wins.
type TokenRule struct {
	Label string `toml:"label"`
	Match string `toml:"match"`

	re *regexp.Regexp
}

// Ruleset is the full set of tables for one run. It is loaded and compiled
// once at startup and never mutated afterwards.
type Ruleset struct {
	Placeholder string      `toml:"placeholder"`
	Keys        []KeyRule   `toml:"key"`
	Values      []ValueRule `toml:"value"`
	Tokens      []TokenRule `toml:"token"`
}

// ConfigError reports a malformed entry in a pattern table. It indicates a
// broken deployment and is fatal at startup, unlike per-file errors.
type ConfigError struct {
	Table string
	Name  string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pattern table %s, rule %q: %v", e.Table, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Compile validates and compiles every rule in the set. It must be called
// before any Match/Classify use; Default and Load return compiled sets.
func (r *Ruleset) Compile() error {
	if r.Placeholder == "" {
		r.Placeholder = DefaultPlaceholder
	}
	for i := range r.Keys {
		k := &r.Keys[i]
		re, err := regexp.Compile(`(?i)\A(?:` + k.Match + `)\z`)
		if err != nil {
			return &ConfigError{Table: "key", Name: k.Name, Err: err}
		}
		k.re = re
	}
	for i := range r.Values {
		v := &r.Values[i]
		re, err := regexp.Compile(v.Match)
		if err != nil {
			return &ConfigError{Table: "value", Name: v.Name, Err: err}
		}
		v.re = re
		v.replacement = "${1}" + r.Placeholder
	}
	for i := range r.Tokens {
		t := &r.Tokens[i]
		re, err := regexp.Compile(t.Match)
		if err != nil {
			return &ConfigError{Table: "token", Name: t.Label, Err: err}
		}
		t.re = re
	}
	return nil
}

// MatchKey reports whether a key name matches any sensitive-key rule and
// returns the name of the rule that fired.
func (r *Ruleset) MatchKey(key string) (string, bool) {
	for i := range r.Keys {
		if r.Keys[i].re.MatchString(key) {
			return r.Keys[i].Name, true
		}
	}
	return "", false
}

// Classify returns the label of the first token rule matching the span, or
// "unknown" when no rule matches. Classification is advisory only.
func (r *Ruleset) Classify(span string) string {
	for i := range r.Tokens {
		if r.Tokens[i].re.MatchString(span) {
			return r.Tokens[i].Label
		}
	}
	return "unknown"
}

// DetectLabels returns the labels of every token rule that matches somewhere
// in the text, in table order.
func (r *Ruleset) DetectLabels(text string) []string {
	var labels []string
	for i := range r.Tokens {
		if r.Tokens[i].re.MatchString(text) {
			labels = append(labels, r.Tokens[i].Label)
		}
	}
	return labels
}

// IsPlaceholder reports whether a value is already sanitized output.
func (r *Ruleset) IsPlaceholder(value string) bool {
	return value == r.Placeholder || value == "Bearer "+r.Placeholder
}

// Apply rewrites every credential span in s, keeping the captured prefix.
func (v *ValueRule) Apply(s string) string {
	return v.re.ReplaceAllString(s, v.replacement)
}

// Spans returns the [start, end) byte ranges of all matches in s.
func (v *ValueRule) Spans(s string) [][]int {
	return v.re.FindAllStringIndex(s, -1)
}

// describe renders a rule table row for listings.
func describe(name, match string) string {
	return fmt.Sprintf("  %-24s %s", name, match)
}

// Describe renders the effective tables in a human-readable form. Secrets
// never appear here; only the rules themselves.
func (r *Ruleset) Describe() string {
	var b strings.Builder
	b.WriteString("Key rules:\n")
	for _, k := range r.Keys {
		b.WriteString(describe(k.Name, k.Match) + "\n")
	}
	b.WriteString("\nValue rules:\n")
	for _, v := range r.Values {
		b.WriteString(describe(v.Name, v.Match) + "\n")
	}
	b.WriteString("\nToken rules:\n")
	for _, t := range r.Tokens {
		b.WriteString(describe(t.Label, t.Match) + "\n")
	}
	return b.String()
}
