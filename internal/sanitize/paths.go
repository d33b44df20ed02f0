package sanitize

import (
	"regexp"
	"strings"
)

// NormalizeHomePaths rewrites occurrences of the user's absolute home
// directory to the portable ~ form. A match must end at a path boundary
// (`/`, whitespace, a quote, or end of text) so that a sibling such as
// /Users/alicesmith is never mistaken for /Users/alice. It runs after
// redaction, so placeholders can never be mistaken for a path.
func NormalizeHomePaths(content, home string) (string, bool) {
	if home == "" || home == "/" {
		return content, false
	}
	home = strings.TrimSuffix(home, "/")
	re := regexp.MustCompile(regexp.QuoteMeta(home) + `($|[/\s"'])`)
	out := re.ReplaceAllString(content, "~${1}")
	return out, out != content
}
