package sanitize

import (
	"fmt"
	"strings"

	"github.com/moinsen-dev/scrubber/internal/document"
)

// redactKeys is the key-pattern pass: a depth-first walk over the parsed
// document that replaces the value of every field whose key name matches a
// sensitive-key rule. Matching looks at the key alone, never the full path.
func (e *Engine) redactKeys(n *document.Node, path, file string) []Event {
	var events []Event
	switch n.Kind() {
	case document.Object:
		for _, f := range n.Fields() {
			childPath := joinKey(path, f.Key)
			if rule, ok := e.rules.MatchKey(f.Key); ok {
				if ev, redacted := e.redactField(f, childPath, file, rule); redacted {
					events = append(events, ev)
				}
				// A redacted subtree is not descended into.
				continue
			}
			events = append(events, e.redactKeys(f.Value, childPath, file)...)
		}
	case document.Array:
		for i, item := range n.Items() {
			events = append(events, e.redactKeys(item, fmt.Sprintf("%s[%d]", path, i), file)...)
		}
	}
	return events
}

// redactField replaces a sensitive field's value with the placeholder.
// Containers are replaced whole; already-sanitized and blank values are
// left alone so repeated runs are no-ops.
func (e *Engine) redactField(f *document.Field, path, file, rule string) (Event, bool) {
	ev := Event{File: file, Path: path, Rule: rule}
	v := f.Value

	switch v.Kind() {
	case document.String:
		s := v.StringValue()
		if e.rules.IsPlaceholder(s) || strings.TrimSpace(s) == "" {
			return ev, false
		}
		ev.Label = e.rules.Classify(s)
		if strings.HasPrefix(s, "Bearer ") {
			v.SetString("Bearer " + e.rules.Placeholder)
		} else {
			v.SetString(e.rules.Placeholder)
		}
		return ev, true
	case document.Number, document.Bool:
		f.Value = document.NewString(e.rules.Placeholder)
		return ev, true
	case document.Object, document.Array:
		f.Value = document.NewString(e.rules.Placeholder)
		return ev, true
	}
	// Null carries nothing worth protecting.
	return ev, false
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
