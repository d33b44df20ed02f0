package sanitize

import (
	"fmt"
	"strings"

	"github.com/moinsen-dev/scrubber/internal/document"
)

// scanTree is the value-pattern pass over a parsed document: every string
// leaf that the key pass left untouched is scanned for embedded credentials.
func (e *Engine) scanTree(n *document.Node, path, file string) []Event {
	var events []Event
	switch n.Kind() {
	case document.Object:
		for _, f := range n.Fields() {
			events = append(events, e.scanTree(f.Value, joinKey(path, f.Key), file)...)
		}
	case document.Array:
		for i, item := range n.Items() {
			events = append(events, e.scanTree(item, fmt.Sprintf("%s[%d]", path, i), file)...)
		}
	case document.String:
		s := n.StringValue()
		if e.rules.IsPlaceholder(s) {
			return nil
		}
		out, evs := e.scanString(s, file, path, 0)
		if len(evs) > 0 {
			n.SetString(out)
			events = append(events, evs...)
		}
	}
	return events
}

// scanString applies every value rule to one string. All independent matches
// within the string are redacted; spans whose rewrite is a no-op (already
// holding the placeholder) produce no event. The non-credential portion of
// each match survives via the rule's captured prefix.
func (e *Engine) scanString(s, file, path string, line int) (string, []Event) {
	var events []Event
	out := s
	for i := range e.rules.Values {
		vr := &e.rules.Values[i]
		spans := vr.Spans(out)
		if len(spans) == 0 {
			continue
		}
		changed := false
		for _, sp := range spans {
			span := out[sp[0]:sp[1]]
			if vr.Apply(span) == span {
				continue
			}
			events = append(events, Event{
				File:  file,
				Path:  path,
				Line:  line,
				Rule:  vr.Name,
				Label: e.rules.Classify(span),
			})
			changed = true
		}
		if changed {
			out = vr.Apply(out)
		}
	}
	return out, events
}

// scanText is the raw-text fallback for files that are not valid JSON.
// Rules are applied line by line so events carry a usable locator.
func (e *Engine) scanText(text, file string) (string, []Event) {
	var events []Event
	lines := strings.Split(text, "\n")
	for i := range lines {
		out, evs := e.scanString(lines[i], file, "", i+1)
		if len(evs) > 0 {
			lines[i] = out
			events = append(events, evs...)
		}
	}
	return strings.Join(lines, "\n"), events
}
