// Package document provides an order-preserving JSON tree. The standard
// map-based decoding loses object key order, which would make sanitized
// output diff-unstable, so documents are parsed from the token stream into
// an explicit tree and serialized back with the original key order intact.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind identifies the JSON value variant held by a Node.
type Kind int

const (
	Object Kind = iota
	Array
	String
	Number
	Bool
	Null
)

// Field is one key/value pair of an object node. Fields keep their document
// order.
type Field struct {
	Key   string
	Value *Node
}

// Node is one value in a parsed JSON document.
type Node struct {
	kind    Kind
	fields  []*Field
	items   []*Node
	str     string
	num     json.Number
	boolean bool
}

// NewString returns a string node, used when a value is replaced wholesale.
func NewString(s string) *Node {
	return &Node{kind: String, str: s}
}

// Kind returns the variant of the node.
func (n *Node) Kind() Kind { return n.kind }

// Fields returns the ordered key/value pairs of an object node.
func (n *Node) Fields() []*Field { return n.fields }

// Items returns the elements of an array node.
func (n *Node) Items() []*Node { return n.items }

// StringValue returns the value of a string node.
func (n *Node) StringValue() string { return n.str }

// SetString rewrites the content of a string node in place.
func (n *Node) SetString(s string) { n.str = s }

// Parse decodes JSON bytes into a tree. A parse failure means the input is
// not structured; callers fall back to plain-text handling.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON document")
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return &Node{kind: String, str: t}, nil
	case json.Number:
		return &Node{kind: Number, num: t}, nil
	case bool:
		return &Node{kind: Bool, boolean: t}, nil
	case nil:
		return &Node{kind: Null}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*Node, error) {
	n := &Node{kind: Object}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.fields = append(n.fields, &Field{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return n, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	n := &Node{kind: Array}
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, item)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return n, nil
}

// Encode serializes the tree with two-space indentation and a trailing
// newline, the layout the backed-up files are stored in.
func (n *Node) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, n, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, n *Node, depth int) error {
	switch n.kind {
	case Object:
		if len(n.fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, f := range n.fields {
			indent(buf, depth+1)
			key, err := quote(f.Key)
			if err != nil {
				return err
			}
			buf.WriteString(key)
			buf.WriteString(": ")
			if err := encode(buf, f.Value, depth+1); err != nil {
				return err
			}
			if i < len(n.fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte('}')
	case Array:
		if len(n.items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.items {
			indent(buf, depth+1)
			if err := encode(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
	case String:
		s, err := quote(n.str)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case Number:
		buf.WriteString(n.num.String())
	case Bool:
		if n.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Null:
		buf.WriteString("null")
	}
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}

// quote JSON-encodes a string without HTML escaping, so content like URLs
// with ampersands round-trips unchanged.
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
