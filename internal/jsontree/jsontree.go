// Package jsontree parses arbitrary JSON into an ordered tree and renders
// it as indented "key: value" lines for the inspector.
package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind is the JSON type of a Node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Field is one object member. Object fields keep document order.
type Field struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value. Only the member matching Kind is set.
type Node struct {
	Kind   Kind
	Bool   bool
	Number json.Number
	String string
	Items  []*Node
	Fields []Field
}

// IsContainer reports whether the node is an array or object.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == Array || n.Kind == Object)
}

// Len returns the number of children of a container, 0 otherwise.
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.Kind == Array:
		return len(n.Items)
	case n.Kind == Object:
		return len(n.Fields)
	default:
		return 0
	}
}

// Parse decodes data into a Node. Numbers keep their literal text.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("jsontree: trailing data after value")
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("jsontree: %w", err)
	}

	switch v := tok.(type) {
	case nil:
		return &Node{Kind: Null}, nil
	case bool:
		return &Node{Kind: Bool, Bool: v}, nil
	case json.Number:
		return &Node{Kind: Number, Number: v}, nil
	case string:
		return &Node{Kind: String, String: v}, nil
	case json.Delim:
		switch v {
		case '[':
			n := &Node{Kind: Array, Items: []*Node{}}
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("jsontree: %w", err)
			}
			return n, nil
		case '{':
			n := &Node{Kind: Object, Fields: []Field{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("jsontree: %w", err)
				}
				key, _ := keyTok.(string)
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				n.Fields = append(n.Fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("jsontree: %w", err)
			}
			return n, nil
		}
	}
	return nil, fmt.Errorf("jsontree: unexpected token %v", tok)
}

// Options bounds and styles rendering.
type Options struct {
	// MaxArray collapses arrays longer than this to "[Array(N)]".
	MaxArray int
	// MaxDepth stops expanding containers nested deeper than this.
	MaxDepth int
	// Indent is repeated once per level. Defaults to two spaces.
	Indent string
	// Key and Value style keys and scalar values. Nil leaves text as is.
	Key   func(string) string
	Value func(string) string
}

// DefaultOptions are the inspector's bounds.
func DefaultOptions() Options {
	return Options{MaxArray: 20, MaxDepth: 32, Indent: "  "}
}

// Ellipsis stands in for containers past MaxDepth.
const Ellipsis = "…"

// Render returns the tree as newline-joined lines.
func Render(n *Node, opts Options) string {
	return strings.Join(Lines(n, opts), "\n")
}

// Lines renders the tree one entry per line. A container root renders
// its children at the left margin; a scalar root renders as its value.
func Lines(n *Node, opts Options) []string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	r := renderer{opts: opts}
	if n == nil {
		return []string{r.value("null")}
	}
	if !n.IsContainer() {
		return []string{r.value(scalarText(n))}
	}
	r.children(n, 1)
	return r.lines
}

type renderer struct {
	opts  Options
	lines []string
}

func (r *renderer) children(n *Node, depth int) {
	switch n.Kind {
	case Array:
		for i, item := range n.Items {
			r.entry(strconv.Itoa(i), item, depth)
		}
	case Object:
		for _, f := range n.Fields {
			r.entry(f.Key, f.Value, depth)
		}
	}
}

func (r *renderer) entry(key string, n *Node, depth int) {
	prefix := strings.Repeat(r.opts.Indent, depth-1) + r.key(key) + ": "

	switch {
	case n == nil || !n.IsContainer():
		r.lines = append(r.lines, prefix+r.value(scalarText(n)))
	case n.Kind == Array && r.opts.MaxArray > 0 && len(n.Items) > r.opts.MaxArray:
		r.lines = append(r.lines, prefix+fmt.Sprintf("[Array(%d)]", len(n.Items)))
	case r.opts.MaxDepth > 0 && depth > r.opts.MaxDepth:
		r.lines = append(r.lines, prefix+Ellipsis)
	case n.Len() == 0:
		if n.Kind == Array {
			r.lines = append(r.lines, prefix+"[]")
		} else {
			r.lines = append(r.lines, prefix+"{}")
		}
	default:
		r.lines = append(r.lines, strings.TrimRight(prefix, " "))
		r.children(n, depth+1)
	}
}

func (r *renderer) key(s string) string {
	if r.opts.Key != nil {
		return r.opts.Key(s)
	}
	return s
}

func (r *renderer) value(s string) string {
	if r.opts.Value != nil {
		return r.opts.Value(s)
	}
	return s
}

// scalarText prints strings bare, the way the dashboard shows them.
func scalarText(n *Node) string {
	if n == nil {
		return "null"
	}
	switch n.Kind {
	case Bool:
		return strconv.FormatBool(n.Bool)
	case Number:
		return n.Number.String()
	case String:
		return n.String
	default:
		return "null"
	}
}
