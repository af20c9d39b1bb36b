// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Node is a JSON object that remembers the order of its keys. Values are
// *Node, []any, string, json.Number, bool or nil.
type Node struct {
	keys   []string
	values map[string]any
}

func newNode() *Node {
	return &Node{values: make(map[string]any)}
}

func (n *Node) set(key string, v any) {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = v
}

// Keys returns the object keys in document order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return n.keys
}

// Get returns the raw value under key.
func (n *Node) Get(key string) (any, bool) {
	if n == nil {
		return nil, false
	}
	v, ok := n.values[key]
	return v, ok
}

// Has reports whether key is present.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Type returns the "@type" of the node, or "".
func (n *Node) Type() string {
	s, _ := n.Text("@type")
	return s
}

// ID returns the "@id" of the node, or "".
func (n *Node) ID() string {
	s, _ := n.Text("@id")
	return s
}

// Text returns the value under key as a string after unwrapping nested
// one-element lists. Numbers are returned in their literal form. A list of
// several values is not a string.
func (n *Node) Text(key string) (string, bool) {
	v, ok := n.Get(key)
	if !ok {
		return "", false
	}
	return AsString(Delistify(v))
}

// Node returns the value under key as an object after unwrapping nested
// one-element lists.
func (n *Node) Node(key string) (*Node, bool) {
	v, ok := n.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := Delistify(v).(*Node)
	return child, ok && child != nil
}

// Nodes returns every object under key, in order. A single object is
// returned as a one-element slice; non-object list entries are skipped.
func (n *Node) Nodes(key string) []*Node {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case *Node:
		return []*Node{t}
	case []any:
		var out []*Node
		for _, e := range t {
			if c, ok := Delistify(e).(*Node); ok {
				out = append(out, c)
			}
		}
		return out
	default:
		return nil
	}
}

// Strings returns every string under key, flattening nested lists.
func (n *Node) Strings(key string) []string {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	var out []string
	var collect func(any)
	collect = func(x any) {
		switch t := x.(type) {
		case []any:
			for _, e := range t {
				collect(e)
			}
		default:
			if s, ok := AsString(t); ok {
				out = append(out, s)
			}
		}
	}
	collect(v)
	return out
}

// Walk visits n and every object nested below it depth-first, in document
// order. Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, k := range n.keys {
		if !walkValue(n.values[k], fn) {
			return false
		}
	}
	return true
}

func walkValue(v any, fn func(*Node) bool) bool {
	switch t := v.(type) {
	case *Node:
		return t.Walk(fn)
	case []any:
		for _, e := range t {
			if !walkValue(e, fn) {
				return false
			}
		}
	}
	return true
}

// Delistify unwraps nested one-element lists: [["x"]] becomes "x".
func Delistify(v any) any {
	for {
		list, ok := v.([]any)
		if !ok || len(list) != 1 {
			return v
		}
		v = list[0]
	}
}

// AsString converts scalar JSON values to strings.
func AsString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// LastSegment returns the part of a URI after its final slash.
func LastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// decode reads one JSON value keeping object key order.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		n := newNode()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			n.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
