// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record loads catalog records into named slots over an
// order-preserving node graph.
//
// A catalog record is a JSON-LD document whose "@graph" is a short list of
// sub-documents. By convention slot 0 is the administrative record (URI,
// control number, modification time), slot 1 the descriptive entity, slot 2
// the contribution/work entity and later slots carry embedded descriptors.
// Any slot may be missing; a missing slot is a nil *Node.
package record

import (
	"errors"
	"fmt"
)

// ErrNoGraph is returned when a document has no "@graph" list.
var ErrNoGraph = errors.New("record has no @graph")

// SourceRecord is one catalog entry. It is read-only once parsed.
type SourceRecord struct {
	Identity     *Node
	Description  *Node
	Contribution *Node
	Extra        []*Node
}

// Parse decodes a JSON-LD record. Invalid backslash escapes, which occur in
// some catalog exports, are repaired before decoding.
func Parse(data []byte) (*SourceRecord, error) {
	v, err := decode(RepairEscapes(data))
	if err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	root, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("decoding record: top level is not an object")
	}
	graph, ok := root.Get("@graph")
	if !ok {
		return nil, ErrNoGraph
	}
	list, ok := graph.([]any)
	if !ok {
		return nil, ErrNoGraph
	}
	return fromSlots(list), nil
}

func fromSlots(list []any) *SourceRecord {
	slot := func(i int) *Node {
		if i >= len(list) {
			return nil
		}
		n, _ := list[i].(*Node)
		return n
	}
	r := &SourceRecord{
		Identity:     slot(0),
		Description:  slot(1),
		Contribution: slot(2),
	}
	for i := 3; i < len(list); i++ {
		if n := slot(i); n != nil {
			r.Extra = append(r.Extra, n)
		}
	}
	return r
}

// Slots returns the present sub-documents in conventional order.
func (r *SourceRecord) Slots() []*Node {
	var out []*Node
	for _, n := range []*Node{r.Identity, r.Description, r.Contribution} {
		if n != nil {
			out = append(out, n)
		}
	}
	return append(out, r.Extra...)
}

// Walk visits every object in every slot, depth-first in document order.
func (r *SourceRecord) Walk(fn func(*Node) bool) {
	for _, n := range r.Slots() {
		if !n.Walk(fn) {
			return
		}
	}
}

// URI returns the last path segment of the identity slot's "@id".
func (r *SourceRecord) URI() (string, bool) {
	id := r.Identity.ID()
	if id == "" {
		return "", false
	}
	seg := LastSegment(id)
	return seg, seg != ""
}

// RepairEscapes doubles backslashes inside JSON strings that do not start a
// valid escape sequence, so that text such as "C:\data" decodes literally.
func RepairEscapes(data []byte) []byte {
	var out []byte
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			if out != nil {
				out = append(out, c)
			}
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if i+1 < len(data) && validEscape(data[i+1:]) {
				if out != nil {
					out = append(out, c, data[i+1])
				}
				i++
				continue
			}
			if out == nil {
				out = append(make([]byte, 0, len(data)+8), data[:i]...)
			}
			out = append(out, '\\')
		}
		if out != nil {
			out = append(out, c)
		}
	}
	if out == nil {
		return data
	}
	return out
}

func validEscape(rest []byte) bool {
	switch rest[0] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if len(rest) < 5 {
			return false
		}
		for _, h := range rest[1:5] {
			if !isHex(h) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
