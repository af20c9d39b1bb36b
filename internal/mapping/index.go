// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"sort"

	"github.com/Vesihiisi/Biblioteksdata/internal/isbn"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Pair is one (identifier value, entity) row from the knowledge base.
type Pair struct {
	Value string `json:"value" yaml:"value"`
	Item  string `json:"item" yaml:"item"`
}

// Index maps identifier values to the entities that carry them, and back.
// Both directions keep every distinct id so that ambiguity is visible to
// the matcher instead of being resolved by whichever row came last.
type Index struct {
	Kind    types.MatchKind
	byValue map[string][]string
	byItem  map[string][]string
}

// NewIndex returns an empty index for kind.
func NewIndex(kind types.MatchKind) *Index {
	return &Index{
		Kind:    kind,
		byValue: make(map[string][]string),
		byItem:  make(map[string][]string),
	}
}

// BuildIndex builds an index from pairs. ISBN indices are keyed on the
// compact form and rows with invalid ISBNs are dropped.
func BuildIndex(kind types.MatchKind, pairs []Pair) *Index {
	x := NewIndex(kind)
	for _, p := range pairs {
		x.Add(p.Value, p.Item)
	}
	return x
}

// Add records that item carries value. Duplicate rows are ignored.
func (x *Index) Add(value, item string) {
	value, ok := x.normalize(value)
	if !ok || item == "" {
		return
	}
	x.byValue[value] = appendUnique(x.byValue[value], item)
	x.byItem[item] = appendUnique(x.byItem[item], value)
}

func (x *Index) normalize(value string) (string, bool) {
	switch x.Kind {
	case types.MatchISBN10, types.MatchISBN13:
		i, err := isbn.Parse(value)
		if err != nil {
			return "", false
		}
		return i.Compact, true
	default:
		return value, value != ""
	}
}

// Lookup returns every entity carrying value.
func (x *Index) Lookup(value string) []string {
	if x == nil {
		return nil
	}
	value, ok := x.normalize(value)
	if !ok {
		return nil
	}
	return x.byValue[value]
}

// Values returns every identifier value carried by item.
func (x *Index) Values(item string) []string {
	if x == nil {
		return nil
	}
	return x.byItem[item]
}

// Len returns the number of distinct values.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byValue)
}

// Pairs returns the index contents as sorted rows, for snapshots.
func (x *Index) Pairs() []Pair {
	if x == nil {
		return nil
	}
	var out []Pair
	for v, items := range x.byValue {
		for _, it := range items {
			out = append(out, Pair{Value: v, Item: it})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].Item < out[j].Item
	})
	return out
}

func appendUnique(list []string, s string) []string {
	for _, e := range list {
		if e == s {
			return list
		}
	}
	return append(list, s)
}

// Indices holds one identifier index per match kind.
type Indices map[types.MatchKind]*Index

// Get returns the index for kind, or nil.
func (ix Indices) Get(kind types.MatchKind) *Index {
	return ix[kind]
}

// IndexProperties maps match kinds to the properties-table keys whose
// values populate them.
var IndexProperties = map[types.MatchKind]string{
	types.MatchPrimaryURI:    "libris_uri",
	types.MatchLegacyID:      "libris_edition",
	types.MatchISBN13:        "isbn_13",
	types.MatchISBN10:        "isbn_10",
	types.MatchControlNumber: "selibr",
}
