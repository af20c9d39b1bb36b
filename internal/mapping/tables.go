// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping holds the vocabulary tables and identifier indices that
// translate catalog values into knowledge base ids.
//
// Local tables are small files shipped with the repository (properties,
// countries, professions, languages, places, publishers). Identifier indices
// are fetched from the knowledge base at startup and record which entity
// already carries which identifier value.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Table names.
const (
	Properties  = "properties"
	Countries   = "countries"
	Professions = "professions"
	Languages   = "languages"
	Places      = "places"
	Publishers  = "publishers"
	Formats     = "formats"
)

// EditionTables are the local tables needed to import editions.
var EditionTables = []string{Properties, Languages, Places, Publishers}

// AuthorityTables are the local tables needed to import persons.
var AuthorityTables = []string{Properties, Countries, Professions}

// ErrTableMissing is returned when a required table is absent.
var ErrTableMissing = errors.New("mapping table missing")

// Table maps a catalog label to a knowledge base id.
type Table struct {
	exact  map[string]string
	folded map[string]string
}

// NewTable builds a table from label → id pairs.
func NewTable(entries map[string]string) Table {
	t := Table{exact: make(map[string]string, len(entries)), folded: make(map[string]string, len(entries))}
	for k, v := range entries {
		t.set(k, v)
	}
	return t
}

func (t Table) set(label, id string) {
	label = strings.TrimSpace(label)
	id = strings.TrimSpace(id)
	if label == "" || id == "" {
		return
	}
	t.exact[label] = id
	if _, ok := t.folded[strings.ToLower(label)]; !ok {
		t.folded[strings.ToLower(label)] = id
	}
}

// Lookup returns the id for label, trying an exact match before a
// case-insensitive one.
func (t Table) Lookup(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if id, ok := t.exact[label]; ok {
		return id, true
	}
	id, ok := t.folded[strings.ToLower(label)]
	return id, ok
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.exact) }

// Tables is a set of loaded local tables keyed by name.
type Tables map[string]Table

// Get returns the named table; a table that was never loaded is empty.
func (ts Tables) Get(name string) Table {
	if t, ok := ts[name]; ok {
		return t
	}
	return NewTable(nil)
}

// Property returns the knowledge base property id for a domain key such
// as "isbn_13".
func (ts Tables) Property(key string) (string, bool) {
	return ts.Get(Properties).Lookup(key)
}

// Load reads the named tables from dir. Each table may be stored as
// <name>.json, <name>.yaml or <name>.yml. Any missing or unreadable table
// fails the whole load.
func Load(dir string, names ...string) (Tables, error) {
	ts := make(Tables, len(names))
	for _, name := range names {
		t, err := LoadTable(dir, name)
		if err != nil {
			return nil, err
		}
		ts[name] = t
	}
	return ts, nil
}

// LoadOptional reads a table that may be absent; a missing table is empty.
func LoadOptional(dir, name string) (Table, error) {
	t, err := LoadTable(dir, name)
	if errors.Is(err, ErrTableMissing) {
		return NewTable(nil), nil
	}
	return t, err
}

// LoadTable reads one table from dir.
func LoadTable(dir, name string) (Table, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Table{}, fmt.Errorf("reading %s: %w", path, err)
		}
		t, err := ParseTable(data, ext == ".json")
		if err != nil {
			return Table{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return t, nil
	}
	return Table{}, fmt.Errorf("%w: %s in %s", ErrTableMissing, name, dir)
}

// tableEntry is one row of the list form of a table.
type tableEntry struct {
	Name string `json:"name" yaml:"name"`
	Q    string `json:"q" yaml:"q"`
}

// ParseTable decodes a table stored either as an object of label → id or as
// a list of {name, q} entries.
func ParseTable(data []byte, isJSON bool) (Table, error) {
	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}

	var obj map[string]string
	if err := unmarshal(data, &obj); err == nil {
		return NewTable(obj), nil
	}

	var list []tableEntry
	if err := unmarshal(data, &list); err != nil {
		return Table{}, fmt.Errorf("table is neither an object of strings nor a list of {name, q}: %w", err)
	}
	t := NewTable(nil)
	for _, e := range list {
		t.set(e.Name, e.Q)
	}
	return t, nil
}
