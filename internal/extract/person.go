// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// IsPerson reports whether an authority record describes a person.
func IsPerson(rec *record.SourceRecord) bool {
	return rec.Description.Type() == "Person"
}

// AuthorityID is an external authority identifier such as VIAF or ISNI.
type AuthorityID struct {
	Type  string
	Value string
}

var authorityTypes = map[string]bool{"viaf": true, "isni": true}

// AuthorityIDs returns the VIAF and ISNI identifiers of a person.
func AuthorityIDs(rec *record.SourceRecord) []AuthorityID {
	var out []AuthorityID
	for _, n := range rec.Description.Nodes("identifiedBy") {
		if n.Type() != "Identifier" {
			continue
		}
		kind, _ := n.Text("typeNote")
		kind = strings.ToLower(strings.TrimSpace(kind))
		if !authorityTypes[kind] {
			continue
		}
		value, ok := n.Text("value")
		if !ok {
			continue
		}
		value = strings.Join(strings.Fields(value), "")
		if value == "" {
			continue
		}
		out = append(out, AuthorityID{Type: kind, Value: value})
	}
	return out
}

// GivenName returns the person's given name.
func GivenName(rec *record.SourceRecord) (string, bool) {
	return nameField(rec, "givenName")
}

// FamilyName returns the person's family name.
func FamilyName(rec *record.SourceRecord) (string, bool) {
	return nameField(rec, "familyName")
}

func nameField(rec *record.SourceRecord, key string) (string, bool) {
	s, ok := rec.Description.Text(key)
	s = clean(s)
	return s, ok && s != ""
}

// Nationality returns the MARC geographic area code of the person's first
// nationality, e.g. "e-sw---".
func Nationality(rec *record.SourceRecord) (string, bool) {
	nodes := rec.Description.Nodes("nationality")
	if len(nodes) == 0 {
		return "", false
	}
	code := record.LastSegment(nodes[0].ID())
	if code == "" {
		code, _ = nodes[0].Text("code")
	}
	return code, code != ""
}

// Occupations returns the lower-cased occupation labels of the first
// occupation entry.
func Occupations(rec *record.SourceRecord) []string {
	nodes := rec.Description.Nodes("hasOccupation")
	if len(nodes) == 0 {
		return nil
	}
	var out []string
	for _, l := range nodes[0].Strings("label") {
		if l = clean(strings.ToLower(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// BiographicalNotes returns the labels of the person's biographical notes.
func BiographicalNotes(rec *record.SourceRecord) []string {
	var out []string
	for _, n := range rec.Description.Nodes("hasBiographicalInformation") {
		if n.Type() != "BiographicalNote" {
			continue
		}
		if l, ok := n.Text("label"); ok && clean(l) != "" {
			out = append(out, clean(l))
		}
	}
	return out
}

// Lifespan holds the birth and death dates of a person.
type Lifespan struct {
	Born *types.Date
	Died *types.Date
	// Raw is the lifeSpan string as cataloged.
	Raw string
	// Malformed is set when Raw could not be parsed. Explicit birth or death
	// dates are still applied.
	Malformed bool
	// BadBirth and BadDeath hold explicit birthDate/deathDate values that
	// are not dates.
	BadBirth string
	BadDeath string
}

// LifespanOf reads the "lifeSpan" string ("1954-", "1849-1912", "-1912")
// and lets explicit birthDate/deathDate fields override either end.
// ok is false when the record carries none of these fields.
func LifespanOf(rec *record.SourceRecord) (Lifespan, bool) {
	var ls Lifespan
	raw, hasSpan := rec.Description.Text("lifeSpan")
	if hasSpan {
		ls.Raw = raw
		born, died, ok := parseLifespan(raw)
		if ok {
			ls.Born, ls.Died = born, died
		} else {
			ls.Malformed = true
		}
	}

	hasBirth, hasDeath := false, false
	if s, ok := rec.Description.Text("birthDate"); ok {
		hasBirth = true
		if d, ok := ParseDate(s); ok {
			ls.Born = &d
		} else {
			ls.BadBirth = s
		}
	}
	if s, ok := rec.Description.Text("deathDate"); ok {
		hasDeath = true
		if d, ok := ParseDate(s); ok {
			ls.Died = &d
		} else {
			ls.BadDeath = s
		}
	}
	return ls, hasSpan || hasBirth || hasDeath
}

func parseLifespan(raw string) (born, died *types.Date, ok bool) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return nil, nil, false
	}
	year := func(s string) (*types.Date, bool) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		if !yearPattern.MatchString(s) {
			return nil, false
		}
		return &types.Date{Year: atoi(s), Precision: types.PrecisionYear}, true
	}
	born, ok1 := year(parts[0])
	died, ok2 := year(parts[1])
	if !ok1 || !ok2 || (born == nil && died == nil) {
		return nil, nil, false
	}
	return born, died, true
}
