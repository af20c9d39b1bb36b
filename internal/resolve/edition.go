// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"

	"github.com/Vesihiisi/Biblioteksdata/internal/claims"
	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/isbn"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Edition resolves bibliographic records of book editions.
var Edition = &Pipeline{
	Kind: "edition",
	Keys: EditionKeys,
	Steps: []Step{
		editionClass,
		legacyEdition,
		title,
		pages,
		isbns,
		publication,
		languages,
		contributors,
	},
}

// EditionKeys returns the match keys of an edition: its URI, legacy id and
// every valid ISBN.
func EditionKeys(rec *record.SourceRecord) []types.MatchKey {
	var keys []types.MatchKey
	if uri, ok := extract.URI(rec); ok {
		keys = append(keys, types.MatchKey{Kind: types.MatchPrimaryURI, Value: uri})
	}
	if id, ok := extract.LegacyID(rec); ok {
		keys = append(keys, types.MatchKey{Kind: types.MatchLegacyID, Value: id})
	}
	valid, _ := extract.ISBNs(rec)
	for _, e := range valid {
		kind := types.MatchISBN10
		if e.Format == isbn.ISBN13 {
			kind = types.MatchISBN13
		}
		keys = append(keys, types.MatchKey{Kind: kind, Value: e.Compact})
	}
	return keys
}

func editionClass(_ context.Context, s *State) error {
	s.instanceOf("edition")
	return nil
}

func legacyEdition(_ context.Context, s *State) error {
	if id, ok := extract.LegacyID(s.Record); ok {
		s.check("libris_edition", id, "libris_edition", s.Builder.Add(s.Item, "libris_edition", id))
	}
	return nil
}

// title adds title and subtitle as monolingual text, and the main title as
// the label in the record's language when that language is known.
func title(_ context.Context, s *State) error {
	t, ok := extract.TitleOf(s.Record)
	if !ok {
		return nil
	}
	s.check("title", t.Main, "title", s.Builder.AddText(s.Item, "title", t.Main))
	if t.Sub != "" {
		s.check("subtitle", t.Sub, "subtitle", s.Builder.AddText(s.Item, "subtitle", t.Sub))
	}
	if lang := s.Builder.Language(); lang != extract.Undetermined {
		s.Item.AddLabel(lang, t.Main)
	}
	return nil
}

func pages(_ context.Context, s *State) error {
	if n, ok := extract.Pages(s.Record); ok {
		s.check("number_of_pages", n, "number_of_pages",
			s.Builder.AddQuantity(s.Item, "number_of_pages", int64(n), ""))
	}
	return nil
}

// isbns adds one statement per valid ISBN, qualified by the binding when
// the formats table knows it. Invalid ISBNs are reported.
func isbns(_ context.Context, s *State) error {
	valid, invalid := extract.ISBNs(s.Record)
	for _, e := range valid {
		key := "isbn_10"
		if e.Format == isbn.ISBN13 {
			key = "isbn_13"
		}
		var quals []types.Qualifier
		if e.Qualifier != "" {
			if part, ok := s.Env.Tables.Get(mapping.Formats).Lookup(e.Qualifier); ok {
				q, err := s.Builder.AppliesToPart(part)
				s.check("isbn_qualifier", e.Qualifier, claims.AppliesToPartKey, err)
				if err == nil {
					quals = append(quals, q)
				}
			} else {
				s.problem("isbn_qualifier", e.Qualifier, claims.AppliesToPartKey)
			}
		}
		s.check(key, e.Compact, key, s.Builder.Add(s.Item, key, e.Compact, quals...))
	}
	for _, raw := range invalid {
		key := "isbn_10"
		if len(isbn.Compact(raw)) == 13 {
			key = "isbn_13"
		}
		s.problem("isbn", raw, key)
	}
	return nil
}

func publication(_ context.Context, s *State) error {
	p, ok := extract.PublicationOf(s.Record)
	if !ok {
		return nil
	}
	if p.Year > 0 {
		d, err := claims.NewDate(p.Year, 0, 0)
		if err == nil {
			err = s.Builder.AddDate(s.Item, "publication_date", d)
		}
		s.check("publication_date", p.Year, "publication_date", err)
	}
	if p.Place != "" {
		s.entity(mapping.Places, "place_of_publication", "place_of_publication", p.Place)
	}
	if p.Publisher != "" {
		s.entity(mapping.Publishers, "publisher", "publisher", p.Publisher)
	}
	return nil
}

func languages(_ context.Context, s *State) error {
	for _, code := range extract.Languages(s.Record) {
		s.entity(mapping.Languages, "language", "language", code)
	}
	return nil
}

// contributors links every credited agent whose authority record is already
// in the knowledge base. Any other named contributor is kept as a name
// string; roles other than author carry an object_has_role qualifier.
func contributors(_ context.Context, s *State) error {
	for _, c := range extract.Contributors(s.Record) {
		key := string(c.Role)
		if c.Linked() {
			if id, ok := s.agentItem(c.Agent); ok {
				s.check(key, c.Agent, key, s.Builder.AddEntity(s.Item, key, id))
				continue
			}
		}
		if c.Name == "" {
			s.problem(key, c.Agent, key)
			continue
		}
		var quals []types.Qualifier
		if q, ok := s.roleQualifier(c.Role); ok {
			quals = append(quals, q)
		}
		s.check(key, c.Name, keyNameString,
			s.Builder.Add(s.Item, keyNameString, types.StringValue(c.Name), quals...))
	}
	return nil
}

// roleQualifier names the role of an unlinked contributor. Authors need
// none; other roles are looked up as "<role>_role" in the properties table.
func (s *State) roleQualifier(r extract.Role) (types.Qualifier, bool) {
	if r == extract.RoleAuthor {
		return types.Qualifier{}, false
	}
	props := s.Env.properties()
	if _, ok := props.Lookup(keyHasRole); !ok {
		return types.Qualifier{}, false
	}
	id, ok := props.Lookup(string(r) + "_role")
	if !ok || !claims.IsEntityID(id) {
		return types.Qualifier{}, false
	}
	return types.Qualifier{Property: keyHasRole, Value: types.EntityValue(id)}, true
}

// agentItem returns the single entity carrying an authority record URI.
func (s *State) agentItem(agent string) (string, bool) {
	items := s.Env.Indices.Get(types.MatchPrimaryURI).Lookup(agent)
	if len(items) != 1 {
		return "", false
	}
	return items[0], true
}
