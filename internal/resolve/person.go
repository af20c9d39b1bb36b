// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/names"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// DefaultDescriptionLanguage tags biographical notes.
const DefaultDescriptionLanguage = "sv"

// Person resolves authority records that describe people.
var Person = &Pipeline{
	Kind:   "person",
	Accept: extract.IsPerson,
	Keys:   PersonKeys,
	Steps: []Step{
		personClass,
		selibr,
		authorityIDs,
		personNames,
		descriptions,
		nationality,
		occupations,
		lifespan,
	},
}

// PersonKeys returns the match keys of a person: its URI and its control
// number.
func PersonKeys(rec *record.SourceRecord) []types.MatchKey {
	var keys []types.MatchKey
	if uri, ok := extract.URI(rec); ok {
		keys = append(keys, types.MatchKey{Kind: types.MatchPrimaryURI, Value: uri})
	}
	if cn, ok := extract.ControlNumber(rec); ok {
		keys = append(keys, types.MatchKey{Kind: types.MatchControlNumber, Value: cn})
	}
	return keys
}

// FormatISNI writes a 16-character ISNI in groups of four. Other lengths
// are returned unchanged with ok=false.
func FormatISNI(raw string) (string, bool) {
	compact := strings.Join(strings.Fields(raw), "")
	if len(compact) != 16 {
		return raw, false
	}
	var b strings.Builder
	for i := 0; i < len(compact); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(compact[i : i+4])
	}
	return b.String(), true
}

func personClass(_ context.Context, s *State) error {
	s.instanceOf("human")
	return nil
}

func selibr(_ context.Context, s *State) error {
	if cn, ok := extract.ControlNumber(s.Record); ok {
		s.check("selibr", cn, "selibr", s.Builder.Add(s.Item, "selibr", types.StringValue(cn)))
	}
	return nil
}

func authorityIDs(_ context.Context, s *State) error {
	for _, id := range extract.AuthorityIDs(s.Record) {
		value := id.Value
		if id.Type == "isni" {
			formatted, ok := FormatISNI(value)
			if !ok {
				s.problem("isni", value, "isni")
				continue
			}
			value = formatted
		}
		s.check(id.Type, value, id.Type, s.Builder.Add(s.Item, id.Type, types.StringValue(value)))
	}
	return nil
}

// personNames labels the item with the full name in every label language
// and links the given and family names to their name items.
func personNames(ctx context.Context, s *State) error {
	given, hasGiven := extract.GivenName(s.Record)
	family, hasFamily := extract.FamilyName(s.Record)

	var parts []string
	if hasGiven {
		parts = append(parts, given)
	}
	if hasFamily {
		parts = append(parts, family)
	}
	if full := strings.Join(parts, " "); full != "" {
		for _, lang := range s.Env.LabelLanguages {
			s.Item.AddLabel(lang, full)
		}
	}

	if hasGiven {
		if err := s.name(ctx, names.Given, given, "given_name"); err != nil {
			return err
		}
	}
	if hasFamily {
		if err := s.name(ctx, names.Family, family, "family_name"); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) name(ctx context.Context, kind names.Kind, name, key string) error {
	if s.Env.Names == nil {
		return nil
	}
	id, ok, err := s.Env.Names.Resolve(ctx, kind, name)
	if err != nil {
		return err
	}
	if !ok {
		s.problem(key, name, key)
		return nil
	}
	s.check(key, name, key, s.Builder.AddEntity(s.Item, key, id))
	return nil
}

// descriptions uses the first biographical note as the description.
func descriptions(_ context.Context, s *State) error {
	notes := extract.BiographicalNotes(s.Record)
	if len(notes) == 0 {
		return nil
	}
	lang := s.Env.DescriptionLanguage
	if lang == "" {
		lang = DefaultDescriptionLanguage
	}
	s.Item.AddDescription(lang, notes[0])
	return nil
}

func nationality(_ context.Context, s *State) error {
	if code, ok := extract.Nationality(s.Record); ok {
		s.entity(mapping.Countries, "nationality", "country_of_citizenship", code)
	}
	return nil
}

func occupations(_ context.Context, s *State) error {
	for _, occ := range extract.Occupations(s.Record) {
		s.entity(mapping.Professions, "occupation", "occupation", occ)
	}
	return nil
}

// lifespan adds birth and death dates. An unparseable lifespan string is
// reported once under "lifespan" with its raw text, and an explicit date
// that does not parse under its own property.
func lifespan(_ context.Context, s *State) error {
	ls, ok := extract.LifespanOf(s.Record)
	if !ok {
		return nil
	}
	if ls.Malformed {
		s.problem("lifespan", ls.Raw, "")
	}
	if ls.BadBirth != "" {
		s.problem("date_of_birth", ls.BadBirth, "date_of_birth")
	}
	if ls.BadDeath != "" {
		s.problem("date_of_death", ls.BadDeath, "date_of_death")
	}
	if ls.Born != nil {
		s.check("date_of_birth", ls.Born.String(), "date_of_birth",
			s.Builder.AddDate(s.Item, "date_of_birth", *ls.Born))
	}
	if ls.Died != nil {
		s.check("date_of_death", ls.Died.String(), "date_of_death",
			s.Builder.AddDate(s.Item, "date_of_death", *ls.Died))
	}
	return nil
}
