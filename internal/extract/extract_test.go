// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vesihiisi/Biblioteksdata/internal/isbn"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

const edition = `{"@graph": [
  {"@id": "https://libris.kb.se/abc123", "controlNumber": "4567",
   "modified": "2018-05-04T10:21:00.000+02:00",
   "bibliography": [{"@id": "https://libris.kb.se/library/S", "sigel": "S"}]},
  {"@id": "https://libris.kb.se/abc123#it", "@type": "Instance",
   "hasTitle": [{"@type": "Title", "mainTitle": "Röda rummet", "subtitle": "skildringar ur artist- och författarlivet"}],
   "extent": [{"@type": "Extent", "label": ["xii, 256 s."]}],
   "identifiedBy": [
     {"@type": "ISBN", "value": "978-0-06-231609-7", "qualifier": ["inb."]},
     {"@type": "ISBN", "value": "9780062316097"},
     {"@type": "ISBN", "value": "978-0-06-231609-8"},
     {"@type": "LCCN", "value": "2011-1234"}
   ],
   "publication": [
     {"@type": "Publication", "year": "1999"},
     {"@type": "PrimaryPublication", "year": "1879",
      "place": [{"@type": "Place", "label": ["Stockholm"]}],
      "agent": {"@type": "Agent", "label": ["Seligmann"]}}
   ],
   "instanceOf": {"@type": "Text",
     "language": [{"@type": "Language", "@id": "https://id.kb.se/language/swe", "code": "swe"}],
     "contribution": [
       {"@type": "PrimaryContribution",
        "agent": {"@id": "https://libris.kb.se/p9x#it", "@type": "Person", "givenName": "August", "familyName": "Strindberg"}},
       {"@type": "Contribution", "role": [{"@id": "https://id.kb.se/relator/illustrator"}],
        "agent": {"@type": "Person", "givenName": "Carl", "familyName": "Larsson"}},
       {"@type": "Contribution", "role": [{"@id": "https://id.kb.se/relator/publisher"}],
        "agent": {"@type": "Person", "givenName": "Ignored", "familyName": "Role"}},
       {"@type": "Contribution",
        "agent": {"@type": "Person", "givenName": "No", "familyName": "Role"}}
     ]}}
]}`

func mustParse(t *testing.T, doc string) *record.SourceRecord {
	t.Helper()
	rec, err := record.Parse([]byte(doc))
	require.NoError(t, err)
	return rec
}

func TestEditionIdentifiers(t *testing.T) {
	rec := mustParse(t, edition)

	uri, ok := URI(rec)
	require.True(t, ok)
	assert.Equal(t, "abc123", uri)

	legacy, ok := LegacyID(rec)
	require.True(t, ok)
	assert.Equal(t, "4567", legacy)

	mod, ok := Modified(rec)
	require.True(t, ok)
	assert.Equal(t, types.Date{Year: 2018, Month: 5, Day: 4, Precision: types.PrecisionDay}, mod)
}

func TestLegacyIDFromSameAs(t *testing.T) {
	rec := mustParse(t, `{"@graph": [
	  {"@id": "https://libris.kb.se/xyz", "controlNumber": "xyz0000000000",
	   "sameAs": [{"@id": "https://libris.kb.se/resource/bib/1"}, {"@id": "http://libris.kb.se/bib/987654"}]}
	]}`)
	id, ok := LegacyID(rec)
	require.True(t, ok)
	assert.Equal(t, "987654", id)

	cn, ok := ControlNumber(rec)
	require.True(t, ok)
	assert.Equal(t, "xyz0000000000", cn)
}

func TestIsLegacyID(t *testing.T) {
	assert.True(t, IsLegacyID("4567"))
	assert.True(t, IsLegacyID("123456789"))
	assert.False(t, IsLegacyID("1234567890"))
	assert.False(t, IsLegacyID("12a"))
	assert.False(t, IsLegacyID(""))
}

func TestTitle(t *testing.T) {
	title, ok := TitleOf(mustParse(t, edition))
	require.True(t, ok)
	assert.Equal(t, "Röda rummet", title.Main)
	assert.Equal(t, "skildringar ur artist- och författarlivet", title.Sub)

	tests := []struct {
		name string
		doc  string
	}{
		{"missing", `{"@graph": [{"@id": "x"}, {"@type": "Instance"}]}`},
		{"duplicate", `{"@graph": [{"@id": "x"}, {"hasTitle": [{"@type": "Title", "mainTitle": "A"}, {"@type": "Title", "mainTitle": "B"}]}]}`},
		{"no main title", `{"@graph": [{"@id": "x"}, {"hasTitle": [{"@type": "Title", "subtitle": "B"}]}]}`},
		{"blank main title", `{"@graph": [{"@id": "x"}, {"hasTitle": [{"@type": "Title", "mainTitle": "  "}]}]}`},
		{"no description slot", `{"@graph": [{"@id": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := TitleOf(mustParse(t, tt.doc))
			assert.False(t, ok)
		})
	}
}

func TestPages(t *testing.T) {
	n, ok := Pages(mustParse(t, edition))
	require.True(t, ok)
	assert.Equal(t, 256, n)

	for _, extent := range []string{
		`[{"@type": "Extent", "label": ["256 s., [8] pl.-bl."]}]`,
		`[{"@type": "Extent", "label": ["256 s."]}, {"@type": "Extent", "label": ["12 s."]}]`,
		`[{"@type": "Extent", "label": ["1 vol."]}, {"@type": "Extent", "label": ["2 vol."]}]`,
		`[{"@type": "Extent", "label": ["okänt omfång"]}]`,
	} {
		_, ok := Pages(mustParse(t, `{"@graph": [{"@id": "x"}, {"extent": `+extent+`}]}`))
		assert.False(t, ok, extent)
	}
}

func TestISBNs(t *testing.T) {
	valid, invalid := ISBNs(mustParse(t, edition))
	require.Len(t, valid, 1, "punctuation variants collapse")
	assert.Equal(t, "9780062316097", valid[0].Compact)
	assert.Equal(t, isbn.ISBN13, valid[0].Format)
	assert.Equal(t, "inb.", valid[0].Qualifier)
	assert.Equal(t, []string{"978-0-06-231609-8"}, invalid)
}

func TestPublication(t *testing.T) {
	pub, ok := PublicationOf(mustParse(t, edition))
	require.True(t, ok)
	assert.Equal(t, Publication{Year: 1879, Place: "Stockholm", Publisher: "Seligmann"}, pub)

	_, ok = PublicationOf(mustParse(t, `{"@graph": [{"@id": "x"}, {"publication": [{"@type": "Publication", "year": "2001"}]}]}`))
	assert.False(t, ok)

	pub, ok = PublicationOf(mustParse(t, `{"@graph": [{"@id": "x"}, {"publication": [{"@type": "PrimaryPublication", "year": "[1879?]"}]}]}`))
	assert.False(t, ok)
	assert.Zero(t, pub.Year)
}

func TestContributors(t *testing.T) {
	got := Contributors(mustParse(t, edition))
	assert.Equal(t, []Contributor{
		{Role: RoleAuthor, Agent: "p9x", Name: "August Strindberg"},
		{Role: RoleIllustrator, Name: "Carl Larsson"},
	}, got)
	assert.True(t, got[0].Linked())
	assert.False(t, got[1].Linked())
}

func TestContributorsPreferContributionSlot(t *testing.T) {
	rec := mustParse(t, `{"@graph": [
	  {"@id": "https://libris.kb.se/w1"},
	  {"@type": "Instance", "instanceOf": {"contribution": [
	    {"@type": "PrimaryContribution", "agent": {"name": "Fallback"}}]}},
	  {"@type": "Work", "contribution": [
	    {"@type": "Contribution", "role": [{"@id": "https://id.kb.se/relator/translator"}, {"@id": "https://id.kb.se/relator/editor"}],
	     "agent": {"@id": "https://libris.kb.se/t1#it", "name": "Översättare"}}]}
	]}`)
	assert.Equal(t, []Contributor{
		{Role: RoleTranslator, Agent: "t1", Name: "Översättare"},
		{Role: RoleEditor, Agent: "t1", Name: "Översättare"},
	}, Contributors(rec))
}

func TestLanguages(t *testing.T) {
	rec := mustParse(t, edition)
	assert.Equal(t, []string{"swe"}, Languages(rec))
	assert.Equal(t, "sv", WorkingLanguage(rec))

	none := mustParse(t, `{"@graph": [{"@id": "x"}, {"@type": "Instance"}]}`)
	assert.Empty(t, Languages(none))
	assert.Equal(t, Undetermined, WorkingLanguage(none))
}

func TestWorkingLanguageFromExtraSlot(t *testing.T) {
	rec := mustParse(t, `{"@graph": [
	  {"@id": "x"}, {"@type": "Instance"}, {"@type": "Work"},
	  {"@id": "https://id.kb.se/language/eng", "@type": "Language"}
	]}`)
	assert.Equal(t, "en", WorkingLanguage(rec))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "sv", Canonical("swe"))
	assert.Equal(t, "en", Canonical("ENG"))
	assert.Equal(t, "fi", Canonical("fi"))
	assert.Equal(t, Undetermined, Canonical("?"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want types.Date
		ok   bool
	}{
		{"1954", types.Date{Year: 1954, Precision: types.PrecisionYear}, true},
		{"1954-03-02", types.Date{Year: 1954, Month: 3, Day: 2, Precision: types.PrecisionDay}, true},
		{"1954-03-02T00:00:00Z", types.Date{Year: 1954, Month: 3, Day: 2, Precision: types.PrecisionDay}, true},
		{"1954-03", types.Date{}, false},
		{"1954-02-30", types.Date{}, false},
		{"ca 1954", types.Date{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
