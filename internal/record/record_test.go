// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "@context": "/context.jsonld",
  "@graph": [
    {"@id": "https://libris.kb.se/abc123", "controlNumber": "4567", "modified": "2018-05-04T10:00:00Z"},
    {"@id": "https://libris.kb.se/abc123#it", "@type": "Instance",
     "hasTitle": [{"@type": "Title", "mainTitle": [["Röda rummet"]]}],
     "instanceOf": {"@type": "Text", "language": [{"@type": "Language", "code": "swe"}]}},
    {"@id": "https://libris.kb.se/abc123#work", "@type": "Work"},
    "not-an-object",
    {"@type": "Language", "code": "eng"}
  ]
}`

func TestParseSlots(t *testing.T) {
	rec, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NotNil(t, rec.Identity)
	require.NotNil(t, rec.Description)
	require.NotNil(t, rec.Contribution)
	assert.Len(t, rec.Extra, 1, "non-object slots are skipped")

	uri, ok := rec.URI()
	require.True(t, ok)
	assert.Equal(t, "abc123", uri)
	assert.Equal(t, "Instance", rec.Description.Type())
}

func TestParseMissingSlots(t *testing.T) {
	rec, err := Parse([]byte(`{"@graph": [{"@id": "https://libris.kb.se/x1"}]}`))
	require.NoError(t, err)
	assert.Nil(t, rec.Description)
	assert.Nil(t, rec.Contribution)
	assert.Len(t, rec.Slots(), 1)

	// Accessors on a missing slot are safe.
	_, ok := rec.Description.Text("mainTitle")
	assert.False(t, ok)
	assert.Empty(t, rec.Contribution.Nodes("contribution"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`{"foo": 1}`))
	assert.ErrorIs(t, err, ErrNoGraph)

	_, err = Parse([]byte(`[1, 2]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"@graph": [`))
	assert.Error(t, err)
}

func TestNodeAccessors(t *testing.T) {
	rec, err := Parse([]byte(sample))
	require.NoError(t, err)
	d := rec.Description

	title := d.Nodes("hasTitle")
	require.Len(t, title, 1)
	main, ok := title[0].Text("mainTitle")
	require.True(t, ok)
	assert.Equal(t, "Röda rummet", main, "nested one-element lists unwrap")

	work, ok := d.Node("instanceOf")
	require.True(t, ok)
	assert.Equal(t, "Text", work.Type())

	cn, ok := rec.Identity.Text("controlNumber")
	require.True(t, ok)
	assert.Equal(t, "4567", cn)

	assert.Equal(t, []string{"@id", "@type", "hasTitle", "instanceOf"}, d.Keys())
}

func TestWalkDocumentOrder(t *testing.T) {
	rec, err := Parse([]byte(sample))
	require.NoError(t, err)

	var codes []string
	rec.Walk(func(n *Node) bool {
		if n.Type() == "Language" {
			c, _ := n.Text("code")
			codes = append(codes, c)
		}
		return true
	})
	assert.Equal(t, []string{"swe", "eng"}, codes)
}

func TestDelistify(t *testing.T) {
	assert.Equal(t, "x", Delistify([]any{[]any{"x"}}))
	assert.Equal(t, []any{"a", "b"}, Delistify([]any{"a", "b"}))
	assert.Nil(t, Delistify(nil))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "abc123", LastSegment("https://libris.kb.se/abc123"))
	assert.Equal(t, "abc123", LastSegment("https://libris.kb.se/abc123/"))
	assert.Equal(t, "plain", LastSegment("plain"))
}

func TestRepairEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"untouched", `{"a": "b\n\"c\u00e5"}`, `{"a": "b\n\"c\u00e5"}`},
		{"invalid escape doubled", `{"a": "C:\data"}`, `{"a": "C:\\data"}`},
		{"short unicode", `{"a": "\u12"}`, `{"a": "\\u12"}`},
		{"outside strings", `{"a": 1}`, `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(RepairEscapes([]byte(tt.in))))
		})
	}

	rec, err := Parse([]byte(`{"@graph": [{"@id": "https://libris.kb.se/x", "note": "a\qb"}]}`))
	require.NoError(t, err)
	note, _ := rec.Identity.Text("note")
	assert.Equal(t, `a\qb`, note)
}
