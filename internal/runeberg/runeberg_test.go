// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runeberg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `<html><body>
<table>
<tr>
  <td><img src="/img/book.gif" alt="Book"></td><td></td>
  <td><a href="http://libris.kb.se/bib/1234567">L</a></td><td></td>
  <td><a href="/rodarummet/">Röda rummet</a></td><td></td>
  <td><a href="/authors/strindbe.html">August Strindberg</a></td><td></td>
  <td>1879</td><td></td>
  <td><img src="/img/sv.gif" alt="sv"></td>
</tr>
<tr>
  <td><img src="/img/book.gif" alt="Book"></td><td></td>
  <td></td><td></td>
  <td><a href="/nilsholg/">Nils Holgerssons underbara resa</a></td><td></td>
  <td><a href="/authors/lagerlof.html">Selma Lagerlöf</a> <a href="/authors/other.html">Other</a></td><td></td>
  <td>1906</td><td></td>
  <td><img src="/img/sv.gif" alt="sv"><img src="/img/de.gif" alt="de"></td>
</tr>
<tr>
  <td></td><td></td>
  <td><a href="http://libris.kb.se/bib/1234567">L</a></td><td></td>
  <td><a href="/dup/">Duplicate link</a></td><td></td>
  <td></td><td></td><td></td><td></td><td></td>
</tr>
<tr><td>short row</td></tr>
<tr>
  <td></td><td></td><td></td><td></td>
  <td><a href="/a/">A</a><a href="/b/">B</a></td><td></td>
  <td></td><td></td><td></td><td></td><td></td>
</tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestParse(t *testing.T) {
	works, err := Parse(strings.NewReader(catalog))
	require.NoError(t, err)
	require.Len(t, works, 3)

	first := works[0]
	assert.Equal(t, "rodarummet", first.ID)
	assert.Equal(t, "Röda rummet", first.Title)
	assert.Equal(t, "book", first.Material)
	assert.Equal(t, "1234567", first.LegacyID)
	assert.Equal(t, []Author{{ID: "strindbe", Name: "August Strindberg"}}, first.Authors)
	assert.Equal(t, "1879", first.Date)
	assert.Equal(t, "sv", first.Language)

	second := works[1]
	assert.Empty(t, second.LegacyID)
	assert.Len(t, second.Authors, 2)
	assert.Empty(t, second.Language, "two language icons are ambiguous")
}

func TestLegacyIDs(t *testing.T) {
	works, err := Parse(strings.NewReader(catalog))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567"}, LegacyIDs(works))

	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, []string{"1", "22"}))
	assert.Equal(t, "1\n22\n", buf.String())
}
