// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runeberg parses the Runeberg.org catalog page into works and
// collects the legacy catalog ids they link to, for use as an import list.
package runeberg

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// Column positions in a catalog row. Odd cells are spacers.
const (
	colMaterial = 0
	colLegacy   = 2
	colTitle    = 4
	colAuthors  = 6
	colDate     = 8
	colLanguage = 10
	minCells    = colLanguage + 1
)

const legacyLinkMarker = "libris.kb.se/bib"

// Author is a linked author of a work.
type Author struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Work is one row of the catalog.
type Work struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Material string   `json:"material,omitempty" yaml:"material,omitempty"`
	LegacyID string   `json:"legacy_id,omitempty" yaml:"legacy_id,omitempty"`
	Authors  []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Date     string   `json:"date,omitempty" yaml:"date,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// Parse reads the first table of a catalog page. Rows without the full set
// of cells or without a single title link are skipped.
func Parse(r io.Reader) ([]Work, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog HTML: %w", err)
	}

	var works []Work
	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		if w, ok := parseRow(row); ok {
			works = append(works, w)
		}
	})
	return works, nil
}

func parseRow(row *goquery.Selection) (Work, bool) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() < minCells {
		return Work{}, false
	}
	cell := func(i int) *goquery.Selection { return cells.Eq(i) }

	links := cell(colTitle).Find("a")
	if links.Length() != 1 {
		return Work{}, false
	}
	href, _ := links.Attr("href")
	w := Work{
		ID:       strings.ReplaceAll(href, "/", ""),
		Title:    strings.TrimSpace(links.Text()),
		Material: strings.ToLower(singleAlt(cell(colMaterial))),
		LegacyID: legacyLink(cell(colLegacy)),
		Authors:  authors(cell(colAuthors)),
		Date:     strings.TrimSpace(cell(colDate).Text()),
		Language: singleAlt(cell(colLanguage)),
	}
	return w, w.ID != ""
}

// singleAlt returns the alt text of the cell's only image.
func singleAlt(s *goquery.Selection) string {
	imgs := s.Find("img[alt]")
	if imgs.Length() != 1 {
		return ""
	}
	alt, _ := imgs.Attr("alt")
	return alt
}

func legacyLink(s *goquery.Selection) string {
	var id string
	s.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, legacyLinkMarker) {
			id = record.LastSegment(href)
			return false
		}
		return true
	})
	return id
}

func authors(s *goquery.Selection) []Author {
	var out []Author
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id, _, _ := strings.Cut(record.LastSegment(href), ".")
		out = append(out, Author{ID: id, Name: strings.TrimSpace(a.Text())})
	})
	return out
}

// LegacyIDs returns the distinct valid legacy ids of works in catalog order.
func LegacyIDs(works []Work) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range works {
		if !extract.IsLegacyID(w.LegacyID) || seen[w.LegacyID] {
			continue
		}
		seen[w.LegacyID] = true
		out = append(out, w.LegacyID)
	}
	return out
}

// WriteList writes ids one per line.
func WriteList(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
