// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/isbn"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// Title is a main title with an optional subtitle.
type Title struct {
	Main string
	Sub  string
}

// TitleOf returns the title of the descriptive slot. Exactly one Title node
// with a usable main title is required.
func TitleOf(rec *record.SourceRecord) (Title, bool) {
	var titles []*record.Node
	for _, n := range rec.Description.Nodes("hasTitle") {
		if n.Type() == "Title" {
			titles = append(titles, n)
		}
	}
	if len(titles) != 1 {
		return Title{}, false
	}
	main, ok := titles[0].Text("mainTitle")
	main = clean(main)
	if !ok || main == "" {
		return Title{}, false
	}
	sub, _ := titles[0].Text("subtitle")
	return Title{Main: main, Sub: clean(sub)}, true
}

// Pages returns the page count when there is exactly one Extent entry whose
// label holds exactly one number.
func Pages(rec *record.SourceRecord) (int, bool) {
	var extents []*record.Node
	for _, n := range rec.Description.Nodes("extent") {
		if n.Type() == "Extent" {
			extents = append(extents, n)
		}
	}
	if len(extents) != 1 {
		return 0, false
	}
	var tokens []string
	for _, label := range extents[0].Strings("label") {
		tokens = append(tokens, numberPattern.FindAllString(label, -1)...)
	}
	if len(tokens) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(tokens[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ISBNEntry is a validated ISBN with the binding qualifier cataloged
// next to it, e.g. "inb." or "hft.".
type ISBNEntry struct {
	isbn.ISBN
	Qualifier string
}

// ISBNs returns the valid ISBNs of the record in compact form, without
// duplicates, and separately every raw value that failed validation.
func ISBNs(rec *record.SourceRecord) (valid []ISBNEntry, invalid []string) {
	seen := make(map[string]bool)
	for _, n := range rec.Description.Nodes("identifiedBy") {
		if !strings.EqualFold(n.Type(), "isbn") {
			continue
		}
		raw, ok := n.Text("value")
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		parsed, err := isbn.Parse(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		if seen[parsed.Compact] {
			continue
		}
		seen[parsed.Compact] = true
		q, _ := n.Text("qualifier")
		valid = append(valid, ISBNEntry{ISBN: parsed, Qualifier: clean(q)})
	}
	return valid, invalid
}

// Publication is the primary publication event.
type Publication struct {
	Year      int
	Place     string
	Publisher string
}

// PublicationOf returns the first PrimaryPublication. Each field is set only
// when it is present and well-formed; ok is false when nothing usable exists.
func PublicationOf(rec *record.SourceRecord) (Publication, bool) {
	var primary *record.Node
	for _, n := range rec.Description.Nodes("publication") {
		if n.Type() == "PrimaryPublication" {
			primary = n
			break
		}
	}
	if primary == nil {
		return Publication{}, false
	}

	var p Publication
	if y, ok := primary.Text("year"); ok && yearPattern.MatchString(strings.TrimSpace(y)) {
		p.Year, _ = strconv.Atoi(strings.TrimSpace(y))
	}
	for _, place := range primary.Nodes("place") {
		if place.Type() != "Place" {
			continue
		}
		if label, ok := place.Text("label"); ok && clean(label) != "" {
			p.Place = clean(label)
			break
		}
	}
	if agent, ok := primary.Node("agent"); ok {
		if label, ok := agent.Text("label"); ok {
			p.Publisher = clean(label)
		}
	}
	return p, p.Year != 0 || p.Place != "" || p.Publisher != ""
}
