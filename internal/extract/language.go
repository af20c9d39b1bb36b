// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// Undetermined is the working language when a record states none.
const Undetermined = "und"

// languageCode returns the catalog code of a Language node: its "code", or
// the last segment of its "@id".
func languageCode(n *record.Node) string {
	if c, ok := n.Text("code"); ok && strings.TrimSpace(c) != "" {
		return strings.TrimSpace(c)
	}
	return record.LastSegment(n.ID())
}

// Languages returns the catalog language codes (ISO 639-2) of the work, in
// order and without duplicates.
func Languages(rec *record.SourceRecord) []string {
	var nodes []*record.Node
	if work, ok := rec.Description.Node("instanceOf"); ok {
		nodes = append(nodes, work.Nodes("language")...)
	}
	nodes = append(nodes, rec.Contribution.Nodes("language")...)

	seen := make(map[string]bool)
	var out []string
	for _, n := range nodes {
		if n.Type() != "" && n.Type() != "Language" {
			continue
		}
		code := strings.ToLower(languageCode(n))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// WorkingLanguage returns the BCP 47 base language of the first Language
// node found anywhere in the record, in document order. Records without a
// recognizable language yield Undetermined.
func WorkingLanguage(rec *record.SourceRecord) string {
	lang := Undetermined
	rec.Walk(func(n *record.Node) bool {
		if n.Type() != "Language" {
			return true
		}
		code := languageCode(n)
		if code == "" {
			return true
		}
		lang = Canonical(code)
		return false
	})
	return lang
}

// Canonical maps an ISO 639 code to its shortest BCP 47 form, so "swe"
// becomes "sv". Unknown codes yield Undetermined.
func Canonical(code string) string {
	base, err := language.ParseBase(strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return Undetermined
	}
	return base.String()
}
