// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls typed field values out of catalog records.
//
// Every function is total: it returns ok=false (or an empty slice) when a
// field is absent, duplicated or malformed, and never guesses. Callers
// decide whether a missing value is worth reporting.
package extract

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// legacyBibPrefix marks sameAs links to the legacy catalog.
const legacyBibPrefix = "http://libris.kb.se/bib/"

var (
	yearPattern   = regexp.MustCompile(`^\d{4}$`)
	numberPattern = regexp.MustCompile(`\d+`)
	datePattern   = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?(?:T.*)?$`)
)

// clean trims and NFC-normalizes catalog text.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// URI returns the record's stable identifier (the last segment of its URI).
func URI(rec *record.SourceRecord) (string, bool) {
	return rec.URI()
}

// SourceURL returns the full "@id" of the identity slot.
func SourceURL(rec *record.SourceRecord) string {
	return rec.Identity.ID()
}

// IsLegacyID reports whether id looks like a legacy numeric catalog id.
func IsLegacyID(id string) bool {
	if id == "" || len(id) > 9 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// LegacyID returns the legacy numeric id: the control number when it has the
// legacy shape, otherwise a sameAs link into the legacy catalog.
func LegacyID(rec *record.SourceRecord) (string, bool) {
	if cn, ok := rec.Identity.Text("controlNumber"); ok && IsLegacyID(strings.TrimSpace(cn)) {
		return strings.TrimSpace(cn), true
	}
	for _, sa := range rec.Identity.Nodes("sameAs") {
		if id := sa.ID(); strings.HasPrefix(id, legacyBibPrefix) {
			if seg := record.LastSegment(id); IsLegacyID(seg) {
				return seg, true
			}
		}
	}
	return "", false
}

// ControlNumber returns the raw control number, whatever its shape.
func ControlNumber(rec *record.SourceRecord) (string, bool) {
	cn, ok := rec.Identity.Text("controlNumber")
	cn = strings.TrimSpace(cn)
	return cn, ok && cn != ""
}

// Modified returns the record's last modification date at day precision.
func Modified(rec *record.SourceRecord) (types.Date, bool) {
	raw, ok := rec.Identity.Text("modified")
	if !ok {
		return types.Date{}, false
	}
	raw = strings.TrimSpace(raw)
	if len(raw) < 10 {
		return types.Date{}, false
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return types.Date{}, false
	}
	return types.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Precision: types.PrecisionDay}, true
}

// ParseDate reads "YYYY" as a year-precision date and "YYYY-MM-DD" (with an
// optional time suffix) as a day-precision date. Year-month alone is
// rejected, as are impossible calendar dates.
func ParseDate(raw string) (types.Date, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return types.Date{}, false
	}
	if m[2] == "" {
		return types.Date{Year: atoi(m[1]), Precision: types.PrecisionYear}, true
	}
	if m[3] == "" {
		return types.Date{}, false
	}
	t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return types.Date{}, false
	}
	return types.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Precision: types.PrecisionDay}, true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
