// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package libris

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// IdentifierType classifies a catalog identifier given on the command line
// or in a list file.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeURI
	TypeLegacy
)

func (t IdentifierType) String() string {
	switch t {
	case TypeURI:
		return "uri"
	case TypeLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// uriPattern matches record URIs such as "fcrtpljz1qp2bdv" or "abc123".
var uriPattern = regexp.MustCompile(`^[0-9a-z]{5,20}$`)

// Classify determines the identifier type and returns the normalized form.
// Full catalog URLs are reduced to their record URI, and legacy catalog
// URLs (".../bib/123") to their numeric id.
func Classify(identifier string) (IdentifierType, string) {
	id := strings.TrimSpace(identifier)
	if u, err := url.Parse(id); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		path := strings.TrimSuffix(u.Path, "/")
		path = strings.TrimSuffix(path, "/data.jsonld")
		id = record.LastSegment(path)
	}

	switch {
	case extract.IsLegacyID(id):
		return TypeLegacy, id
	case uriPattern.MatchString(id):
		return TypeURI, id
	default:
		return TypeUnknown, id
	}
}
